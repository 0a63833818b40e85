// Package engine implements the signal-aggregation core: the combiner
// that reduces per-strategy signals to one consensus judgment, and the
// recommendation state machine that turns that judgment plus prior
// position state into an action and a notify decision.
package engine

import "ibexbot/models"

// Combine reduces the signals produced for one instrument in one cycle
// to a single consensus signal. The consensus color follows a simple
// majority rule: green needs at least two independently green
// strategies, a single green or any yellow downgrades to yellow, and
// everything else is red. The representative payload comes from the
// contributing signal with the most recent timestamp; ties are broken by
// registration order so the result never depends on arrival order.
//
// order is the registration-ordered list of strategy identifiers.
// Returns nil when signals is empty.
func Combine(signals []models.StrategySignal, order []string) *models.ConsensusSignal {
	if len(signals) == 0 {
		return nil
	}

	rank := make(map[string]int, len(order))
	for i, id := range order {
		rank[id] = i
	}

	var greens, yellows int
	best := 0
	for i, s := range signals {
		switch normalizeColor(s.Color) {
		case models.ColorGreen:
			greens++
		case models.ColorYellow:
			yellows++
		}
		if i == 0 {
			continue
		}
		if s.Timestamp.After(signals[best].Timestamp) {
			best = i
		} else if s.Timestamp.Equal(signals[best].Timestamp) &&
			rankOf(rank, s.StrategyID) < rankOf(rank, signals[best].StrategyID) {
			best = i
		}
	}

	color := models.ColorRed
	if greens >= 2 {
		color = models.ColorGreen
	} else if greens == 1 || yellows >= 1 {
		color = models.ColorYellow
	}

	consensus := models.ConsensusSignal{
		StrategySignal: signals[best],
		GreenCount:     greens,
		YellowCount:    yellows,
	}
	consensus.Color = color
	return &consensus
}

// normalizeColor validates a contributed color at the combiner boundary:
// anything that is not an explicit green or yellow counts as red.
func normalizeColor(c models.Color) models.Color {
	switch c {
	case models.ColorGreen, models.ColorYellow:
		return c
	}
	return models.ColorRed
}

func rankOf(rank map[string]int, id string) int {
	if r, ok := rank[id]; ok {
		return r
	}
	return len(rank)
}
