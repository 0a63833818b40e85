package engine

import (
	"time"

	"ibexbot/models"
)

// StateMachine converts a consensus signal plus the stored prior state
// of an instrument into the next action, and decides whether the change
// warrants a notification. It is the only component that mutates
// position records.
type StateMachine struct {
	// Strict disables the cautionary WATCH tier, the short side and the
	// re-entry rule, reproducing the simpler rule set some deployments
	// prefer.
	Strict bool

	// MinHold and MaxHold bound the recommended holding window attached
	// to a transition, for display only.
	MinHold time.Duration
	MaxHold time.Duration
}

// Decision is the outcome of one state-machine evaluation. The hold
// window is populated only on an announced transition.
type Decision struct {
	State  models.Action
	Notify bool
	Record models.PositionRecord

	MinHoldUntil time.Time
	MaxHoldUntil time.Time
}

// Decide evaluates the consensus against the prior record and returns
// the next state. The returned record is the prior record when nothing
// changed, or the updated record to persist when it did. Repeats of the
// stored state are suppressed, and NONE never notifies.
//
// A nil consensus means no strategy fired this cycle; the instrument
// keeps its stored state untouched.
func (m *StateMachine) Decide(consensus *models.ConsensusSignal, trendUp bool, rsi float64, prior models.PositionRecord) Decision {
	if consensus == nil {
		return Decision{State: models.ActionNone, Notify: false, Record: prior}
	}

	color := normalizeColor(consensus.Color)
	next := m.nextState(color, trendUp, rsi, prior.State)

	if next == models.ActionNone || next == prior.State {
		return Decision{State: next, Notify: false, Record: prior}
	}

	rec := prior
	rec.State = next
	rec.ReferencePrice = consensus.Entry
	rec.LastActionAt = consensus.Timestamp
	rec.LastNotifiedState = next

	return Decision{
		State:        next,
		Notify:       true,
		Record:       rec,
		MinHoldUntil: consensus.Timestamp.Add(m.MinHold),
		MaxHoldUntil: consensus.Timestamp.Add(m.MaxHold),
	}
}

func (m *StateMachine) nextState(color models.Color, trendUp bool, rsi float64, prior models.Action) models.Action {
	if m.Strict {
		return strictNextState(color, trendUp, rsi, prior)
	}

	next := models.ActionNone

	longExposure := prior == models.ActionBuy || prior == models.ActionHold
	// Re-entry candidates (rule 5) are excluded from the plain entry rule
	// so the tighter RSI ceiling below actually applies to them.
	reentry := prior == models.ActionHold || prior == models.ActionSell

	switch {
	case color == models.ColorGreen && trendUp && rsi < 75 && !reentry:
		next = models.ActionBuy

	case color == models.ColorYellow || (trendUp && rsi >= 70 && rsi < 85):
		if longExposure {
			next = models.ActionHold
		} else {
			next = models.ActionWatch
		}

	case color == models.ColorRed && !trendUp && rsi > 70:
		if longExposure {
			next = models.ActionSell
		} else if (prior == models.ActionNone || prior == models.ActionSell || prior == models.ActionCover) && rsi > 30 {
			next = models.ActionShort
		}
	}

	// Closing a short on a confirmed reversal overrides everything else.
	if prior == models.ActionShort && color == models.ColorGreen && trendUp {
		return models.ActionCover
	}

	// Re-entry after a prior exit, gated by a tighter RSI ceiling to
	// avoid chasing extended moves.
	if next == models.ActionNone && reentry && color == models.ColorGreen && trendUp && rsi < 65 {
		next = models.ActionBuy
	}

	return next
}

// strictNextState is the reduced variant: long side only, no cautionary
// tier, unconditional exit on a confirmed downturn.
func strictNextState(color models.Color, trendUp bool, rsi float64, prior models.Action) models.Action {
	switch {
	case color == models.ColorGreen && trendUp && rsi < 75:
		return models.ActionBuy
	case color == models.ColorYellow || (trendUp && rsi >= 70 && rsi < 85):
		if prior == models.ActionBuy || prior == models.ActionHold {
			return models.ActionHold
		}
		return models.ActionNone
	case color == models.ColorRed && !trendUp && rsi > 70:
		return models.ActionSell
	}
	return models.ActionNone
}
