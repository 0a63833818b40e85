// Package ledger keeps the append-only record of strategy outcomes and
// derives a performance score per strategy from it.
package ledger

import (
	"context"
	"fmt"
	"time"

	"ibexbot/models"
)

// OutcomeStore is the durable append-only log behind the ledger
type OutcomeStore interface {
	AppendOutcome(ctx context.Context, o models.StrategyOutcome) error
	Outcomes(ctx context.Context) ([]models.StrategyOutcome, error)
}

// Ledger wraps an outcome store with the scoring rule
type Ledger struct {
	store OutcomeStore
	now   func() time.Time
}

func New(store OutcomeStore) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

// LogResult appends one outcome row. Only storage I/O can fail; callers
// log the error and keep scanning.
func (l *Ledger) LogResult(ctx context.Context, scanID, strategyID string, succeeded bool, pnl float64) error {
	o := models.StrategyOutcome{
		ScanID:      scanID,
		LoggedAt:    l.now(),
		StrategyID:  strategyID,
		Succeeded:   succeeded,
		PnLFraction: pnl,
	}
	if err := l.store.AppendOutcome(ctx, o); err != nil {
		return fmt.Errorf("appending outcome for %s: %w", strategyID, err)
	}
	return nil
}

// Scores derives the per-strategy score map from the full log. Strategies
// with no recorded outcomes are absent; callers substitute the neutral
// default.
func (l *Ledger) Scores(ctx context.Context) (map[string]float64, error) {
	outcomes, err := l.store.Outcomes(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading outcome log: %w", err)
	}
	return ScoreOutcomes(outcomes), nil
}

// ScoreOutcomes aggregates raw outcome rows into scores:
// 0.7 * success rate + 0.3 * normalized mean pnl, where a pnl fraction
// in [-1, 1] maps onto [0, 1], clamped.
func ScoreOutcomes(outcomes []models.StrategyOutcome) map[string]float64 {
	type agg struct {
		n         int
		successes int
		pnlSum    float64
	}
	byStrategy := make(map[string]*agg)
	for _, o := range outcomes {
		a := byStrategy[o.StrategyID]
		if a == nil {
			a = &agg{}
			byStrategy[o.StrategyID] = a
		}
		a.n++
		if o.Succeeded {
			a.successes++
		}
		a.pnlSum += o.PnLFraction
	}

	scores := make(map[string]float64, len(byStrategy))
	for id, a := range byStrategy {
		successRate := float64(a.successes) / float64(a.n)
		pnlNorm := (a.pnlSum/float64(a.n) + 1) / 2
		if pnlNorm < 0 {
			pnlNorm = 0
		} else if pnlNorm > 1 {
			pnlNorm = 1
		}
		scores[id] = 0.7*successRate + 0.3*pnlNorm
	}
	return scores
}
