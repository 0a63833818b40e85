package strategy

import (
	"ibexbot/internal/indicators"
	"ibexbot/models"
)

// ROCMomentum follows accelerating rate-of-change: positive and rising
// momentum is bullish, negative and falling momentum bearish.
type ROCMomentum struct {
	period int
}

func NewROCMomentum() *ROCMomentum {
	return &ROCMomentum{period: 12}
}

func (r *ROCMomentum) Name() string { return "roc_momentum" }

func (r *ROCMomentum) Evaluate(candles []models.Candle) (*models.StrategySignal, error) {
	closes := models.Closes(candles)

	latest, ok := indicators.ROC(closes, r.period, len(closes)-1)
	if !ok {
		return nil, nil
	}
	prev, ok := indicators.ROC(closes, r.period, len(closes)-2)
	if !ok {
		prev = latest
	}

	last := candles[len(candles)-1]

	if latest > 0 && latest > prev {
		return &models.StrategySignal{
			StrategyID: r.Name(),
			Timestamp:  last.Timestamp,
			Color:      models.ColorGreen,
			Entry:      last.Close,
			Reason:     "positive and rising rate of change",
		}, nil
	}

	if latest < 0 && latest < prev {
		return &models.StrategySignal{
			StrategyID: r.Name(),
			Timestamp:  last.Timestamp,
			Color:      models.ColorRed,
			Entry:      last.Close,
			Reason:     "negative and falling rate of change",
		}, nil
	}

	return nil, nil
}
