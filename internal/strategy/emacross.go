package strategy

import (
	"ibexbot/internal/indicators"
	"ibexbot/models"
)

// EMACrossover fires on fast/slow EMA crossings: bullish cross emits a
// green signal, bearish cross a red one.
type EMACrossover struct {
	fast int
	slow int
}

func NewEMACrossover() *EMACrossover {
	return &EMACrossover{fast: 10, slow: 30}
}

func (e *EMACrossover) Name() string { return "ema_crossover" }

func (e *EMACrossover) Evaluate(candles []models.Candle) (*models.StrategySignal, error) {
	if len(candles) < e.slow+2 {
		return nil, nil
	}

	closes := models.Closes(candles)
	fast := indicators.EMASeries(closes, e.fast)
	slow := indicators.EMASeries(closes, e.slow)

	n := len(closes)
	last := candles[n-1]

	// Bullish cross
	if fast[n-2] < slow[n-2] && fast[n-1] > slow[n-1] {
		return &models.StrategySignal{
			StrategyID: e.Name(),
			Timestamp:  last.Timestamp,
			Color:      models.ColorGreen,
			Entry:      last.Close,
			TakeProfit: last.Close * 1.02,
			StopLoss:   last.Close * 0.98,
			Shares:     100,
			Reason:     "bullish EMA crossover",
		}, nil
	}

	// Bearish cross
	if fast[n-2] > slow[n-2] && fast[n-1] < slow[n-1] {
		return &models.StrategySignal{
			StrategyID: e.Name(),
			Timestamp:  last.Timestamp,
			Color:      models.ColorRed,
			Entry:      last.Close,
			TakeProfit: last.Close * 0.98,
			StopLoss:   last.Close * 1.02,
			Shares:     100,
			Reason:     "bearish EMA crossover",
		}, nil
	}

	return nil, nil
}
