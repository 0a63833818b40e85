package strategy

import (
	"ibexbot/internal/indicators"
	"ibexbot/models"
)

// MACDMomentum fires on MACD line crossings of its signal line
type MACDMomentum struct {
	fast   int
	slow   int
	signal int
}

func NewMACDMomentum() *MACDMomentum {
	return &MACDMomentum{fast: 12, slow: 26, signal: 9}
}

func (m *MACDMomentum) Name() string { return "macd_momentum" }

func (m *MACDMomentum) Evaluate(candles []models.Candle) (*models.StrategySignal, error) {
	if len(candles) < 35 {
		return nil, nil
	}

	closes := models.Closes(candles)
	macd, sig := indicators.MACDSeries(closes, m.fast, m.slow, m.signal)

	n := len(closes)
	last := candles[n-1]

	if macd[n-2] < sig[n-2] && macd[n-1] > sig[n-1] {
		return &models.StrategySignal{
			StrategyID: m.Name(),
			Timestamp:  last.Timestamp,
			Color:      models.ColorGreen,
			Entry:      last.Close,
			TakeProfit: last.Close * 1.02,
			StopLoss:   last.Close * 0.98,
			Shares:     100,
			Reason:     "bullish MACD crossover",
		}, nil
	}

	if macd[n-2] > sig[n-2] && macd[n-1] < sig[n-1] {
		return &models.StrategySignal{
			StrategyID: m.Name(),
			Timestamp:  last.Timestamp,
			Color:      models.ColorRed,
			Entry:      last.Close,
			TakeProfit: last.Close * 0.98,
			StopLoss:   last.Close * 1.02,
			Shares:     100,
			Reason:     "bearish MACD crossover",
		}, nil
	}

	return nil, nil
}
