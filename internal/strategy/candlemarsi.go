package strategy

import (
	"ibexbot/internal/indicators"
	"ibexbot/models"
)

// CandleMARSI trades fresh EMA crossings confirmed by a decisive candle
// and a moderate RSI, filtering the bare crossover's whipsaws.
type CandleMARSI struct {
	emaFast  int
	emaSlow  int
	rsiLen   int
	bodyFrac float64
}

func NewCandleMARSI() *CandleMARSI {
	return &CandleMARSI{emaFast: 10, emaSlow: 20, rsiLen: 14, bodyFrac: 0.7}
}

func (c *CandleMARSI) Name() string { return "candle_ma_rsi" }

func (c *CandleMARSI) Evaluate(candles []models.Candle) (*models.StrategySignal, error) {
	if len(candles) < c.emaSlow+2 {
		return nil, nil
	}

	closes := models.Closes(candles)
	fast := indicators.EMASeries(closes, c.emaFast)
	slow := indicators.EMASeries(closes, c.emaSlow)
	rsi := indicators.RSI(candles, c.rsiLen)

	n := len(closes)
	last := candles[n-1]
	if !strongCandle(last, c.bodyFrac) {
		return nil, nil
	}

	if fast[n-2] < slow[n-2] && fast[n-1] > slow[n-1] && rsi > 40 {
		return &models.StrategySignal{
			StrategyID: c.Name(),
			Timestamp:  last.Timestamp,
			Color:      models.ColorGreen,
			Entry:      last.Close,
			TakeProfit: last.Close * 1.02,
			StopLoss:   last.Close * 0.98,
			Shares:     100,
			Reason:     "bullish EMA crossover on a decisive candle",
		}, nil
	}

	if fast[n-2] > slow[n-2] && fast[n-1] < slow[n-1] && rsi < 60 {
		return &models.StrategySignal{
			StrategyID: c.Name(),
			Timestamp:  last.Timestamp,
			Color:      models.ColorRed,
			Entry:      last.Close,
			TakeProfit: last.Close * 0.98,
			StopLoss:   last.Close * 1.02,
			Shares:     100,
			Reason:     "bearish EMA crossover on a decisive candle",
		}, nil
	}

	return nil, nil
}
