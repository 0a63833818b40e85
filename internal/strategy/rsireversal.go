package strategy

import (
	"fmt"

	"ibexbot/internal/indicators"
	"ibexbot/models"
)

// RSIReversal trades mean reversion at RSI extremes: oversold readings
// suggest a rebound, overbought readings a correction.
type RSIReversal struct {
	period     int
	oversold   float64
	overbought float64
}

func NewRSIReversal() *RSIReversal {
	return &RSIReversal{period: 14, oversold: 30, overbought: 70}
}

func (r *RSIReversal) Name() string { return "rsi_reversal" }

func (r *RSIReversal) Evaluate(candles []models.Candle) (*models.StrategySignal, error) {
	if len(candles) < r.period+1 {
		return nil, nil
	}

	last := candles[len(candles)-1]
	rsi := indicators.RSI(candles, r.period)

	if rsi < r.oversold {
		return &models.StrategySignal{
			StrategyID: r.Name(),
			Timestamp:  last.Timestamp,
			Color:      models.ColorGreen,
			Entry:      last.Close,
			TakeProfit: last.Close * 1.03,
			StopLoss:   last.Close * 0.97,
			Shares:     100,
			Reason:     fmt.Sprintf("RSI %.1f oversold", rsi),
		}, nil
	}

	if rsi > r.overbought {
		return &models.StrategySignal{
			StrategyID: r.Name(),
			Timestamp:  last.Timestamp,
			Color:      models.ColorRed,
			Entry:      last.Close,
			TakeProfit: last.Close * 0.97,
			StopLoss:   last.Close * 1.03,
			Shares:     100,
			Reason:     fmt.Sprintf("RSI %.1f overbought", rsi),
		}, nil
	}

	return nil, nil
}
