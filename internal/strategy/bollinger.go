package strategy

import (
	"ibexbot/internal/indicators"
	"ibexbot/models"
)

// BollingerRebound fires when price pierces a Bollinger band: a close
// below the lower band suggests a rebound toward the middle, a close
// above the upper band a correction.
type BollingerRebound struct {
	period int
	stdDev float64
}

func NewBollingerRebound() *BollingerRebound {
	return &BollingerRebound{period: 20, stdDev: 2.0}
}

func (b *BollingerRebound) Name() string { return "bollinger_rebound" }

func (b *BollingerRebound) Evaluate(candles []models.Candle) (*models.StrategySignal, error) {
	if len(candles) < b.period {
		return nil, nil
	}

	closes := models.Closes(candles)
	middle := indicators.SMA(closes, b.period)
	sd := indicators.StdDev(closes, b.period)
	upper := middle + b.stdDev*sd
	lower := middle - b.stdDev*sd

	last := candles[len(candles)-1]

	if last.Close < lower {
		return &models.StrategySignal{
			StrategyID: b.Name(),
			Timestamp:  last.Timestamp,
			Color:      models.ColorGreen,
			Entry:      last.Close,
			TakeProfit: middle,
			StopLoss:   last.Close * 0.97,
			Shares:     100,
			Reason:     "rebound off lower Bollinger band",
		}, nil
	}

	if last.Close > upper {
		return &models.StrategySignal{
			StrategyID: b.Name(),
			Timestamp:  last.Timestamp,
			Color:      models.ColorRed,
			Entry:      last.Close,
			TakeProfit: middle,
			StopLoss:   last.Close * 1.03,
			Shares:     100,
			Reason:     "correction off upper Bollinger band",
		}, nil
	}

	return nil, nil
}
