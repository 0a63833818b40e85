package strategy

import (
	"ibexbot/internal/indicators"
	"ibexbot/models"
)

// ATRBreakout looks for closes breaking the rolling high or low of the
// lookback window, with the threshold softened by half an ATR.
type ATRBreakout struct {
	period int
}

func NewATRBreakout() *ATRBreakout {
	return &ATRBreakout{period: 14}
}

func (a *ATRBreakout) Name() string { return "atr_breakout" }

func (a *ATRBreakout) Evaluate(candles []models.Candle) (*models.StrategySignal, error) {
	if len(candles) < a.period+1 {
		return nil, nil
	}

	highMax := indicators.Highest(models.Highs(candles), a.period)
	lowMin := indicators.Lowest(models.Lows(candles), a.period)
	atr := indicators.ATR(candles, a.period)

	last := candles[len(candles)-1]

	if last.Close > highMax-0.5*atr {
		return &models.StrategySignal{
			StrategyID: a.Name(),
			Timestamp:  last.Timestamp,
			Color:      models.ColorGreen,
			Entry:      last.Close,
			Reason:     "close breaking rolling high adjusted by ATR",
		}, nil
	}

	if last.Close < lowMin+0.5*atr {
		return &models.StrategySignal{
			StrategyID: a.Name(),
			Timestamp:  last.Timestamp,
			Color:      models.ColorRed,
			Entry:      last.Close,
			Reason:     "close breaking rolling low adjusted by ATR",
		}, nil
	}

	return nil, nil
}
