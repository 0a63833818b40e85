package strategy

import (
	"ibexbot/internal/indicators"
	"ibexbot/models"
)

// CandleSRVolume detects support/resistance breaks: a decisive candle
// closing at the edge of the rolling high or low, confirmed by volume
// well above its average.
type CandleSRVolume struct {
	lookback int
	volMult  float64
	bodyFrac float64
	srMargin float64
}

func NewCandleSRVolume() *CandleSRVolume {
	return &CandleSRVolume{lookback: 20, volMult: 1.5, bodyFrac: 0.7, srMargin: 0.001}
}

func (c *CandleSRVolume) Name() string { return "candle_sr_volume" }

func (c *CandleSRVolume) Evaluate(candles []models.Candle) (*models.StrategySignal, error) {
	if len(candles) < c.lookback {
		return nil, nil
	}

	highMax := indicators.Highest(models.Highs(candles), c.lookback)
	lowMin := indicators.Lowest(models.Lows(candles), c.lookback)
	volumes := models.Volumes(candles)
	volAvg := indicators.SMA(volumes, c.lookback)

	last := candles[len(candles)-1]
	if !strongCandle(last, c.bodyFrac) {
		return nil, nil
	}
	if volumes[len(volumes)-1] <= c.volMult*volAvg {
		return nil, nil
	}

	if last.Close > highMax*(1-c.srMargin) {
		return &models.StrategySignal{
			StrategyID: c.Name(),
			Timestamp:  last.Timestamp,
			Color:      models.ColorGreen,
			Entry:      last.Close,
			TakeProfit: last.Close * 1.015,
			StopLoss:   last.Close * 0.985,
			Shares:     100,
			Reason:     "resistance break on volume with a decisive candle",
		}, nil
	}

	if last.Close < lowMin*(1+c.srMargin) {
		return &models.StrategySignal{
			StrategyID: c.Name(),
			Timestamp:  last.Timestamp,
			Color:      models.ColorRed,
			Entry:      last.Close,
			TakeProfit: last.Close * 0.985,
			StopLoss:   last.Close * 1.015,
			Shares:     100,
			Reason:     "support break on volume with a decisive candle",
		}, nil
	}

	return nil, nil
}
