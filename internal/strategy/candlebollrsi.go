package strategy

import (
	"fmt"

	"ibexbot/internal/indicators"
	"ibexbot/models"
)

// strongCandle reports whether the bar's body covers at least minBodyFrac
// of its full range. Doji-like bars with long wicks fail the test.
func strongCandle(c models.Candle, minBodyFrac float64) bool {
	rng := c.High - c.Low
	if rng <= 0 {
		return false
	}
	body := c.Close - c.Open
	if body < 0 {
		body = -body
	}
	return body/rng > minBodyFrac
}

// CandleBollRSI combines a decisive candle with a Bollinger band pierce
// confirmed by an RSI extreme: a strong bar closing below the lower band
// on an oversold RSI suggests a rebound, the mirror setup a correction.
type CandleBollRSI struct {
	period   int
	stdDev   float64
	rsiLen   int
	bodyFrac float64
}

func NewCandleBollRSI() *CandleBollRSI {
	return &CandleBollRSI{period: 20, stdDev: 2.0, rsiLen: 14, bodyFrac: 0.6}
}

func (c *CandleBollRSI) Name() string { return "candle_boll_rsi" }

func (c *CandleBollRSI) Evaluate(candles []models.Candle) (*models.StrategySignal, error) {
	if len(candles) < c.period {
		return nil, nil
	}

	closes := models.Closes(candles)
	middle := indicators.SMA(closes, c.period)
	sd := indicators.StdDev(closes, c.period)
	upper := middle + c.stdDev*sd
	lower := middle - c.stdDev*sd
	rsi := indicators.RSI(candles, c.rsiLen)

	last := candles[len(candles)-1]
	if !strongCandle(last, c.bodyFrac) {
		return nil, nil
	}

	if last.Close < lower && rsi < 30 {
		return &models.StrategySignal{
			StrategyID: c.Name(),
			Timestamp:  last.Timestamp,
			Color:      models.ColorGreen,
			Entry:      last.Close,
			TakeProfit: middle,
			StopLoss:   last.Close * 0.97,
			Shares:     100,
			Reason:     fmt.Sprintf("strong candle at lower band with RSI %.1f", rsi),
		}, nil
	}

	if last.Close > upper && rsi > 70 {
		return &models.StrategySignal{
			StrategyID: c.Name(),
			Timestamp:  last.Timestamp,
			Color:      models.ColorRed,
			Entry:      last.Close,
			TakeProfit: middle,
			StopLoss:   last.Close * 1.03,
			Shares:     100,
			Reason:     fmt.Sprintf("strong candle at upper band with RSI %.1f", rsi),
		}, nil
	}

	return nil, nil
}
