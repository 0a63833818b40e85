package strategy

import (
	"ibexbot/internal/indicators"
	"ibexbot/internal/risk"
	"ibexbot/models"
)

// Murphy is the flagship setup: an EMA uptrend confirmed by a breakout
// of the recent high on above-average volume, with RSI inside a sane
// band. Stops and targets are derived from ATR.
type Murphy struct {
	sizer risk.Sizer

	emaFast      int
	emaSlow      int
	rsiLen       int
	rsiMin       float64
	rsiMax       float64
	volAvgLen    int
	highBreakLen int
	atrLen       int
	atrMultSL    float64
	rewardMult   float64
}

// NewMurphy builds the strategy with its canonical parameters
func NewMurphy(sizer risk.Sizer) *Murphy {
	return &Murphy{
		sizer:        sizer,
		emaFast:      12,
		emaSlow:      26,
		rsiLen:       14,
		rsiMin:       30,
		rsiMax:       70,
		volAvgLen:    20,
		highBreakLen: 20,
		atrLen:       14,
		atrMultSL:    1.5,
		rewardMult:   2.0,
	}
}

func (m *Murphy) Name() string { return "murphy" }

func (m *Murphy) Evaluate(candles []models.Candle) (*models.StrategySignal, error) {
	minLen := m.emaSlow * 2
	if alt := m.volAvgLen + m.highBreakLen + m.rsiLen + m.atrLen; alt > minLen {
		minLen = alt
	}
	if len(candles) < minLen {
		return nil, nil
	}

	closes := models.Closes(candles)
	highs := models.Highs(candles)
	volumes := models.Volumes(candles)
	last := candles[len(candles)-1]

	trendUp := indicators.EMA(closes, m.emaFast) > indicators.EMA(closes, m.emaSlow)
	rsi := indicators.RSI(candles, m.rsiLen)
	rsiOK := rsi > m.rsiMin && rsi < m.rsiMax
	volOK := volumes[len(volumes)-1] > indicators.SMA(volumes, m.volAvgLen)
	// Breakout against the prior window, current bar excluded.
	breakout := last.High > indicators.Highest(highs[:len(highs)-1], m.highBreakLen)

	if !(trendUp && breakout && volOK && rsiOK) {
		return nil, nil
	}

	entry := last.Close
	atr := indicators.ATR(candles, m.atrLen)
	stop := entry - m.atrMultSL*atr
	target := entry + m.rewardMult*atr

	return &models.StrategySignal{
		StrategyID:   m.Name(),
		Timestamp:    last.Timestamp,
		Color:        models.ColorGreen,
		Entry:        entry,
		TakeProfit:   target,
		StopLoss:     stop,
		Shares:       m.sizer.Shares(entry, stop),
		RiskPerShare: entry - stop,
		Reason:       "EMA uptrend with volume breakout and RSI in range",
	}, nil
}
