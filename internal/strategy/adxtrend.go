package strategy

import (
	"ibexbot/internal/indicators"
	"ibexbot/models"
)

// ADXTrend emits a directional signal only when the ADX reports a strong
// trend, using the directional indicators for the side.
type ADXTrend struct {
	period    int
	threshold float64
}

func NewADXTrend() *ADXTrend {
	return &ADXTrend{period: 14, threshold: 25}
}

func (a *ADXTrend) Name() string { return "adx_trend" }

func (a *ADXTrend) Evaluate(candles []models.Candle) (*models.StrategySignal, error) {
	if len(candles) < a.period+1 {
		return nil, nil
	}

	adx, plusDI, minusDI := indicators.ADX(candles, a.period)
	if adx <= a.threshold {
		return nil, nil
	}

	last := candles[len(candles)-1]
	color := models.ColorRed
	reason := "strong trend with -DI above +DI"
	if plusDI > minusDI {
		color = models.ColorGreen
		reason = "strong trend with +DI above -DI"
	}

	return &models.StrategySignal{
		StrategyID: a.Name(),
		Timestamp:  last.Timestamp,
		Color:      color,
		Entry:      last.Close,
		Reason:     reason,
	}, nil
}
