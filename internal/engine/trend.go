package engine

import "ibexbot/internal/indicators"

// Trend classifies the overall direction of a close series
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendFlat Trend = "flat"
)

// Margin applied to the slow EMA before calling a direction, to filter
// noise around the crossover.
const trendMargin = 0.003

// DetectTrend compares a fast and a slow EMA of the closes. Less than 20
// bars is not enough context and reports flat.
func DetectTrend(closes []float64, fast, slow int) Trend {
	if len(closes) < 20 {
		return TrendFlat
	}

	emaFast := indicators.EMA(closes, fast)
	emaSlow := indicators.EMA(closes, slow)

	switch {
	case emaFast > emaSlow*(1+trendMargin):
		return TrendUp
	case emaFast < emaSlow*(1-trendMargin):
		return TrendDown
	}
	return TrendFlat
}
