package strategy

import "ibexbot/models"

// Engulfing detects two-candle engulfing patterns
type Engulfing struct{}

func NewEngulfing() *Engulfing { return &Engulfing{} }

func (e *Engulfing) Name() string { return "engulfing" }

func (e *Engulfing) Evaluate(candles []models.Candle) (*models.StrategySignal, error) {
	if len(candles) < 2 {
		return nil, nil
	}

	prev := candles[len(candles)-2]
	curr := candles[len(candles)-1]

	// Green candle engulfing a red one
	if curr.Close > curr.Open && prev.Close < prev.Open &&
		curr.Open < prev.Close && curr.Close > prev.Open {
		return &models.StrategySignal{
			StrategyID: e.Name(),
			Timestamp:  curr.Timestamp,
			Color:      models.ColorGreen,
			Entry:      curr.Close,
			Reason:     "bullish engulfing candle",
		}, nil
	}

	// Red candle engulfing a green one
	if curr.Close < curr.Open && prev.Close > prev.Open &&
		curr.Open > prev.Close && curr.Close < prev.Open {
		return &models.StrategySignal{
			StrategyID: e.Name(),
			Timestamp:  curr.Timestamp,
			Color:      models.ColorRed,
			Entry:      curr.Close,
			Reason:     "bearish engulfing candle",
		}, nil
	}

	return nil, nil
}
