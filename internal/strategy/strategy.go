// Package strategy contains the independent technical heuristics the bot
// consults. Each strategy evaluates a bar series on its own and may emit
// a signal; failures in one strategy never affect the others.
package strategy

import (
	"ibexbot/internal/risk"
	"ibexbot/models"
)

// Strategy evaluates a candle series and optionally emits a signal.
// A nil signal with a nil error means no setup this cycle.
type Strategy interface {
	Name() string
	Evaluate(candles []models.Candle) (*models.StrategySignal, error)
}

// DefaultRegistry returns all built-in strategies in stable registration
// order. The order matters: it is the tie-break used when combining
// signals with identical timestamps.
func DefaultRegistry(sizer risk.Sizer) []Strategy {
	return []Strategy{
		NewMurphy(sizer),
		NewMACDMomentum(),
		NewRSIReversal(),
		NewBollingerRebound(),
		NewEMACrossover(),
		NewATRBreakout(),
		NewADXTrend(),
		NewEngulfing(),
		NewROCMomentum(),
		NewCandleBollRSI(),
		NewCandleMARSI(),
		NewCandleSRVolume(),
	}
}

// Names returns the registration-ordered identifiers of a registry
func Names(registry []Strategy) []string {
	out := make([]string, len(registry))
	for i, s := range registry {
		out[i] = s.Name()
	}
	return out
}
