package models

import "context"

// BarSource supplies a time-ordered OHLCV series for a ticker. A nil or
// empty result means no usable data for this cycle.
type BarSource interface {
	GetBars(ctx context.Context, ticker string, days int, interval string) ([]Candle, error)
}
