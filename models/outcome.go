package models

import "time"

// StrategyOutcome is one row of the append-only strategy performance log
type StrategyOutcome struct {
	ScanID      string    `json:"scan_id"`
	LoggedAt    time.Time `json:"logged_at"`
	StrategyID  string    `json:"strategy_id"`
	Succeeded   bool      `json:"succeeded"`
	PnLFraction float64   `json:"pnl_fraction"`
}
