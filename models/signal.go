package models

import "time"

// Color classifies the strength and direction of a strategy signal
type Color string

const (
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorRed    Color = "red"
)

// StrategySignal is the output of one strategy evaluation for one
// instrument at one point in time. Numeric fields are optional; a zero
// value means the strategy did not supply them.
type StrategySignal struct {
	StrategyID   string    `json:"strategy_id"`
	Timestamp    time.Time `json:"timestamp"`
	Color        Color     `json:"color"`
	Entry        float64   `json:"entry,omitempty"`
	TakeProfit   float64   `json:"tp,omitempty"`
	StopLoss     float64   `json:"sl,omitempty"`
	Shares       int       `json:"shares,omitempty"`
	RiskPerShare float64   `json:"risk_per_share,omitempty"`
	Reason       string    `json:"reason,omitempty"`
}

// ConsensusSignal is the merged judgment over all strategy signals for
// one instrument in one evaluation cycle. The embedded payload comes from
// the most recent contributing signal with Color overwritten by the
// consensus rule.
type ConsensusSignal struct {
	StrategySignal

	GreenCount  int `json:"green_count"`
	YellowCount int `json:"yellow_count"`

	// Recommended holding window, set on a state transition for display
	// purposes only.
	MinHoldUntil time.Time `json:"min_hold_until,omitempty"`
	MaxHoldUntil time.Time `json:"max_hold_until,omitempty"`
}
