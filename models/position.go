package models

import "time"

// Action is the per-instrument recommendation state
type Action string

const (
	ActionNone  Action = "NONE"
	ActionWatch Action = "WATCH"
	ActionHold  Action = "HOLD"
	ActionBuy   Action = "BUY"
	ActionSell  Action = "SELL"
	ActionShort Action = "SHORT"
	ActionCover Action = "COVER"
)

// Valid reports whether a is one of the defined actions
func (a Action) Valid() bool {
	switch a {
	case ActionNone, ActionWatch, ActionHold, ActionBuy, ActionSell, ActionShort, ActionCover:
		return true
	}
	return false
}

// ParseAction maps a stored string onto an Action. Unknown or corrupt
// values fail open to NONE so one bad row never aborts a scan.
func ParseAction(s string) Action {
	a := Action(s)
	if !a.Valid() {
		return ActionNone
	}
	return a
}

// PositionRecord is the durable per-instrument state, keyed by ticker.
// It is owned exclusively by the recommendation state machine.
type PositionRecord struct {
	Ticker            string    `json:"ticker"`
	State             Action    `json:"state"`
	ReferencePrice    float64   `json:"reference_price"`
	LastActionAt      time.Time `json:"last_action_at"`
	LastNotifiedState Action    `json:"last_notified_state"`
}

// NewPositionRecord returns the initial record for a ticker seen for the
// first time.
func NewPositionRecord(ticker string) PositionRecord {
	return PositionRecord{
		Ticker:            ticker,
		State:             ActionNone,
		LastNotifiedState: ActionNone,
	}
}
