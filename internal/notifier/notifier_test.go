package notifier

import (
	"strings"
	"testing"
	"time"

	"ibexbot/models"
)

func TestFormatAlertFullSignal(t *testing.T) {
	ts := time.Date(2024, 5, 2, 17, 30, 0, 0, time.UTC)
	sig := &models.ConsensusSignal{
		StrategySignal: models.StrategySignal{
			StrategyID:   "murphy",
			Timestamp:    ts,
			Color:        models.ColorGreen,
			Entry:        10.5,
			TakeProfit:   11.2,
			StopLoss:     10.1,
			Shares:       250,
			RiskPerShare: 0.4,
			Reason:       "EMA uptrend with volume breakout and RSI in range",
		},
		GreenCount:   2,
		YellowCount:  1,
		MinHoldUntil: ts.Add(2 * time.Hour),
		MaxHoldUntil: ts.Add(48 * time.Hour),
	}

	text := FormatAlert("SAN.MC", models.ActionBuy, sig)

	for _, want := range []string{
		"*BUY signal* for *SAN.MC*",
		"Time: `2024-05-02 17:30:00 UTC`",
		"Consensus: `green` (2 green / 1 yellow)",
		"Entry: `10.5000`",
		"TP: `11.2000`",
		"SL: `10.1000`",
		"Shares (budget): `250`",
		"Risk/share: `0.4000`",
		"Reason: EMA uptrend with volume breakout and RSI in range",
		"Do not close before: `2024-05-02 19:30:00 UTC`",
		"Close at the latest by: `2024-05-04 17:30:00 UTC`",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("alert missing %q:\n%s", want, text)
		}
	}
}

func TestFormatAlertOmitsZeroFields(t *testing.T) {
	sig := &models.ConsensusSignal{
		StrategySignal: models.StrategySignal{
			Timestamp: time.Date(2024, 5, 2, 17, 30, 0, 0, time.UTC),
			Color:     models.ColorRed,
		},
	}

	text := FormatAlert("IBE.MC", models.ActionSell, sig)

	if !strings.Contains(text, "*SELL signal* for *IBE.MC*") {
		t.Errorf("alert missing header:\n%s", text)
	}
	for _, banned := range []string{"Entry:", "TP:", "SL:", "Shares", "Risk/share:", "Reason:", "Do not close", "Close at the latest"} {
		if strings.Contains(text, banned) {
			t.Errorf("alert should omit %q for a bare signal:\n%s", banned, text)
		}
	}
}
