// Package notifier formats and delivers trading alerts. Delivery is
// best effort: a failed send is logged and never fails the scan.
package notifier

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"ibexbot/models"
)

// Notifier delivers a pre-formatted alert text
type Notifier interface {
	Send(text string)
}

// Telegram delivers alerts to a chat via the Bot API
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger zerolog.Logger
}

// NewTelegram authenticates the bot once at startup
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot: %w", err)
	}
	return &Telegram{
		bot:    bot,
		chatID: chatID,
		logger: log.With().Str("component", "notifier").Logger(),
	}, nil
}

// Send posts the text as a Markdown message, fire and forget
func (t *Telegram) Send(text string) {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := t.bot.Send(msg); err != nil {
		t.logger.Error().Err(err).Msg("Telegram send failed")
	}
}

// Console logs alerts instead of delivering them; used in dry-run mode
type Console struct {
	logger zerolog.Logger
}

func NewConsole() *Console {
	return &Console{logger: log.With().Str("component", "notifier").Logger()}
}

func (c *Console) Send(text string) {
	c.logger.Info().Str("alert", text).Msg("Dry-run alert")
}

const timeLayout = "2006-01-02 15:04:05 MST"

// FormatAlert builds the alert text for an action on a ticker: the
// signal anchor time, entry/TP/SL levels, sizing and the recommended
// holding window when present. Zero-valued optional fields are omitted.
func FormatAlert(ticker string, action models.Action, sig *models.ConsensusSignal) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*%s signal* for *%s*\n", action, ticker)
	fmt.Fprintf(&b, "Time: `%s`\n", sig.Timestamp.Format(timeLayout))
	fmt.Fprintf(&b, "Consensus: `%s` (%d green / %d yellow)\n", sig.Color, sig.GreenCount, sig.YellowCount)

	if sig.Entry > 0 {
		fmt.Fprintf(&b, "Entry: `%.4f`\n", sig.Entry)
	}
	if sig.TakeProfit > 0 {
		fmt.Fprintf(&b, "TP: `%.4f`\n", sig.TakeProfit)
	}
	if sig.StopLoss > 0 {
		fmt.Fprintf(&b, "SL: `%.4f`\n", sig.StopLoss)
	}
	if sig.Shares > 0 {
		fmt.Fprintf(&b, "Shares (budget): `%d`\n", sig.Shares)
	}
	if sig.RiskPerShare > 0 {
		fmt.Fprintf(&b, "Risk/share: `%.4f`\n", sig.RiskPerShare)
	}
	if sig.Reason != "" {
		fmt.Fprintf(&b, "Reason: %s\n", sig.Reason)
	}
	if !sig.MinHoldUntil.IsZero() {
		fmt.Fprintf(&b, "Do not close before: `%s`\n", sig.MinHoldUntil.Format(timeLayout))
	}
	if !sig.MaxHoldUntil.IsZero() {
		fmt.Fprintf(&b, "Close at the latest by: `%s`\n", sig.MaxHoldUntil.Format(timeLayout))
	}

	return b.String()
}
