package main

import (
	"context"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"ibexbot/internal/config"
	"ibexbot/internal/database"
	"ibexbot/internal/engine"
	"ibexbot/internal/ledger"
	"ibexbot/internal/marketdata"
	"ibexbot/internal/notifier"
	"ibexbot/internal/risk"
	"ibexbot/internal/scanner"
	"ibexbot/internal/selector"
	"ibexbot/internal/strategy"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl)

	opts := database.Options{Driver: "sqlite", DSN: cfg.StateDBPath}
	if cfg.DatabaseURL != "" {
		opts = database.Options{Driver: "postgres", DSN: cfg.DatabaseURL}
	}
	db, err := database.New(opts)
	if err != nil {
		log.Fatal().Err(err).Msg("Opening state store failed")
	}
	defer db.Close()

	sizer := risk.NewSizer(cfg.Budget, cfg.MaxRiskFraction)
	registry := strategy.DefaultRegistry(sizer)

	sel, err := selector.New(strategy.Names(registry), nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid strategy registry")
	}

	machine := &engine.StateMachine{
		Strict:  cfg.StrictMode,
		MinHold: time.Duration(cfg.MinHoldHours) * time.Hour,
		MaxHold: time.Duration(cfg.MaxHoldDays) * 24 * time.Hour,
	}

	var notify notifier.Notifier = notifier.NewConsole()
	if !cfg.DryRun && cfg.TelegramToken != "" {
		tg, err := notifier.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Fatal().Err(err).Msg("Telegram setup failed")
		}
		notify = tg
	}

	s := scanner.New(scanner.Deps{
		Config:     cfg,
		Bars:       marketdata.NewClient(time.Duration(cfg.RequestTimeout) * time.Second),
		Strategies: registry,
		Selector:   sel,
		Machine:    machine,
		Positions:  db,
		Ledger:     ledger.New(db),
		Notifier:   notify,
	})

	if err := s.ScanOnce(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Scan failed")
	}
}
