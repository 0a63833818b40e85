// Package scanner orchestrates one full pass over the ticker universe:
// fetch bars, evaluate strategies, combine their signals, run the state
// machine and deliver any warranted alerts. Failures stay local to the
// strategy or ticker that caused them.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"ibexbot/internal/config"
	"ibexbot/internal/engine"
	"ibexbot/internal/indicators"
	"ibexbot/internal/ledger"
	"ibexbot/internal/marketdata"
	"ibexbot/internal/notifier"
	"ibexbot/internal/selector"
	"ibexbot/internal/strategy"
	"ibexbot/models"
)

// Deps are the collaborators a Scanner is wired with. All of them are
// constructed once per run; the scanner holds no hidden global state.
type Deps struct {
	Config     *config.Config
	Bars       models.BarSource
	Strategies []strategy.Strategy
	Selector   *selector.Selector
	Machine    *engine.StateMachine
	Positions  engine.PositionStore
	Ledger     *ledger.Ledger
	Notifier   notifier.Notifier
}

// Scanner runs single-threaded, one instrument at a time
type Scanner struct {
	cfg        *config.Config
	bars       models.BarSource
	strategies []strategy.Strategy
	sel        *selector.Selector
	machine    *engine.StateMachine
	positions  engine.PositionStore
	ledger     *ledger.Ledger
	notify     notifier.Notifier
	logger     zerolog.Logger
	now        func() time.Time
}

func New(d Deps) *Scanner {
	return &Scanner{
		cfg:        d.Config,
		bars:       d.Bars,
		strategies: d.Strategies,
		sel:        d.Selector,
		machine:    d.Machine,
		positions:  d.Positions,
		ledger:     d.Ledger,
		notify:     d.Notifier,
		logger:     log.With().Str("component", "scanner").Logger(),
		now:        time.Now,
	}
}

// ScanOnce processes the whole universe once. Per-ticker failures are
// contained and reported; only setup-level faults return an error.
func (s *Scanner) ScanOnce(ctx context.Context) error {
	scanID := uuid.NewString()
	logger := s.logger.With().Str("scan_id", scanID).Logger()

	loc, err := time.LoadLocation(s.cfg.Timezone)
	if err != nil {
		return fmt.Errorf("loading timezone %q: %w", s.cfg.Timezone, err)
	}
	nowLocal := s.now().In(loc)
	if !withinMarketHours(nowLocal, s.cfg.MarketOpen, s.cfg.MarketClose) {
		logger.Info().Time("now", nowLocal).Msg("Outside market hours, nothing to do")
		return nil
	}

	blacklist := NewBlacklist()
	universe := s.cfg.Universe()
	logger.Info().Int("tickers", len(universe)).Msg("Scan started")

	for _, ticker := range universe {
		if blacklist.Contains(ticker) {
			continue
		}
		if err := s.scanTicker(ctx, logger, scanID, ticker); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			blacklist.Add(ticker, err.Error())
			if errors.Is(err, marketdata.ErrNoData) {
				logger.Warn().Str("ticker", ticker).Msg("No recent data, ticker skipped")
			} else {
				logger.Warn().Err(err).Str("ticker", ticker).Msg("Ticker skipped")
			}
		}
	}

	logger.Info().Int("skipped", blacklist.Len()).Msg("Scan finished")
	return nil
}

func (s *Scanner) scanTicker(ctx context.Context, logger zerolog.Logger, scanID, ticker string) error {
	candles, err := s.bars.GetBars(ctx, ticker, s.cfg.LookbackDays, s.cfg.Interval)
	if err != nil {
		return err
	}
	if len(candles) == 0 {
		return marketdata.ErrNoData
	}

	lastClose := candles[len(candles)-1].Close
	if s.cfg.PriceCap > 0 && lastClose >= s.cfg.PriceCap {
		logger.Debug().Str("ticker", ticker).Float64("close", lastClose).Msg("Price above cap, skipped")
		return nil
	}

	signals := s.evaluate(ctx, logger, scanID, ticker, candles)

	consensus := engine.Combine(signals, strategy.Names(s.strategies))
	closes := models.Closes(candles)
	trend := engine.DetectTrend(closes, s.cfg.EMAFast, s.cfg.EMASlow)
	rsi := indicators.RSI(candles, s.cfg.RSILen)

	prior, err := engine.LoadPosition(ctx, s.positions, ticker)
	if err != nil {
		logger.Warn().Err(err).Str("ticker", ticker).Msg("Prior state unreadable, reinitialized")
	}

	decision := s.machine.Decide(consensus, trend == engine.TrendUp, rsi, prior)
	if consensus != nil {
		logger.Info().
			Str("ticker", ticker).
			Str("color", string(consensus.Color)).
			Str("trend", string(trend)).
			Float64("rsi", rsi).
			Str("action", string(decision.State)).
			Bool("notify", decision.Notify).
			Msg("Decision")
	}
	if !decision.Notify {
		return nil
	}

	// Persist before notifying: a crash in between re-derives the same
	// state next cycle instead of announcing it twice.
	if err := s.positions.SavePosition(ctx, decision.Record); err != nil {
		return fmt.Errorf("persisting state for %s: %w", ticker, err)
	}
	alert := *consensus
	alert.MinHoldUntil = decision.MinHoldUntil
	alert.MaxHoldUntil = decision.MaxHoldUntil
	s.notify.Send(notifier.FormatAlert(ticker, decision.State, &alert))
	return nil
}

// evaluate runs the strategies for one ticker and logs their outcomes.
// In adaptive mode only the selector's pick runs; the default consults
// every registered strategy so the consensus has multiple contributors.
func (s *Scanner) evaluate(ctx context.Context, logger zerolog.Logger, scanID, ticker string, candles []models.Candle) []models.StrategySignal {
	toRun := s.strategies
	if s.cfg.AdaptiveMode {
		scores, err := s.ledger.Scores(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("Scores unavailable, falling back to rotation")
			scores = nil
		}
		picked := s.sel.Next(scores)
		logger.Debug().Str("ticker", ticker).Str("strategy", picked).Msg("Adaptive pick")
		toRun = nil
		for _, strat := range s.strategies {
			if strat.Name() == picked {
				toRun = []strategy.Strategy{strat}
				break
			}
		}
	}

	var signals []models.StrategySignal
	for _, strat := range toRun {
		sig, err := strat.Evaluate(candles)
		if err != nil {
			// One broken strategy never aborts the cycle for the rest.
			logger.Warn().Err(err).Str("ticker", ticker).Str("strategy", strat.Name()).Msg("Strategy evaluation failed")
			continue
		}

		fired := sig != nil
		pnl := 0.0
		if fired {
			signals = append(signals, *sig)
			if sig.Entry > 0 && sig.TakeProfit > 0 {
				// Theoretical outcome proxy: distance to target.
				pnl = (sig.TakeProfit - sig.Entry) / sig.Entry
			}
		}
		if err := s.ledger.LogResult(ctx, scanID, strat.Name(), fired, pnl); err != nil {
			logger.Warn().Err(err).Str("strategy", strat.Name()).Msg("Outcome logging failed")
		}
	}
	return signals
}

// withinMarketHours checks weekday plus the configured open/close window
func withinMarketHours(now time.Time, open, close string) bool {
	if now.Weekday() == time.Saturday || now.Weekday() == time.Sunday {
		return false
	}
	hOpen, err := time.Parse("15:04", open)
	if err != nil {
		return true
	}
	hClose, err := time.Parse("15:04", close)
	if err != nil {
		return true
	}
	minutes := now.Hour()*60 + now.Minute()
	return minutes >= hOpen.Hour()*60+hOpen.Minute() &&
		minutes <= hClose.Hour()*60+hClose.Minute()
}
