package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ibexbot/internal/config"
	"ibexbot/internal/engine"
	"ibexbot/internal/ledger"
	"ibexbot/internal/selector"
	"ibexbot/internal/strategy"
	"ibexbot/models"
)

// fixedStrategy returns a canned signal regardless of the candles
type fixedStrategy struct {
	name string
	sig  *models.StrategySignal
	err  error
}

func (f *fixedStrategy) Name() string { return f.name }

func (f *fixedStrategy) Evaluate([]models.Candle) (*models.StrategySignal, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.sig == nil {
		return nil, nil
	}
	sig := *f.sig
	sig.StrategyID = f.name
	return &sig, nil
}

type fakeBars struct {
	bars  map[string][]models.Candle
	errs  map[string]error
	calls int
}

func (f *fakeBars) GetBars(ctx context.Context, ticker string, days int, interval string) ([]models.Candle, error) {
	f.calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := f.errs[ticker]; err != nil {
		return nil, err
	}
	return f.bars[ticker], nil
}

type memPositions struct {
	records map[string]models.PositionRecord
	saves   int
}

func newMemPositions() *memPositions {
	return &memPositions{records: make(map[string]models.PositionRecord)}
}

func (m *memPositions) Position(ctx context.Context, ticker string) (*models.PositionRecord, error) {
	rec, ok := m.records[ticker]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *memPositions) SavePosition(ctx context.Context, rec models.PositionRecord) error {
	m.records[rec.Ticker] = rec
	m.saves++
	return nil
}

type memOutcomes struct {
	rows []models.StrategyOutcome
}

func (m *memOutcomes) AppendOutcome(ctx context.Context, o models.StrategyOutcome) error {
	m.rows = append(m.rows, o)
	return nil
}

func (m *memOutcomes) Outcomes(ctx context.Context) ([]models.StrategyOutcome, error) {
	return m.rows, nil
}

type captureNotifier struct {
	sent []string
}

func (c *captureNotifier) Send(text string) { c.sent = append(c.sent, text) }

// risingCandles is an uptrend with pullbacks so the RSI stays moderate
func risingCandles(n int) []models.Candle {
	candles := make([]models.Candle, n)
	base := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	for i := range candles {
		c := 50 + float64(i) + 4*float64(i%2)
		candles[i] = models.Candle{
			Timestamp: base.AddDate(0, 0, i),
			Open:      c - 1,
			High:      c + 1,
			Low:       c - 2,
			Close:     c,
			Volume:    1000,
		}
	}
	return candles
}

func writeUniverse(t *testing.T, tickers ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "universe.txt")
	content := "# test universe\n"
	for _, tk := range tickers {
		content += tk + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testConfig(universeFile string) *config.Config {
	return &config.Config{
		UniverseFile: universeFile,
		PriceCap:     1000,
		Interval:     "1d",
		LookbackDays: 60,
		EMAFast:      10,
		EMASlow:      30,
		RSILen:       14,
		MinHoldHours: 2,
		MaxHoldDays:  2,
		Timezone:     "UTC",
		MarketOpen:   "00:00",
		MarketClose:  "23:59",
	}
}

// wednesday noon, inside any sane market window
var scanTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func greenSignal(ts time.Time) *models.StrategySignal {
	return &models.StrategySignal{
		Timestamp:  ts,
		Color:      models.ColorGreen,
		Entry:      100,
		TakeProfit: 104,
		StopLoss:   98,
		Shares:     50,
	}
}

func newTestScanner(t *testing.T, cfg *config.Config, bars *fakeBars, strategies []strategy.Strategy, positions *memPositions, outcomes *memOutcomes, notify *captureNotifier) *Scanner {
	t.Helper()
	sel, err := selector.New(strategy.Names(strategies), nil)
	if err != nil {
		t.Fatal(err)
	}
	s := New(Deps{
		Config:     cfg,
		Bars:       bars,
		Strategies: strategies,
		Selector:   sel,
		Machine:    &engine.StateMachine{MinHold: 2 * time.Hour, MaxHold: 48 * time.Hour},
		Positions:  positions,
		Ledger:     ledger.New(outcomes),
		Notifier:   notify,
	})
	s.now = func() time.Time { return scanTime }
	return s
}

func TestScanOnceBuyThenSuppressedRepeat(t *testing.T) {
	candles := risingCandles(60)
	ts := candles[len(candles)-1].Timestamp
	strategies := []strategy.Strategy{
		&fixedStrategy{name: "alpha", sig: greenSignal(ts)},
		&fixedStrategy{name: "beta", sig: greenSignal(ts.Add(-time.Hour))},
	}

	cfg := testConfig(writeUniverse(t, "SAN.MC"))
	bars := &fakeBars{bars: map[string][]models.Candle{"SAN.MC": candles}}
	positions := newMemPositions()
	outcomes := &memOutcomes{}
	notify := &captureNotifier{}

	s := newTestScanner(t, cfg, bars, strategies, positions, outcomes, notify)

	if err := s.ScanOnce(context.Background()); err != nil {
		t.Fatalf("ScanOnce() error: %v", err)
	}

	if len(notify.sent) != 1 {
		t.Fatalf("got %d alerts, want 1:\n%v", len(notify.sent), notify.sent)
	}
	if !strings.Contains(notify.sent[0], "Do not close before") {
		t.Errorf("alert missing the hold window:\n%s", notify.sent[0])
	}
	rec := positions.records["SAN.MC"]
	if rec.State != models.ActionBuy {
		t.Errorf("stored state = %s, want BUY", rec.State)
	}
	if rec.LastNotifiedState != models.ActionBuy {
		t.Errorf("last notified = %s, want BUY", rec.LastNotifiedState)
	}
	if !rec.LastActionAt.Equal(ts) {
		t.Errorf("last action at = %v, want consensus time %v", rec.LastActionAt, ts)
	}
	// Two strategies, both fired and were logged.
	if len(outcomes.rows) != 2 {
		t.Fatalf("got %d outcome rows, want 2", len(outcomes.rows))
	}
	wantPnL := (104.0 - 100.0) / 100.0
	if outcomes.rows[0].PnLFraction != wantPnL || !outcomes.rows[0].Succeeded {
		t.Errorf("outcome row = %+v, want succeeded with pnl %.4f", outcomes.rows[0], wantPnL)
	}

	// Same conditions next cycle: the state repeats, nothing is announced.
	if err := s.ScanOnce(context.Background()); err != nil {
		t.Fatalf("second ScanOnce() error: %v", err)
	}
	if len(notify.sent) != 1 {
		t.Errorf("repeated state was re-announced: %d alerts", len(notify.sent))
	}
	if positions.saves != 1 {
		t.Errorf("record rewritten on a repeat: %d saves", positions.saves)
	}
}

func TestScanOnceFailedTickerDoesNotStopTheRest(t *testing.T) {
	candles := risingCandles(60)
	ts := candles[len(candles)-1].Timestamp
	strategies := []strategy.Strategy{
		&fixedStrategy{name: "alpha", sig: greenSignal(ts)},
		&fixedStrategy{name: "beta", sig: greenSignal(ts)},
	}

	cfg := testConfig(writeUniverse(t, "BAD.MC", "SAN.MC"))
	bars := &fakeBars{
		bars: map[string][]models.Candle{"SAN.MC": candles},
		errs: map[string]error{"BAD.MC": errors.New("connection reset")},
	}
	positions := newMemPositions()
	notify := &captureNotifier{}

	s := newTestScanner(t, cfg, bars, strategies, positions, &memOutcomes{}, notify)

	if err := s.ScanOnce(context.Background()); err != nil {
		t.Fatalf("ScanOnce() error: %v", err)
	}
	if len(notify.sent) != 1 {
		t.Errorf("healthy ticker should still alert, got %d", len(notify.sent))
	}
	if _, ok := positions.records["BAD.MC"]; ok {
		t.Error("failed ticker must not leave a record")
	}
}

func TestScanOnceOutsideMarketHours(t *testing.T) {
	cfg := testConfig(writeUniverse(t, "SAN.MC"))
	bars := &fakeBars{}
	strategies := []strategy.Strategy{&fixedStrategy{name: "alpha"}}
	s := newTestScanner(t, cfg, bars, strategies, newMemPositions(), &memOutcomes{}, &captureNotifier{})
	s.now = func() time.Time {
		return time.Date(2024, 5, 4, 12, 0, 0, 0, time.UTC) // saturday
	}

	if err := s.ScanOnce(context.Background()); err != nil {
		t.Fatalf("ScanOnce() error: %v", err)
	}
	if bars.calls != 0 {
		t.Errorf("no bars should be fetched on a weekend, got %d calls", bars.calls)
	}
}

func TestScanOncePriceCapSkips(t *testing.T) {
	candles := risingCandles(60) // last close well above 100
	strategies := []strategy.Strategy{
		&fixedStrategy{name: "alpha", sig: greenSignal(candles[len(candles)-1].Timestamp)},
	}

	cfg := testConfig(writeUniverse(t, "SAN.MC"))
	cfg.PriceCap = 100
	outcomes := &memOutcomes{}
	notify := &captureNotifier{}
	bars := &fakeBars{bars: map[string][]models.Candle{"SAN.MC": candles}}

	s := newTestScanner(t, cfg, bars, strategies, newMemPositions(), outcomes, notify)

	if err := s.ScanOnce(context.Background()); err != nil {
		t.Fatalf("ScanOnce() error: %v", err)
	}
	if len(notify.sent) != 0 {
		t.Errorf("capped ticker must not alert, got %v", notify.sent)
	}
	if len(outcomes.rows) != 0 {
		t.Errorf("capped ticker must not run strategies, got %d rows", len(outcomes.rows))
	}
}

func TestScanOnceBrokenStrategyIsContained(t *testing.T) {
	candles := risingCandles(60)
	ts := candles[len(candles)-1].Timestamp
	strategies := []strategy.Strategy{
		&fixedStrategy{name: "broken", err: errors.New("divide by zero")},
		&fixedStrategy{name: "alpha", sig: greenSignal(ts)},
		&fixedStrategy{name: "beta", sig: greenSignal(ts)},
	}

	cfg := testConfig(writeUniverse(t, "SAN.MC"))
	notify := &captureNotifier{}
	bars := &fakeBars{bars: map[string][]models.Candle{"SAN.MC": candles}}

	s := newTestScanner(t, cfg, bars, strategies, newMemPositions(), &memOutcomes{}, notify)

	if err := s.ScanOnce(context.Background()); err != nil {
		t.Fatalf("ScanOnce() error: %v", err)
	}
	if len(notify.sent) != 1 {
		t.Errorf("remaining strategies should still drive an alert, got %d", len(notify.sent))
	}
}

func TestScanOnceAdaptiveModeRunsOneStrategy(t *testing.T) {
	candles := risingCandles(60)
	ts := candles[len(candles)-1].Timestamp
	strategies := []strategy.Strategy{
		&fixedStrategy{name: "alpha", sig: greenSignal(ts)},
		&fixedStrategy{name: "beta", sig: greenSignal(ts)},
	}

	cfg := testConfig(writeUniverse(t, "SAN.MC"))
	cfg.AdaptiveMode = true
	outcomes := &memOutcomes{}

	s := newTestScanner(t, cfg, &fakeBars{bars: map[string][]models.Candle{"SAN.MC": candles}}, strategies, newMemPositions(), outcomes, &captureNotifier{})

	if err := s.ScanOnce(context.Background()); err != nil {
		t.Fatalf("ScanOnce() error: %v", err)
	}
	if len(outcomes.rows) != 1 {
		t.Fatalf("adaptive mode must run exactly one strategy, got %d rows", len(outcomes.rows))
	}
	// No history yet, so the round-robin starts at the first registrant.
	if outcomes.rows[0].StrategyID != "alpha" {
		t.Errorf("picked %s, want alpha", outcomes.rows[0].StrategyID)
	}
}

func TestScanOnceCancelledContext(t *testing.T) {
	cfg := testConfig(writeUniverse(t, "SAN.MC"))
	bars := &fakeBars{}
	strategies := []strategy.Strategy{&fixedStrategy{name: "alpha"}}

	s := newTestScanner(t, cfg, bars, strategies, newMemPositions(), &memOutcomes{}, &captureNotifier{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.ScanOnce(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("ScanOnce() error = %v, want context.Canceled", err)
	}
}

func TestWithinMarketHours(t *testing.T) {
	tests := []struct {
		name  string
		now   time.Time
		open  string
		close string
		want  bool
	}{
		{"weekday inside window", time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), "09:00", "17:30", true},
		{"weekday before open", time.Date(2024, 5, 1, 8, 59, 0, 0, time.UTC), "09:00", "17:30", false},
		{"weekday after close", time.Date(2024, 5, 1, 17, 31, 0, 0, time.UTC), "09:00", "17:30", false},
		{"saturday", time.Date(2024, 5, 4, 12, 0, 0, 0, time.UTC), "09:00", "17:30", false},
		{"sunday", time.Date(2024, 5, 5, 12, 0, 0, 0, time.UTC), "09:00", "17:30", false},
		{"at the open", time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC), "09:00", "17:30", true},
		{"at the close", time.Date(2024, 5, 1, 17, 30, 0, 0, time.UTC), "09:00", "17:30", true},
		{"unparseable window is permissive", time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC), "whenever", "17:30", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := withinMarketHours(tt.now, tt.open, tt.close); got != tt.want {
				t.Errorf("withinMarketHours(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}
