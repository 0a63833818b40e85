package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// clearBotEnv blanks every variable Load reads so a developer's shell
// does not leak into the assertions.
func clearBotEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"UNIVERSE_FILE", "PRICE_CAP", "INTERVAL", "LOOKBACK_DAYS", "REQUEST_TIMEOUT",
		"BUDGET", "MAX_RISK_FRACTION", "EMA_FAST", "EMA_SLOW", "RSI_LEN",
		"MIN_HOLD_HOURS", "MAX_HOLD_DAYS", "ADAPTIVE_MODE", "STRICT_MODE", "DRY_RUN",
		"TIMEZONE", "MARKET_OPEN", "MARKET_CLOSE",
		"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "DATABASE_URL", "STATE_DB", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearBotEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Budget != 10000 {
		t.Errorf("Budget = %.2f, want 10000", cfg.Budget)
	}
	if cfg.MaxRiskFraction != 0.01 {
		t.Errorf("MaxRiskFraction = %.4f, want 0.01", cfg.MaxRiskFraction)
	}
	if cfg.EMAFast != 10 || cfg.EMASlow != 30 {
		t.Errorf("EMA periods = %d/%d, want 10/30", cfg.EMAFast, cfg.EMASlow)
	}
	if cfg.RSILen != 14 {
		t.Errorf("RSILen = %d, want 14", cfg.RSILen)
	}
	if cfg.PriceCap != 100 {
		t.Errorf("PriceCap = %.2f, want 100", cfg.PriceCap)
	}
	if cfg.Timezone != "Europe/Madrid" {
		t.Errorf("Timezone = %s, want Europe/Madrid", cfg.Timezone)
	}
	if !cfg.DryRun {
		t.Error("DryRun should default to true")
	}
	if cfg.AdaptiveMode || cfg.StrictMode {
		t.Error("mode flags should default to false")
	}
	if cfg.StateDBPath != "ibexbot.db" {
		t.Errorf("StateDBPath = %s, want ibexbot.db", cfg.StateDBPath)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearBotEnv(t)
	t.Setenv("BUDGET", "2500.50")
	t.Setenv("ADAPTIVE_MODE", "true")
	t.Setenv("STRICT_MODE", "1")
	t.Setenv("DRY_RUN", "false")
	t.Setenv("TELEGRAM_CHAT_ID", "-1001234567890")
	t.Setenv("LOOKBACK_DAYS", "90")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Budget != 2500.50 {
		t.Errorf("Budget = %.2f, want 2500.50", cfg.Budget)
	}
	if !cfg.AdaptiveMode || !cfg.StrictMode {
		t.Error("mode overrides not applied")
	}
	if cfg.DryRun {
		t.Error("DRY_RUN=false not applied")
	}
	if cfg.TelegramChatID != -1001234567890 {
		t.Errorf("TelegramChatID = %d", cfg.TelegramChatID)
	}
	if cfg.LookbackDays != 90 {
		t.Errorf("LookbackDays = %d, want 90", cfg.LookbackDays)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"zero budget", "BUDGET", "0", "BUDGET"},
		{"negative budget", "BUDGET", "-100", "BUDGET"},
		{"risk fraction above one", "MAX_RISK_FRACTION", "1.5", "MAX_RISK_FRACTION"},
		{"risk fraction zero", "MAX_RISK_FRACTION", "0", "MAX_RISK_FRACTION"},
		{"fast ema not below slow", "EMA_FAST", "30", "EMA"},
		{"zero rsi length", "RSI_LEN", "0", "RSI_LEN"},
		{"bad chat id", "TELEGRAM_CHAT_ID", "not-a-number", "TELEGRAM_CHAT_ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearBotEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %s", err, tt.wantErr)
			}
		})
	}
}

func TestUniverse(t *testing.T) {
	t.Run("reads file with comments and blanks", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tickers.txt")
		content := "# IBEX picks\nSAN.MC\n\nIBE.MC\n  TEF.MC  \n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		cfg := &Config{UniverseFile: path}
		got := cfg.Universe()
		want := []string{"SAN.MC", "IBE.MC", "TEF.MC"}
		if len(got) != len(want) {
			t.Fatalf("got %d tickers, want %d: %v", len(got), len(want), got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("tickers[%d] = %s, want %s", i, got[i], want[i])
			}
		}
	})

	t.Run("missing file falls back to the built-in list", func(t *testing.T) {
		cfg := &Config{UniverseFile: filepath.Join(t.TempDir(), "nope.txt")}
		got := cfg.Universe()
		if len(got) != 35 {
			t.Errorf("built-in universe has %d tickers, want 35", len(got))
		}
	})

	t.Run("comment-only file falls back", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tickers.txt")
		if err := os.WriteFile(path, []byte("# nothing here\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		cfg := &Config{UniverseFile: path}
		if got := cfg.Universe(); len(got) != 35 {
			t.Errorf("got %d tickers, want the 35 built-ins", len(got))
		}
	})
}
