// Package config loads all application configuration from the
// environment, with an optional .env file for local runs.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration
type Config struct {
	// Universe
	UniverseFile string
	PriceCap     float64

	// Data
	Interval       string
	LookbackDays   int
	RequestTimeout int // seconds

	// Budget and risk
	Budget          float64
	MaxRiskFraction float64

	// Engine context indicators
	EMAFast int
	EMASlow int
	RSILen  int

	// Holding window attached to transitions, display only
	MinHoldHours int
	MaxHoldDays  int

	// Run modes
	AdaptiveMode bool
	StrictMode   bool
	DryRun       bool

	// Market hours
	Timezone    string
	MarketOpen  string
	MarketClose string

	// Telegram
	TelegramToken  string
	TelegramChatID int64

	// State store: DATABASE_URL selects PostgreSQL, otherwise a local
	// SQLite file at StateDBPath is used.
	DatabaseURL string
	StateDBPath string

	LogLevel string
}

// Load initializes configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	cfg := &Config{
		UniverseFile:    getEnvWithDefault("UNIVERSE_FILE", "tickers_ibex.txt"),
		PriceCap:        getEnvFloatWithDefault("PRICE_CAP", 100),
		Interval:        getEnvWithDefault("INTERVAL", "1d"),
		LookbackDays:    getEnvIntWithDefault("LOOKBACK_DAYS", 180),
		RequestTimeout:  getEnvIntWithDefault("REQUEST_TIMEOUT", 30),
		Budget:          getEnvFloatWithDefault("BUDGET", 10000),
		MaxRiskFraction: getEnvFloatWithDefault("MAX_RISK_FRACTION", 0.01),
		EMAFast:         getEnvIntWithDefault("EMA_FAST", 10),
		EMASlow:         getEnvIntWithDefault("EMA_SLOW", 30),
		RSILen:          getEnvIntWithDefault("RSI_LEN", 14),
		MinHoldHours:    getEnvIntWithDefault("MIN_HOLD_HOURS", 2),
		MaxHoldDays:     getEnvIntWithDefault("MAX_HOLD_DAYS", 2),
		AdaptiveMode:    getEnvBoolWithDefault("ADAPTIVE_MODE", false),
		StrictMode:      getEnvBoolWithDefault("STRICT_MODE", false),
		DryRun:          getEnvBoolWithDefault("DRY_RUN", true),
		Timezone:        getEnvWithDefault("TIMEZONE", "Europe/Madrid"),
		MarketOpen:      getEnvWithDefault("MARKET_OPEN", "00:00"),
		MarketClose:     getEnvWithDefault("MARKET_CLOSE", "23:59"),
		TelegramToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		StateDBPath:     getEnvWithDefault("STATE_DB", "ibexbot.db"),
		LogLevel:        getEnvWithDefault("LOG_LEVEL", "info"),
	}

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID %q: %w", chatID, err)
		}
		cfg.TelegramChatID = id
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Budget <= 0 {
		return fmt.Errorf("BUDGET must be positive, got %.2f", c.Budget)
	}
	if c.MaxRiskFraction <= 0 || c.MaxRiskFraction > 1 {
		return fmt.Errorf("MAX_RISK_FRACTION must be in (0, 1], got %.4f", c.MaxRiskFraction)
	}
	if c.EMAFast <= 0 || c.EMASlow <= 0 || c.EMAFast >= c.EMASlow {
		return fmt.Errorf("EMA periods must satisfy 0 < EMA_FAST < EMA_SLOW, got %d/%d", c.EMAFast, c.EMASlow)
	}
	if c.RSILen <= 0 {
		return fmt.Errorf("RSI_LEN must be positive, got %d", c.RSILen)
	}
	return nil
}

// defaultUniverse is the IBEX-35 constituents, used when no universe
// file is present.
var defaultUniverse = []string{
	"ACS.MC", "ACX.MC", "AENA.MC", "AMS.MC", "ANA.MC", "ANE.MC", "BBVA.MC", "BKT.MC", "CABK.MC", "CLNX.MC",
	"COL.MC", "ELE.MC", "ENG.MC", "FDR.MC", "FER.MC", "GRF.MC", "IAG.MC", "IBE.MC", "IDR.MC", "ITX.MC",
	"LOG.MC", "MAP.MC", "MRL.MC", "MTS.MC", "NTGY.MC", "PUIG.MC", "RED.MC", "REP.MC", "ROVI.MC", "SAB.MC",
	"SAN.MC", "SCYR.MC", "SLR.MC", "TEF.MC", "UNI.MC",
}

// Universe returns the tickers to scan: the universe file if present
// (one ticker per line, # comments allowed), the built-in list otherwise.
func (c *Config) Universe() []string {
	data, err := os.ReadFile(c.UniverseFile)
	if err != nil {
		return defaultUniverse
	}

	var tickers []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tickers = append(tickers, line)
	}
	if len(tickers) == 0 {
		return defaultUniverse
	}
	return tickers
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
