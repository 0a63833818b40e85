// Package database persists the position table and the strategy outcome
// log behind a database/sql connection. The SQL sticks to the dialect
// subset shared by PostgreSQL and SQLite so either driver works.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ibexbot/models"
)

// DB represents a database connection
type DB struct {
	*sql.DB
}

// Options selects the driver and its data source. Driver is "sqlite"
// for a local file or "postgres" for a server.
type Options struct {
	Driver string
	DSN    string
}

// New opens the connection and creates the tables if they don't exist
func New(opts Options) (*DB, error) {
	db, err := sql.Open(opts.Driver, opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", opts.Driver, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging %s store: %w", opts.Driver, err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS positions (
			ticker TEXT PRIMARY KEY,
			state TEXT NOT NULL,
			reference_price DOUBLE PRECISION NOT NULL,
			last_action_at TIMESTAMP NOT NULL,
			last_notified_state TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("creating positions table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS strategy_stats (
			scan_id TEXT NOT NULL,
			logged_at TIMESTAMP NOT NULL,
			strategy TEXT NOT NULL,
			succeeded BOOLEAN NOT NULL,
			pnl_fraction DOUBLE PRECISION NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("creating strategy_stats table: %w", err)
	}
	return nil
}

// Position retrieves a ticker's record. Returns nil without error when
// the ticker has never been recorded.
func (db *DB) Position(ctx context.Context, ticker string) (*models.PositionRecord, error) {
	var rec models.PositionRecord
	var state, notified string

	err := db.QueryRowContext(ctx, `
		SELECT ticker, state, reference_price, last_action_at, last_notified_state
		FROM positions
		WHERE ticker = $1
	`, ticker).Scan(&rec.Ticker, &state, &rec.ReferencePrice, &rec.LastActionAt, &notified)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading position for %s: %w", ticker, err)
	}

	rec.State = models.ParseAction(state)
	rec.LastNotifiedState = models.ParseAction(notified)
	return &rec, nil
}

// SavePosition upserts a ticker's record
func (db *DB) SavePosition(ctx context.Context, rec models.PositionRecord) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO positions (
			ticker, state, reference_price, last_action_at, last_notified_state
		) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (ticker)
		DO UPDATE SET
			state = EXCLUDED.state,
			reference_price = EXCLUDED.reference_price,
			last_action_at = EXCLUDED.last_action_at,
			last_notified_state = EXCLUDED.last_notified_state
	`, rec.Ticker, string(rec.State), rec.ReferencePrice, rec.LastActionAt, string(rec.LastNotifiedState))

	if err != nil {
		return fmt.Errorf("saving position for %s: %w", rec.Ticker, err)
	}
	return nil
}

// AppendOutcome appends one row to the strategy outcome log
func (db *DB) AppendOutcome(ctx context.Context, o models.StrategyOutcome) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO strategy_stats (scan_id, logged_at, strategy, succeeded, pnl_fraction)
		VALUES ($1, $2, $3, $4, $5)
	`, o.ScanID, o.LoggedAt, o.StrategyID, o.Succeeded, o.PnLFraction)

	if err != nil {
		return fmt.Errorf("appending outcome for %s: %w", o.StrategyID, err)
	}
	return nil
}

// Outcomes returns the full outcome log in insertion order
func (db *DB) Outcomes(ctx context.Context) ([]models.StrategyOutcome, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT scan_id, logged_at, strategy, succeeded, pnl_fraction
		FROM strategy_stats
		ORDER BY logged_at
	`)
	if err != nil {
		return nil, fmt.Errorf("reading outcome log: %w", err)
	}
	defer rows.Close()

	var outcomes []models.StrategyOutcome
	for rows.Next() {
		var o models.StrategyOutcome
		if err := rows.Scan(&o.ScanID, &o.LoggedAt, &o.StrategyID, &o.Succeeded, &o.PnLFraction); err != nil {
			return nil, fmt.Errorf("scanning outcome row: %w", err)
		}
		outcomes = append(outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating outcome rows: %w", err)
	}
	return outcomes, nil
}
