package engine

import (
	"context"

	"ibexbot/models"
)

// PositionStore is the durable keyed table of per-instrument records.
// Position returns nil with no error when the ticker has never been
// seen.
type PositionStore interface {
	Position(ctx context.Context, ticker string) (*models.PositionRecord, error)
	SavePosition(ctx context.Context, rec models.PositionRecord) error
}

// LoadPosition reads the prior record for a ticker, failing open: a
// missing or unreadable record yields a fresh NONE record rather than an
// error, so one corrupt row never blocks the instrument. The storage
// error, if any, is returned alongside for logging.
func LoadPosition(ctx context.Context, store PositionStore, ticker string) (models.PositionRecord, error) {
	rec, err := store.Position(ctx, ticker)
	if err != nil || rec == nil {
		return models.NewPositionRecord(ticker), err
	}
	if !rec.State.Valid() {
		rec.State = models.ActionNone
	}
	return *rec, nil
}
