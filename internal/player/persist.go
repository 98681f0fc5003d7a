package player

import (
	"context"
	"errors"
)

// ErrNoSession is returned by Load when the user has no saved player state.
var ErrNoSession = errors.New("player: no saved session")

// Persister stores per-user player state. The JSONB session snapshot and the
// per-episode history rows are written independently: the session is small
// and saved write-through, history rows take the high-frequency progress
// ticks and are upserted with last-write-wins ordering on the client
// timestamp.
type Persister interface {
	// Load returns the saved snapshot for user, or ErrNoSession.
	Load(ctx context.Context, userID string) (PersistedState, error)

	// SaveSession writes the full durable snapshot for user.
	SaveSession(ctx context.Context, userID string, ps PersistedState) error

	// UpsertProgress records a progress tick for one history record. Writes
	// carrying a client timestamp older than the stored one, or targeting a
	// record already marked fully played, are silently dropped.
	UpsertProgress(ctx context.Context, userID, identifier string, progress float64, clientTS int64) error

	// UpsertHistory writes one history record as-is (completion marks,
	// episode length).
	UpsertHistory(ctx context.Context, userID string, rec HistoryRecord, clientTS int64) error

	// ClearHistory removes every history record for user.
	ClearHistory(ctx context.Context, userID string) error
}
