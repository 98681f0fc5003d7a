package player

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresPersister is the production Persister. Session snapshots live as
// one JSONB row per user in player_sessions; history records are
// additionally broken out into player_history rows so the high-frequency
// progress ticks upsert a single row with last-write-wins ordering on
// client_ts_ms instead of rewriting the whole snapshot.
//
// Schema:
//
//	CREATE TABLE player_sessions (
//	  user_id    TEXT PRIMARY KEY,
//	  session    JSONB NOT NULL,
//	  updated_at TIMESTAMPTZ NOT NULL
//	);
//
//	CREATE TABLE player_history (
//	  user_id          TEXT NOT NULL,
//	  identifier       TEXT NOT NULL,
//	  was_played_fully BOOLEAN NOT NULL DEFAULT FALSE,
//	  progress         DOUBLE PRECISION,
//	  episode_length   DOUBLE PRECISION,
//	  client_ts_ms     BIGINT NOT NULL DEFAULT 0,
//	  updated_at       TIMESTAMPTZ NOT NULL,
//	  PRIMARY KEY (user_id, identifier)
//	);
type PostgresPersister struct {
	db *pgxpool.Pool
}

func NewPostgresPersister(db *pgxpool.Pool) *PostgresPersister {
	return &PostgresPersister{db: db}
}

// sessionDoc is the JSONB shape of one saved session. History is stored in
// player_history rows; the snapshot keeps only the lightweight fields.
type sessionDoc struct {
	CurrentlyPlaying *EpisodeRef `json:"currentlyPlaying,omitempty"`
	CurrentAudioTime float64     `json:"currentAudioTime"`
}

func (p *PostgresPersister) Load(ctx context.Context, userID string) (PersistedState, error) {
	var raw []byte
	err := p.db.QueryRow(ctx,
		`SELECT session FROM player_sessions WHERE user_id = $1`, userID,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return PersistedState{}, ErrNoSession
	}
	if err != nil {
		return PersistedState{}, fmt.Errorf("load player session: %w", err)
	}

	var doc sessionDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return PersistedState{}, fmt.Errorf("decode player session: %w", err)
	}

	history, err := p.loadHistory(ctx, userID)
	if err != nil {
		return PersistedState{}, err
	}
	return PersistedState{
		CurrentlyPlaying: doc.CurrentlyPlaying,
		CurrentAudioTime: doc.CurrentAudioTime,
		History:          history,
	}, nil
}

func (p *PostgresPersister) loadHistory(ctx context.Context, userID string) ([]HistoryRecord, error) {
	rows, err := p.db.Query(ctx,
		`SELECT identifier, was_played_fully, progress, episode_length
		 FROM player_history WHERE user_id = $1 ORDER BY updated_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("load player history: %w", err)
	}
	defer rows.Close()

	var out []HistoryRecord
	for rows.Next() {
		var rec HistoryRecord
		if err := rows.Scan(&rec.Identifier, &rec.WasPlayedFully, &rec.Progress, &rec.EpisodeLength); err != nil {
			return nil, fmt.Errorf("scan player history: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (p *PostgresPersister) SaveSession(ctx context.Context, userID string, ps PersistedState) error {
	doc, err := json.Marshal(sessionDoc{
		CurrentlyPlaying: ps.CurrentlyPlaying,
		CurrentAudioTime: ps.CurrentAudioTime,
	})
	if err != nil {
		return fmt.Errorf("encode player session: %w", err)
	}

	now := time.Now().UTC()
	batch := &pgx.Batch{}
	batch.Queue(`
INSERT INTO player_sessions (user_id, session, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (user_id)
DO UPDATE SET session = EXCLUDED.session, updated_at = EXCLUDED.updated_at`,
		userID, doc, now)
	for _, rec := range ps.History {
		batch.Queue(`
INSERT INTO player_history (user_id, identifier, was_played_fully, progress, episode_length, client_ts_ms, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (user_id, identifier)
DO UPDATE SET
  was_played_fully = EXCLUDED.was_played_fully,
  progress         = EXCLUDED.progress,
  episode_length   = EXCLUDED.episode_length,
  client_ts_ms     = EXCLUDED.client_ts_ms,
  updated_at       = EXCLUDED.updated_at`,
			userID, rec.Identifier, rec.WasPlayedFully, rec.Progress, rec.EpisodeLength,
			now.UnixMilli(), now)
	}

	if err := p.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("save player session: %w", err)
	}
	return nil
}

func (p *PostgresPersister) UpsertProgress(ctx context.Context, userID, identifier string, progress float64, clientTS int64) error {
	q := `
INSERT INTO player_history (user_id, identifier, progress, client_ts_ms, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (user_id, identifier)
DO UPDATE SET
  progress     = EXCLUDED.progress,
  client_ts_ms = EXCLUDED.client_ts_ms,
  updated_at   = EXCLUDED.updated_at
WHERE player_history.was_played_fully = FALSE
  AND player_history.client_ts_ms <= EXCLUDED.client_ts_ms`

	if _, err := p.db.Exec(ctx, q, userID, identifier, progress, clientTS, time.Now().UTC()); err != nil {
		return fmt.Errorf("upsert player progress: %w", err)
	}
	return nil
}

func (p *PostgresPersister) UpsertHistory(ctx context.Context, userID string, rec HistoryRecord, clientTS int64) error {
	q := `
INSERT INTO player_history (user_id, identifier, was_played_fully, progress, episode_length, client_ts_ms, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (user_id, identifier)
DO UPDATE SET
  was_played_fully = EXCLUDED.was_played_fully,
  progress         = EXCLUDED.progress,
  episode_length   = EXCLUDED.episode_length,
  client_ts_ms     = EXCLUDED.client_ts_ms,
  updated_at       = EXCLUDED.updated_at`

	if _, err := p.db.Exec(ctx, q,
		userID, rec.Identifier, rec.WasPlayedFully, rec.Progress, rec.EpisodeLength,
		clientTS, time.Now().UTC()); err != nil {
		return fmt.Errorf("upsert player history: %w", err)
	}
	return nil
}

func (p *PostgresPersister) ClearHistory(ctx context.Context, userID string) error {
	if _, err := p.db.Exec(ctx,
		`DELETE FROM player_history WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear player history: %w", err)
	}
	return nil
}
