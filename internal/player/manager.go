package player

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Manager owns one hydrated Session per active user. Sessions are loaded
// lazily from the Persister on first touch and kept in memory; structural
// changes (start, toggle, ended, close, reset) save write-through, while
// progress ticks only upsert their single history row so a burst of ticks
// never rewrites the whole snapshot.
type Manager struct {
	persister Persister
	ticks     TickSink
	log       *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(persister Persister, log *zap.Logger) *Manager {
	return &Manager{
		persister: persister,
		log:       log,
		sessions:  make(map[string]*Session),
	}
}

// WithTickSink routes tick persistence through sink instead of writing
// directly to the persister. Used when NATS is configured.
func (m *Manager) WithTickSink(sink TickSink) *Manager {
	m.ticks = sink
	return m
}

// Session returns the hydrated session for userID, loading saved state on
// first access. A user with no saved state gets a fresh empty session.
func (m *Manager) Session(ctx context.Context, userID string) (*Session, error) {
	m.mu.Lock()
	if sess, ok := m.sessions[userID]; ok {
		m.mu.Unlock()
		return sess, nil
	}
	m.mu.Unlock()

	ps, err := m.persister.Load(ctx, userID)
	var store *Store
	switch {
	case err == nil:
		store = NewStoreFrom(ps)
	case errors.Is(err, ErrNoSession):
		store = NewStore()
	default:
		return nil, fmt.Errorf("hydrate player session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// another request may have hydrated concurrently; keep the first
	if sess, ok := m.sessions[userID]; ok {
		return sess, nil
	}
	sess := NewSession(store)
	m.sessions[userID] = sess
	return sess, nil
}

// Start selects ref for playback and saves the new snapshot. Returns the
// resume position and the resulting state.
func (m *Manager) Start(ctx context.Context, userID string, ref EpisodeRef) (float64, State, error) {
	sess, err := m.Session(ctx, userID)
	if err != nil {
		return 0, State{}, err
	}
	resume := sess.Start(ref)
	if err := m.persister.SaveSession(ctx, userID, sess.Store().Snapshot()); err != nil {
		return 0, State{}, err
	}
	return resume, sess.Store().State(), nil
}

// Apply advances the session for one media-element event and persists the
// outcome. Ticks take the cheap path: position and progress go to a single
// history-row upsert keyed by the client timestamp, everything else saves
// the full snapshot.
func (m *Manager) Apply(ctx context.Context, userID string, e Event) (State, Phase, error) {
	sess, err := m.Session(ctx, userID)
	if err != nil {
		return State{}, "", err
	}
	if err := sess.Apply(e); err != nil {
		return State{}, sess.Phase(), err
	}

	if e.Type == EventTick {
		st := sess.Store().State()
		ready := sess.Phase() == PhasePlaying || sess.Phase() == PhasePaused
		if ready && st.CurrentlyPlaying != nil {
			if err := m.writeTick(ctx, Tick{
				UserID:     userID,
				Identifier: st.CurrentlyPlaying.Identifier,
				Position:   e.Position,
				ClientTsMs: e.ClientTS,
			}); err != nil {
				// ticks are fire-and-forget; the next one carries fresher data
				m.log.Warn("player: progress write failed",
					zap.String("user_id", userID), zap.Error(err))
			}
		}
		return st, sess.Phase(), nil
	}

	if err := m.persister.SaveSession(ctx, userID, sess.Store().Snapshot()); err != nil {
		return State{}, sess.Phase(), err
	}
	return sess.Store().State(), sess.Phase(), nil
}

// Close dismisses the player surface and saves the snapshot.
func (m *Manager) Close(ctx context.Context, userID string) (State, error) {
	st, _, err := m.Apply(ctx, userID, Event{Type: EventClosed})
	return st, err
}

// ResetHistory clears the user's entire play history, in memory and in
// storage.
func (m *Manager) ResetHistory(ctx context.Context, userID string) (State, error) {
	sess, err := m.Session(ctx, userID)
	if err != nil {
		return State{}, err
	}
	sess.Store().ResetHistory()
	if err := m.persister.ClearHistory(ctx, userID); err != nil {
		return State{}, err
	}
	if err := m.persister.SaveSession(ctx, userID, sess.Store().Snapshot()); err != nil {
		return State{}, err
	}
	return sess.Store().State(), nil
}

func (m *Manager) writeTick(ctx context.Context, t Tick) error {
	if m.ticks != nil {
		return m.ticks.WriteTick(ctx, t)
	}
	return m.persister.UpsertProgress(ctx, t.UserID, t.Identifier, t.Position, t.ClientTsMs)
}

// State returns the current state and phase for userID.
func (m *Manager) State(ctx context.Context, userID string) (State, Phase, error) {
	sess, err := m.Session(ctx, userID)
	if err != nil {
		return State{}, "", err
	}
	return sess.Store().State(), sess.Phase(), nil
}
