package player

import (
	"context"
	"sync"
)

// MemoryPersister is an in-memory Persister for tests and deployments
// without Postgres.
type MemoryPersister struct {
	mu       sync.Mutex
	sessions map[string]PersistedState
	// last accepted client timestamp per (userID, identifier)
	tsByKey map[string]int64
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{
		sessions: make(map[string]PersistedState),
		tsByKey:  make(map[string]int64),
	}
}

func (m *MemoryPersister) Load(ctx context.Context, userID string) (PersistedState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ps, ok := m.sessions[userID]
	if !ok {
		return PersistedState{}, ErrNoSession
	}
	if ps.CurrentlyPlaying != nil {
		ref := *ps.CurrentlyPlaying
		ps.CurrentlyPlaying = &ref
	}
	ps.History = cloneHistory(ps.History)
	return ps, nil
}

func (m *MemoryPersister) SaveSession(ctx context.Context, userID string, ps PersistedState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ps.CurrentlyPlaying != nil {
		ref := *ps.CurrentlyPlaying
		ps.CurrentlyPlaying = &ref
	}
	ps.History = cloneHistory(ps.History)
	m.sessions[userID] = ps
	return nil
}

func (m *MemoryPersister) UpsertProgress(ctx context.Context, userID, identifier string, progress float64, clientTS int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := userID + "\x00" + identifier
	if clientTS < m.tsByKey[key] {
		return nil
	}
	ps := m.sessions[userID]
	rec := findHistory(ps.History, identifier)
	if rec == nil {
		ps.History = append(ps.History, HistoryRecord{Identifier: identifier})
		rec = &ps.History[len(ps.History)-1]
	}
	if !rec.WasPlayedFully {
		p := progress
		rec.Progress = &p
		m.tsByKey[key] = clientTS
	}
	m.sessions[userID] = ps
	return nil
}

func (m *MemoryPersister) UpsertHistory(ctx context.Context, userID string, in HistoryRecord, clientTS int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ps := m.sessions[userID]
	rec := findHistory(ps.History, in.Identifier)
	if rec == nil {
		ps.History = append(ps.History, in.clone())
	} else {
		*rec = in.clone()
	}
	m.tsByKey[userID+"\x00"+in.Identifier] = clientTS
	m.sessions[userID] = ps
	return nil
}

func (m *MemoryPersister) ClearHistory(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ps := m.sessions[userID]
	ps.History = nil
	m.sessions[userID] = ps
	return nil
}

func findHistory(history []HistoryRecord, identifier string) *HistoryRecord {
	for i := range history {
		if history[i].Identifier == identifier {
			return &history[i]
		}
	}
	return nil
}
