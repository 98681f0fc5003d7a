package favourites

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	mu   sync.Mutex
	rows map[string][]Favourite
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[string][]Favourite)}
}

func (m *MemoryStore) List(ctx context.Context, userID string) ([]Favourite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Favourite, len(m.rows[userID]))
	copy(out, m.rows[userID])
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ShowID != out[j].ShowID {
			return out[i].ShowID < out[j].ShowID
		}
		return out[i].SeasonID < out[j].SeasonID
	})
	return out, nil
}

func (m *MemoryStore) Add(ctx context.Context, f Favourite) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, cur := range m.rows[f.UserID] {
		if cur.ShowID == f.ShowID && cur.SeasonID == f.SeasonID && cur.EpisodeID == f.EpisodeID {
			return ErrConflict
		}
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	m.rows[f.UserID] = append(m.rows[f.UserID], f)
	return nil
}

func (m *MemoryStore) Remove(ctx context.Context, userID string, key Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows := m.rows[userID]
	for i, cur := range rows {
		if cur.ShowID == key.ShowID && cur.SeasonID == key.SeasonID && cur.EpisodeID == key.EpisodeID {
			m.rows[userID] = append(rows[:i], rows[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
