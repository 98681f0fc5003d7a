package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	mu       sync.Mutex
	users    map[string]UserRow
	sessions map[uuid.UUID]RefreshSession
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]UserRow),
		sessions: make(map[uuid.UUID]RefreshSession),
	}
}

func (m *MemoryStore) CreateUser(ctx context.Context, p CreateUserParams) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, row := range m.users {
		if strings.EqualFold(row.User.Email, p.Email) || strings.EqualFold(row.User.Username, p.Username) {
			return User{}, ErrConflict
		}
	}
	u := User{
		ID:        uuid.NewString(),
		Email:     p.Email,
		Username:  p.Username,
		CreatedAt: time.Now().UTC(),
	}
	m.users[u.ID] = UserRow{User: u, PasswordHash: p.PasswordHash}
	return u, nil
}

func (m *MemoryStore) FindUserByLogin(ctx context.Context, login string) (UserRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, row := range m.users {
		if strings.EqualFold(row.User.Email, login) || strings.EqualFold(row.User.Username, login) {
			return row, nil
		}
	}
	return UserRow{}, ErrNotFound
}

func (m *MemoryStore) GetUserByID(ctx context.Context, id string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return row.User, nil
}

func (m *MemoryStore) CreateRefreshSession(ctx context.Context, p CreateRefreshSessionParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[p.SessionID]; ok {
		return ErrConflict
	}
	m.sessions[p.SessionID] = RefreshSession{
		ID:        p.SessionID,
		UserID:    p.UserID,
		TokenHash: p.TokenHash,
		ExpiresAt: p.ExpiresAt,
	}
	return nil
}

func (m *MemoryStore) GetRefreshSessionByHash(ctx context.Context, tokenHash string) (RefreshSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, rs := range m.sessions {
		if rs.TokenHash == tokenHash {
			return rs, nil
		}
	}
	return RefreshSession{}, ErrNotFound
}

func (m *MemoryStore) RevokeRefreshSession(ctx context.Context, sessionID uuid.UUID, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rs, ok := m.sessions[sessionID]
	if !ok || rs.RevokedAt != nil {
		return nil
	}
	rs.RevokedAt = &now
	m.sessions[sessionID] = rs
	return nil
}

func (m *MemoryStore) ReplaceRefreshSession(ctx context.Context, oldID, newID uuid.UUID, now time.Time) error {
	return m.RevokeRefreshSession(ctx, oldID, now)
}
