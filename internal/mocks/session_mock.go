package mocks

import (
	"context"
	"sync"

	"github.com/egov-portal/portal-service/internal/core/domain"
	"github.com/egov-portal/portal-service/internal/core/ports"
)

// MockSessionStore implements ports.SessionStore in memory.
type MockSessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session

	DestroyCalls     []string
	DestroyUserCalls []int64

	GetError         error
	SetError         error
	DestroyUserError error
}

var _ ports.SessionStore = (*MockSessionStore)(nil)

func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{sessions: make(map[string]domain.Session)}
}

func (m *MockSessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.GetError != nil {
		return nil, m.GetError
	}
	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrSessionExpired
	}
	return &s, nil
}

func (m *MockSessionStore) Set(ctx context.Context, s domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SetError != nil {
		return m.SetError
	}
	m.sessions[s.ID] = s
	return nil
}

func (m *MockSessionStore) Destroy(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DestroyCalls = append(m.DestroyCalls, id)
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionStore) DestroyUser(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DestroyUserCalls = append(m.DestroyUserCalls, userID)
	if m.DestroyUserError != nil {
		return m.DestroyUserError
	}
	for id, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, id)
		}
	}
	return nil
}

// Len returns the number of live sessions.
func (m *MockSessionStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// PlainHasher is a PasswordHasher that stores passwords with a fixed prefix,
// keeping service tests fast.
type PlainHasher struct {
	HashError error
}

var _ ports.PasswordHasher = PlainHasher{}

func (h PlainHasher) Hash(password string) (string, error) {
	if h.HashError != nil {
		return "", h.HashError
	}
	return "hashed:" + password, nil
}

func (h PlainHasher) Verify(hash, password string) bool {
	return hash == "hashed:"+password
}
