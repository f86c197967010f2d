// Package mocks provides in-memory implementations of the core ports with
// call tracking and error injection for service and handler tests.
package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/egov-portal/portal-service/internal/core/domain"
	"github.com/egov-portal/portal-service/internal/core/ports"
)

// MockUserRepository implements ports.UserRepository in memory.
type MockUserRepository struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]*domain.User

	// Department and service names used for officer profiles.
	DepartmentNames map[int64]string
	ServiceNames    map[int64]string

	// Call tracking
	CreateCalls []domain.User
	UpdateCalls []domain.User
	DeleteCalls []int64

	// Error injection
	FindError   error
	CreateError error
	UpdateError error
	DeleteError error
}

var _ ports.UserRepository = (*MockUserRepository)(nil)

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:           make(map[int64]*domain.User),
		DepartmentNames: make(map[int64]string),
		ServiceNames:    make(map[int64]string),
	}
}

// SeedUser stores u, assigning an id when it has none, and returns the id.
func (m *MockUserRepository) SeedUser(u domain.User) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.put(u)
}

func (m *MockUserRepository) put(u domain.User) int64 {
	if u.ID == 0 {
		m.nextID++
		u.ID = m.nextID
	} else if u.ID > m.nextID {
		m.nextID = u.ID
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	m.users[u.ID] = &u
	return u.ID
}

// Count returns the number of stored users.
func (m *MockUserRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FindError != nil {
		return nil, m.FindError
	}
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.NotFoundf("user")
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FindError != nil {
		return nil, m.FindError
	}
	u, ok := m.users[id]
	if !ok {
		return nil, domain.NotFoundf("user")
	}
	cp := *u
	return &cp, nil
}

func (m *MockUserRepository) FindOfficerProfile(ctx context.Context, id int64) (*domain.OfficerProfile, error) {
	u, err := m.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	profile := &domain.OfficerProfile{User: *u}
	if u.DepartmentID != nil {
		profile.DepartmentName = m.DepartmentNames[*u.DepartmentID]
	}
	if u.ServiceID != nil {
		profile.ServiceName = m.ServiceNames[*u.ServiceID]
	}
	return profile, nil
}

func (m *MockUserRepository) List(ctx context.Context) ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FindError != nil {
		return nil, m.FindError
	}
	users := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m *MockUserRepository) Create(ctx context.Context, u domain.User) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateCalls = append(m.CreateCalls, u)
	if m.CreateError != nil {
		return 0, m.CreateError
	}
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return 0, domain.ErrDuplicateEmail
		}
	}
	u.ID = 0
	return m.put(u), nil
}

func (m *MockUserRepository) Update(ctx context.Context, u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateCalls = append(m.UpdateCalls, u)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	existing, ok := m.users[u.ID]
	if !ok {
		return domain.NotFoundf("user")
	}
	for _, other := range m.users {
		if other.ID != u.ID && other.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	if u.Password == "" {
		u.Password = existing.Password
	}
	u.ProfilePicture = existing.ProfilePicture
	u.CreatedAt = existing.CreatedAt
	m.users[u.ID] = &u
	return nil
}

func (m *MockUserRepository) UpdateProfilePicture(ctx context.Context, id int64, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UpdateError != nil {
		return m.UpdateError
	}
	u, ok := m.users[id]
	if !ok {
		return domain.NotFoundf("user")
	}
	u.ProfilePicture = path
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeleteCalls = append(m.DeleteCalls, id)
	if m.DeleteError != nil {
		return m.DeleteError
	}
	if _, ok := m.users[id]; !ok {
		return domain.NotFoundf("user")
	}
	delete(m.users, id)
	return nil
}
