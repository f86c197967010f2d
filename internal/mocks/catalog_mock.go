package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/egov-portal/portal-service/internal/core/domain"
	"github.com/egov-portal/portal-service/internal/core/ports"
)

// MockCatalogRepository implements ports.CatalogRepository in memory.
type MockCatalogRepository struct {
	mu          sync.RWMutex
	nextID      int64
	services    map[int64]domain.Service
	departments map[int64]domain.Department

	// Error injection
	ListError   error
	WriteError  error
	DeleteError error
}

var _ ports.CatalogRepository = (*MockCatalogRepository)(nil)

func NewMockCatalogRepository() *MockCatalogRepository {
	return &MockCatalogRepository{
		services:    make(map[int64]domain.Service),
		departments: make(map[int64]domain.Department),
	}
}

func (m *MockCatalogRepository) id() int64 {
	m.nextID++
	return m.nextID
}

// SeedDepartment stores a department and returns its id.
func (m *MockCatalogRepository) SeedDepartment(name string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.id()
	m.departments[id] = domain.Department{ID: id, Name: name}
	return id
}

// SeedService stores a service under departmentID and returns its id.
func (m *MockCatalogRepository) SeedService(name string, departmentID int64, fee *float64) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.id()
	m.services[id] = domain.Service{ID: id, Name: name, DepartmentID: departmentID, Fee: fee}
	return id
}

func (m *MockCatalogRepository) withDepartment(s domain.Service) domain.Service {
	s.DepartmentName = m.departments[s.DepartmentID].Name
	return s
}

func (m *MockCatalogRepository) ListServices(ctx context.Context) ([]domain.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.ListError != nil {
		return nil, m.ListError
	}
	out := make([]domain.Service, 0, len(m.services))
	for _, s := range m.services {
		out = append(out, m.withDepartment(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockCatalogRepository) ListServicesByDepartment(ctx context.Context, departmentID int64) ([]domain.ServiceOption, error) {
	services, err := m.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	out := []domain.ServiceOption{}
	for _, s := range services {
		if s.DepartmentID == departmentID {
			out = append(out, domain.ServiceOption{ID: s.ID, Name: s.Name})
		}
	}
	return out, nil
}

func (m *MockCatalogRepository) FindService(ctx context.Context, id int64) (*domain.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.services[id]
	if !ok {
		return nil, domain.NotFoundf("service")
	}
	s = m.withDepartment(s)
	return &s, nil
}

func (m *MockCatalogRepository) CreateService(ctx context.Context, svc domain.Service) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteError != nil {
		return 0, m.WriteError
	}
	svc.ID = m.id()
	m.services[svc.ID] = svc
	return svc.ID, nil
}

func (m *MockCatalogRepository) UpdateService(ctx context.Context, svc domain.Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteError != nil {
		return m.WriteError
	}
	if _, ok := m.services[svc.ID]; !ok {
		return domain.NotFoundf("service")
	}
	m.services[svc.ID] = svc
	return nil
}

func (m *MockCatalogRepository) DeleteService(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.DeleteError != nil {
		return m.DeleteError
	}
	if _, ok := m.services[id]; !ok {
		return domain.NotFoundf("service")
	}
	delete(m.services, id)
	return nil
}

func (m *MockCatalogRepository) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.ListError != nil {
		return nil, m.ListError
	}
	out := make([]domain.Department, 0, len(m.departments))
	for _, d := range m.departments {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockCatalogRepository) FindDepartment(ctx context.Context, id int64) (*domain.Department, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.departments[id]
	if !ok {
		return nil, domain.NotFoundf("department")
	}
	return &d, nil
}

func (m *MockCatalogRepository) CreateDepartment(ctx context.Context, d domain.Department) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteError != nil {
		return 0, m.WriteError
	}
	d.ID = m.id()
	m.departments[d.ID] = d
	return d.ID, nil
}

func (m *MockCatalogRepository) UpdateDepartment(ctx context.Context, d domain.Department) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteError != nil {
		return m.WriteError
	}
	if _, ok := m.departments[d.ID]; !ok {
		return domain.NotFoundf("department")
	}
	m.departments[d.ID] = d
	return nil
}

// DeleteDepartment refuses to remove a department that still owns services,
// like the foreign key does.
func (m *MockCatalogRepository) DeleteDepartment(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.DeleteError != nil {
		return m.DeleteError
	}
	if _, ok := m.departments[id]; !ok {
		return domain.NotFoundf("department")
	}
	for _, s := range m.services {
		if s.DepartmentID == id {
			return domain.ErrConflict
		}
	}
	delete(m.departments, id)
	return nil
}
