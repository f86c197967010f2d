package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/egov-portal/portal-service/internal/core/domain"
	"github.com/egov-portal/portal-service/internal/core/ports"
)

// MockRequestRepository implements ports.RequestRepository in memory. It
// resolves service department and fee through the catalog mock, and records
// the status events a real transaction would write to the outbox.
type MockRequestRepository struct {
	mu       sync.Mutex
	nextID   int64
	requests map[int64]*domain.ServiceRequest

	catalog *MockCatalogRepository
	users   *MockUserRepository

	Documents map[int64][]domain.Document
	Payments  map[int64][]domain.Payment
	Events    []domain.StatusEvent

	// Call tracking
	TransitionCalls []int64

	// Error injection
	CreateError        error
	RecordPaymentError error
	TransitionError    error
	ListError          error
}

var _ ports.RequestRepository = (*MockRequestRepository)(nil)

func NewMockRequestRepository(catalog *MockCatalogRepository, users *MockUserRepository) *MockRequestRepository {
	return &MockRequestRepository{
		requests:  make(map[int64]*domain.ServiceRequest),
		catalog:   catalog,
		users:     users,
		Documents: make(map[int64][]domain.Document),
		Payments:  make(map[int64][]domain.Payment),
	}
}

// SeedRequest stores a request in the given status and returns its id.
func (m *MockRequestRepository) SeedRequest(citizenID, serviceID int64, status domain.Status) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	m.requests[m.nextID] = &domain.ServiceRequest{
		ID:          m.nextID,
		CitizenID:   citizenID,
		ServiceID:   serviceID,
		Description: "seeded",
		Status:      status,
		CreatedAt:   time.Now().Add(time.Duration(m.nextID) * time.Second),
	}
	return m.nextID
}

// Status returns the stored status of a request.
func (m *MockRequestRepository) Status(id int64) domain.Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r, ok := m.requests[id]; ok {
		return r.Status
	}
	return ""
}

func (m *MockRequestRepository) scope(id int64) (*domain.RequestScope, error) {
	r, ok := m.requests[id]
	if !ok {
		return nil, domain.NotFoundf("service request")
	}
	svc, err := m.catalog.FindService(context.Background(), r.ServiceID)
	if err != nil {
		return nil, err
	}
	return &domain.RequestScope{
		RequestID:    r.ID,
		CitizenID:    r.CitizenID,
		ServiceID:    r.ServiceID,
		DepartmentID: svc.DepartmentID,
		Status:       r.Status,
		ServiceFee:   svc.Fee,
	}, nil
}

func (m *MockRequestRepository) event(scope domain.RequestScope, to domain.Status) {
	m.Events = append(m.Events, domain.StatusEvent{
		RequestID:  scope.RequestID,
		CitizenID:  scope.CitizenID,
		ServiceID:  scope.ServiceID,
		From:       scope.Status,
		To:         to,
		OccurredAt: time.Now(),
	})
}

func (m *MockRequestRepository) Create(ctx context.Context, req domain.ServiceRequest, doc *domain.Document) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateError != nil {
		return 0, m.CreateError
	}

	m.nextID++
	req.ID = m.nextID
	req.Status = domain.StatusAwaitingPayment
	req.CreatedAt = time.Now()
	m.requests[req.ID] = &req

	if doc != nil {
		d := *doc
		d.RequestID = req.ID
		m.Documents[req.ID] = append(m.Documents[req.ID], d)
	}
	m.event(domain.RequestScope{RequestID: req.ID, CitizenID: req.CitizenID, ServiceID: req.ServiceID}, req.Status)
	return req.ID, nil
}

func (m *MockRequestRepository) RecordPayment(ctx context.Context, requestID int64, decide ports.PaymentFunc) (domain.Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.RecordPaymentError != nil {
		return "", m.RecordPaymentError
	}
	scope, err := m.scope(requestID)
	if err != nil {
		return "", err
	}
	next, payment, err := decide(*scope)
	if err != nil {
		return "", err
	}
	if next == scope.Status {
		return next, nil
	}

	payment.RequestID = requestID
	payment.PaidAt = time.Now()
	m.Payments[requestID] = append(m.Payments[requestID], payment)
	m.requests[requestID].Status = next
	m.event(*scope, next)
	return next, nil
}

func (m *MockRequestRepository) Transition(ctx context.Context, requestID int64, fn ports.TransitionFunc) (domain.Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TransitionCalls = append(m.TransitionCalls, requestID)
	if m.TransitionError != nil {
		return "", m.TransitionError
	}
	scope, err := m.scope(requestID)
	if err != nil {
		return "", err
	}
	next, err := fn(*scope)
	if err != nil {
		return "", err
	}
	if next != scope.Status {
		m.requests[requestID].Status = next
		m.event(*scope, next)
	}
	return next, nil
}

func (m *MockRequestRepository) FindScope(ctx context.Context, requestID int64) (*domain.RequestScope, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scope(requestID)
}

func (m *MockRequestRepository) FindByAttachment(ctx context.Context, publicPath string) (*domain.RequestScope, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, docs := range m.Documents {
		for _, d := range docs {
			if d.FilePath == publicPath {
				return m.scope(id)
			}
		}
	}
	for id, payments := range m.Payments {
		for _, p := range payments {
			if p.ProofFile == publicPath {
				return m.scope(id)
			}
		}
	}
	return nil, domain.NotFoundf("upload")
}

func (m *MockRequestRepository) FindByID(ctx context.Context, requestID int64) (*domain.ServiceRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.requests[requestID]
	if !ok {
		return nil, domain.NotFoundf("service request")
	}
	cp := *r
	return &cp, nil
}

func (m *MockRequestRepository) sorted(keep func(*domain.ServiceRequest) bool) []domain.ServiceRequest {
	var out []domain.ServiceRequest
	for _, r := range m.requests {
		if keep(r) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *MockRequestRepository) ListByCitizen(ctx context.Context, citizenID int64) ([]domain.ServiceRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListError != nil {
		return nil, m.ListError
	}
	out := m.sorted(func(r *domain.ServiceRequest) bool { return r.CitizenID == citizenID })
	if out == nil {
		out = []domain.ServiceRequest{}
	}
	return out, nil
}

func (m *MockRequestRepository) ListByAssignment(ctx context.Context, a domain.Assignment, status domain.Status) ([]domain.OfficerRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListError != nil {
		return nil, m.ListError
	}
	out := []domain.OfficerRequest{}
	for _, r := range m.sorted(func(r *domain.ServiceRequest) bool { return r.Status == status }) {
		scope, err := m.scope(r.ID)
		if err != nil || !a.Matches(scope.ServiceID, scope.DepartmentID) {
			continue
		}
		item := domain.OfficerRequest{ID: r.ID, Description: r.Description, Status: r.Status, CreatedAt: r.CreatedAt}
		if citizen, err := m.users.FindByID(ctx, r.CitizenID); err == nil {
			item.CitizenName = citizen.Name
		}
		out = append(out, item)
	}
	return out, nil
}

func (m *MockRequestRepository) FindDetail(ctx context.Context, requestID int64, a domain.Assignment) (*domain.RequestDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	scope, err := m.scope(requestID)
	if err != nil {
		return nil, err
	}
	if !a.Matches(scope.ServiceID, scope.DepartmentID) {
		return nil, domain.NotFoundf("service request")
	}

	r := m.requests[requestID]
	d := &domain.RequestDetail{
		ID:          r.ID,
		Description: r.Description,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		Documents:   append([]domain.Document{}, m.Documents[requestID]...),
	}
	if citizen, err := m.users.FindByID(ctx, r.CitizenID); err == nil {
		d.CitizenName = citizen.Name
		d.CitizenEmail = citizen.Email
	}
	if ps := m.Payments[requestID]; len(ps) > 0 {
		p := ps[len(ps)-1]
		d.Payment = &p
	}
	return d, nil
}
