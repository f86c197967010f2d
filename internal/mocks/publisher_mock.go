package mocks

import (
	"context"
	"sync"

	"github.com/egov-portal/portal-service/internal/core/domain"
	"github.com/egov-portal/portal-service/internal/core/ports"
)

// MockRequestEventPublisher implements ports.RequestEventPublisher so the
// relay can be tested without RabbitMQ.
type MockRequestEventPublisher struct {
	mu sync.RWMutex

	PublishedEvents  []domain.StatusEvent
	PublishCallCount int

	PublishError error
}

var _ ports.RequestEventPublisher = (*MockRequestEventPublisher)(nil)

func NewMockRequestEventPublisher() *MockRequestEventPublisher {
	return &MockRequestEventPublisher{}
}

func (m *MockRequestEventPublisher) PublishStatusChanged(ctx context.Context, evt domain.StatusEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishCallCount++
	if m.PublishError != nil {
		return m.PublishError
	}
	m.PublishedEvents = append(m.PublishedEvents, evt)
	return nil
}

// GetPublishedEvents returns a copy of the events published so far.
func (m *MockRequestEventPublisher) GetPublishedEvents() []domain.StatusEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]domain.StatusEvent, len(m.PublishedEvents))
	copy(events, m.PublishedEvents)
	return events
}
