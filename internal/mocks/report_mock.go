package mocks

import (
	"context"

	"github.com/egov-portal/portal-service/internal/core/domain"
	"github.com/egov-portal/portal-service/internal/core/ports"
)

// MockReportRepository returns canned report data.
type MockReportRepository struct {
	SummaryResult domain.ReportSummary
	Activity      []domain.ActivityEntry

	SummaryError  error
	ActivityError error
}

var _ ports.ReportRepository = (*MockReportRepository)(nil)

func (m *MockReportRepository) Summary(ctx context.Context) (domain.ReportSummary, error) {
	return m.SummaryResult, m.SummaryError
}

func (m *MockReportRepository) ActivityLog(ctx context.Context) ([]domain.ActivityEntry, error) {
	if m.ActivityError != nil {
		return nil, m.ActivityError
	}
	if m.Activity == nil {
		return []domain.ActivityEntry{}, nil
	}
	return m.Activity, nil
}
