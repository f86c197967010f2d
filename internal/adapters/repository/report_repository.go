package repository

import (
	"context"

	"github.com/egov-portal/portal-service/internal/core/domain"
	"github.com/egov-portal/portal-service/internal/core/ports"
)

type ReportRepository struct {
	*Store
}

var _ ports.ReportRepository = (*ReportRepository)(nil)

func NewReportRepository(s *Store) *ReportRepository {
	return &ReportRepository{Store: s}
}

func (r *ReportRepository) Summary(ctx context.Context) (domain.ReportSummary, error) {
	var s domain.ReportSummary
	err := r.run(ctx, "report", func(ctx context.Context) error {
		return r.db.QueryRowContext(ctx, `
			SELECT
				(SELECT COUNT(*) FROM users),
				(SELECT COUNT(*) FROM departments),
				(SELECT COUNT(*) FROM services),
				(SELECT COUNT(*) FROM service_requests),
				(SELECT COUNT(*) FROM service_requests WHERE status = 'awaiting_payment'),
				(SELECT COUNT(*) FROM service_requests WHERE status = 'under_review'),
				(SELECT COUNT(*) FROM service_requests WHERE status = 'approved'),
				(SELECT COUNT(*) FROM service_requests WHERE status = 'rejected'),
				(SELECT COUNT(*) FROM payments)`,
		).Scan(&s.TotalUsers, &s.TotalDepartments, &s.TotalServices, &s.TotalRequests,
			&s.AwaitingPayment, &s.UnderReview, &s.Approved, &s.Rejected, &s.TotalPayments)
	})
	return s, err
}

func (r *ReportRepository) ActivityLog(ctx context.Context) ([]domain.ActivityEntry, error) {
	entries := []domain.ActivityEntry{}
	err := r.run(ctx, "report", func(ctx context.Context) error {
		rows, err := r.db.QueryContext(ctx, `
			SELECT u.name, s.name, d.name, r.status, r.created_at
			FROM service_requests r
			JOIN users u ON u.id = r.citizen_id
			JOIN services s ON s.id = r.service_id
			JOIN departments d ON d.id = s.department_id
			ORDER BY r.created_at DESC, r.id DESC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var e domain.ActivityEntry
			if err := rows.Scan(&e.UserName, &e.ServiceName, &e.DepartmentName, &e.Status, &e.CreatedAt); err != nil {
				return err
			}
			entries = append(entries, e)
		}
		return rows.Err()
	})
	return entries, err
}
