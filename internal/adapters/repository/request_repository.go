package repository

import (
	"context"
	"database/sql"

	"github.com/egov-portal/portal-service/internal/core/domain"
	"github.com/egov-portal/portal-service/internal/core/ports"
)

type RequestRepository struct {
	*Store
}

var _ ports.RequestRepository = (*RequestRepository)(nil)

func NewRequestRepository(s *Store) *RequestRepository {
	return &RequestRepository{Store: s}
}

const scopeSelect = `
	SELECT r.id, r.citizen_id, r.service_id, s.department_id, r.status, s.fee
	FROM service_requests r
	JOIN services s ON s.id = r.service_id
	WHERE r.id = $1`

func scanScope(row rowScanner) (*domain.RequestScope, error) {
	var (
		scope domain.RequestScope
		fee   sql.NullFloat64
	)
	if err := row.Scan(&scope.RequestID, &scope.CitizenID, &scope.ServiceID, &scope.DepartmentID, &scope.Status, &fee); err != nil {
		return nil, err
	}
	scope.ServiceFee = nullableFloat(fee)
	return &scope, nil
}

func lockScope(ctx context.Context, tx *sql.Tx, requestID int64) (*domain.RequestScope, error) {
	return scanScope(tx.QueryRowContext(ctx, scopeSelect+` FOR UPDATE OF r`, requestID))
}

func (r *RequestRepository) Create(ctx context.Context, req domain.ServiceRequest, doc *domain.Document) (int64, error) {
	var id int64
	err := r.withTx(ctx, "service request", func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO service_requests (citizen_id, service_id, description, status)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			req.CitizenID, req.ServiceID, req.Description, domain.StatusAwaitingPayment,
		).Scan(&id); err != nil {
			return err
		}

		if doc != nil {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO documents (request_id, file_path, file_type) VALUES ($1, $2, $3)`,
				id, doc.FilePath, doc.FileType); err != nil {
				return err
			}
		}

		scope := domain.RequestScope{RequestID: id, CitizenID: req.CitizenID, ServiceID: req.ServiceID}
		return insertStatusEvent(ctx, tx, scope, domain.StatusAwaitingPayment)
	})
	return id, err
}

func (r *RequestRepository) RecordPayment(ctx context.Context, requestID int64, decide ports.PaymentFunc) (domain.Status, error) {
	var status domain.Status
	err := r.withTx(ctx, "service request", func(tx *sql.Tx) error {
		scope, err := lockScope(ctx, tx, requestID)
		if err != nil {
			return err
		}

		next, payment, err := decide(*scope)
		if err != nil {
			return err
		}
		status = next
		if next == scope.Status {
			return nil
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO payments (request_id, amount, status, proof_file)
			VALUES ($1, $2, $3, $4)`,
			requestID, payment.Amount, payment.Status, payment.ProofFile); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE service_requests SET status = $1 WHERE id = $2`, next, requestID); err != nil {
			return err
		}
		return insertStatusEvent(ctx, tx, *scope, next)
	})
	return status, err
}

func (r *RequestRepository) Transition(ctx context.Context, requestID int64, fn ports.TransitionFunc) (domain.Status, error) {
	var status domain.Status
	err := r.withTx(ctx, "service request", func(tx *sql.Tx) error {
		scope, err := lockScope(ctx, tx, requestID)
		if err != nil {
			return err
		}

		next, err := fn(*scope)
		if err != nil {
			return err
		}
		status = next
		if next == scope.Status {
			return nil
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE service_requests SET status = $1 WHERE id = $2`, next, requestID); err != nil {
			return err
		}
		return insertStatusEvent(ctx, tx, *scope, next)
	})
	return status, err
}

func (r *RequestRepository) FindScope(ctx context.Context, requestID int64) (*domain.RequestScope, error) {
	var scope *domain.RequestScope
	err := r.run(ctx, "service request", func(ctx context.Context) error {
		var err error
		scope, err = scanScope(r.db.QueryRowContext(ctx, scopeSelect, requestID))
		return err
	})
	return scope, err
}

func (r *RequestRepository) FindByAttachment(ctx context.Context, publicPath string) (*domain.RequestScope, error) {
	var scope *domain.RequestScope
	err := r.run(ctx, "upload", func(ctx context.Context) error {
		var err error
		scope, err = scanScope(r.db.QueryRowContext(ctx, `
			SELECT r.id, r.citizen_id, r.service_id, s.department_id, r.status, s.fee
			FROM service_requests r
			JOIN services s ON s.id = r.service_id
			WHERE r.id = (
				SELECT request_id FROM documents WHERE file_path = $1
				UNION ALL
				SELECT request_id FROM payments WHERE proof_file = $1
				LIMIT 1
			)`, publicPath))
		return err
	})
	return scope, err
}

const requestSelect = `
	SELECT r.id, r.citizen_id, r.service_id, s.name, r.description, r.status, r.created_at
	FROM service_requests r
	JOIN services s ON s.id = r.service_id`

func scanRequest(row rowScanner) (*domain.ServiceRequest, error) {
	var req domain.ServiceRequest
	if err := row.Scan(&req.ID, &req.CitizenID, &req.ServiceID, &req.ServiceName, &req.Description, &req.Status, &req.CreatedAt); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *RequestRepository) FindByID(ctx context.Context, requestID int64) (*domain.ServiceRequest, error) {
	var req *domain.ServiceRequest
	err := r.run(ctx, "service request", func(ctx context.Context) error {
		var err error
		req, err = scanRequest(r.db.QueryRowContext(ctx, requestSelect+` WHERE r.id = $1`, requestID))
		return err
	})
	return req, err
}

func (r *RequestRepository) ListByCitizen(ctx context.Context, citizenID int64) ([]domain.ServiceRequest, error) {
	requests := []domain.ServiceRequest{}
	err := r.run(ctx, "service requests", func(ctx context.Context) error {
		rows, err := r.db.QueryContext(ctx,
			requestSelect+` WHERE r.citizen_id = $1 ORDER BY r.created_at DESC, r.id DESC`, citizenID)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			req, err := scanRequest(rows)
			if err != nil {
				return err
			}
			requests = append(requests, *req)
		}
		return rows.Err()
	})
	return requests, err
}

func (r *RequestRepository) ListByAssignment(ctx context.Context, a domain.Assignment, status domain.Status) ([]domain.OfficerRequest, error) {
	requests := []domain.OfficerRequest{}
	err := r.run(ctx, "service requests", func(ctx context.Context) error {
		rows, err := r.db.QueryContext(ctx, `
			SELECT r.id, r.description, r.status, u.name, s.name, r.created_at
			FROM service_requests r
			JOIN users u ON u.id = r.citizen_id
			JOIN services s ON s.id = r.service_id
			WHERE r.service_id = $1 AND s.department_id = $2 AND r.status = $3
			ORDER BY r.created_at DESC, r.id DESC`,
			a.ServiceID, a.DepartmentID, status)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var item domain.OfficerRequest
			if err := rows.Scan(&item.ID, &item.Description, &item.Status, &item.CitizenName, &item.ServiceName, &item.CreatedAt); err != nil {
				return err
			}
			requests = append(requests, item)
		}
		return rows.Err()
	})
	return requests, err
}

// FindDetail loads a request with its citizen, documents and payment, but
// only when it falls inside the assignment; otherwise it is reported missing.
func (r *RequestRepository) FindDetail(ctx context.Context, requestID int64, a domain.Assignment) (*domain.RequestDetail, error) {
	var d domain.RequestDetail
	err := r.run(ctx, "service request", func(ctx context.Context) error {
		err := r.db.QueryRowContext(ctx, `
			SELECT r.id, r.description, r.status, r.created_at,
			       u.name, u.email, u.contact, u.national_id, s.name
			FROM service_requests r
			JOIN users u ON u.id = r.citizen_id
			JOIN services s ON s.id = r.service_id
			WHERE r.id = $1 AND r.service_id = $2 AND s.department_id = $3`,
			requestID, a.ServiceID, a.DepartmentID,
		).Scan(&d.ID, &d.Description, &d.Status, &d.CreatedAt,
			&d.CitizenName, &d.CitizenEmail, &d.CitizenContact, &d.NationalID, &d.ServiceName)
		if err != nil {
			return err
		}

		rows, err := r.db.QueryContext(ctx, `
			SELECT id, request_id, file_path, file_type, uploaded_at
			FROM documents WHERE request_id = $1 ORDER BY uploaded_at, id`, requestID)
		if err != nil {
			return err
		}
		defer rows.Close()

		d.Documents = []domain.Document{}
		for rows.Next() {
			var doc domain.Document
			if err := rows.Scan(&doc.ID, &doc.RequestID, &doc.FilePath, &doc.FileType, &doc.UploadedAt); err != nil {
				return err
			}
			d.Documents = append(d.Documents, doc)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		var p domain.Payment
		err = r.db.QueryRowContext(ctx, `
			SELECT id, request_id, amount, status, proof_file, paid_at
			FROM payments WHERE request_id = $1`, requestID,
		).Scan(&p.ID, &p.RequestID, &p.Amount, &p.Status, &p.ProofFile, &p.PaidAt)
		switch {
		case err == sql.ErrNoRows:
		case err != nil:
			return err
		default:
			d.Payment = &p
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}
