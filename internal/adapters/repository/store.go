package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sony/gobreaker"

	"github.com/egov-portal/portal-service/internal/config"
	"github.com/egov-portal/portal-service/internal/core/domain"
)

// Store is the shared PostgreSQL handle behind every repository.
type Store struct {
	db *sql.DB
	cb *gobreaker.CircuitBreaker
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db: db,
		cb: config.NewCircuitBreaker(config.BreakerPostgres),
	}
}

// Open connects with lib/pq and verifies the connection.
func Open(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// withTx runs fn inside a transaction guarded by the Postgres breaker. The
// transaction is rolled back unless fn returns nil.
func (s *Store) withTx(ctx context.Context, what string, fn func(tx *sql.Tx) error) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		if err := fn(tx); err != nil {
			return nil, translate(err, what)
		}
		return nil, tx.Commit()
	})
	return translate(err, what)
}

// run guards a single statement with the breaker.
func (s *Store) run(ctx context.Context, what string, fn func(ctx context.Context) error) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, translate(fn(ctx), what)
	})
	return translate(err, what)
}

// translate maps driver errors onto the domain sentinels.
func translate(err error, what string) error {
	if err == nil || isDomainError(err) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFoundf("%s", what)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "users_email_key" {
				return domain.ErrDuplicateEmail
			}
			return fmt.Errorf("%w: %s already exists", domain.ErrConflict, what)
		case "23503":
			return fmt.Errorf("%w: %s conflicts with related records", domain.ErrConflict, what)
		case "23514":
			return domain.Validationf("%s violates %s", what, pqErr.Constraint)
		case "22P02", "22007", "22008":
			return domain.Validationf("%s: %s", what, pqErr.Message)
		}
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrStorage, what, err)
}

func isDomainError(err error) bool {
	for _, target := range []error{
		domain.ErrValidation, domain.ErrNotFound, domain.ErrUnauthenticated,
		domain.ErrForbidden, domain.ErrConflict, domain.ErrStorage,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// insertStatusEvent writes a lifecycle event to the outbox inside tx. The
// NOTIFY trigger wakes the relay after commit.
func insertStatusEvent(ctx context.Context, tx *sql.Tx, scope domain.RequestScope, to domain.Status) error {
	evt := domain.StatusEvent{
		EventID:    uuid.NewString(),
		RequestID:  scope.RequestID,
		CitizenID:  scope.CitizenID,
		ServiceID:  scope.ServiceID,
		From:       scope.Status,
		To:         to,
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO outbox_events (id, aggregate_type, aggregate_id, event_type, payload)
		VALUES ($1, 'service_request', $2, $3, $4)`,
		evt.EventID, strconv.FormatInt(scope.RequestID, 10), domain.StatusChangedEvent, string(payload))
	return err
}

func nullableTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func nullableInt(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func nullableFloat(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}
