package repository

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/lib/pq"

	"github.com/egov-portal/portal-service/internal/core/domain"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no_rows", sql.ErrNoRows, domain.ErrNotFound},
		{"duplicate_email", &pq.Error{Code: "23505", Constraint: "users_email_key"}, domain.ErrDuplicateEmail},
		{"other_unique", &pq.Error{Code: "23505", Constraint: "payments_request_key"}, domain.ErrConflict},
		{"foreign_key", &pq.Error{Code: "23503"}, domain.ErrConflict},
		{"check_violation", &pq.Error{Code: "23514", Constraint: "users_officer_assignment"}, domain.ErrValidation},
		{"bad_date", &pq.Error{Code: "22007"}, domain.ErrValidation},
		{"connection_lost", errors.New("driver: bad connection"), domain.ErrStorage},
		{"domain_passthrough", domain.ErrInvalidTransition, domain.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translate(tt.err, "user")
			if !errors.Is(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	if translate(nil, "user") != nil {
		t.Errorf("expected nil to stay nil")
	}
}

func TestTranslate_DuplicateEmailIsConflict(t *testing.T) {
	err := translate(&pq.Error{Code: "23505", Constraint: "users_email_key"}, "user")
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected duplicate email to also match ErrConflict, got %v", err)
	}
}
