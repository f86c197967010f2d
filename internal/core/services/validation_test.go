package services

import (
	"errors"
	"testing"
	"time"

	"github.com/egov-portal/portal-service/internal/core/domain"
)

func TestValidEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"asha@example.com", true},
		{"a.b+c@gov.example.org", true},
		{"not-an-email", false},
		{"missing@tld", false},
		{"spaces in@example.com", false},
		{"", false},
	}

	for _, tt := range tests {
		err := validEmail(tt.email)
		if tt.valid && err != nil {
			t.Errorf("%q: expected valid, got %v", tt.email, err)
		}
		if !tt.valid && !errors.Is(err, domain.ErrValidation) {
			t.Errorf("%q: expected validation error, got %v", tt.email, err)
		}
	}
}

func TestParseDOB(t *testing.T) {
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	tests := []struct {
		name    string
		input   string
		wantNil bool
		wantErr bool
	}{
		{"empty_is_allowed", "", true, false},
		{"iso_date", "1990-04-12", false, false},
		{"wrong_format", "12/04/1990", false, true},
		{"future_date", tomorrow, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dob, err := parseDOB(tt.input)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrValidation) {
					t.Errorf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if (dob == nil) != tt.wantNil {
				t.Errorf("expected nil=%v, got %v", tt.wantNil, dob)
			}
		})
	}
}
