package domain

import (
	"errors"
	"testing"
)

func TestTransitionTable_Apply(t *testing.T) {
	strict := NewTransitionTable(false)
	lenient := NewTransitionTable(true)

	tests := []struct {
		name        string
		table       TransitionTable
		from        Status
		action      Action
		want        Status
		wantChanged bool
		wantErr     error
	}{
		{"pay_awaiting", strict, StatusAwaitingPayment, ActionSubmitPayment, StatusUnderReview, true, nil},
		{"pay_twice", strict, StatusUnderReview, ActionSubmitPayment, StatusUnderReview, false, ErrInvalidTransition},
		{"approve_under_review", strict, StatusUnderReview, ActionApprove, StatusApproved, true, nil},
		{"reject_under_review", strict, StatusUnderReview, ActionReject, StatusRejected, true, nil},
		{"approve_unpaid_strict", strict, StatusAwaitingPayment, ActionApprove, StatusAwaitingPayment, false, ErrInvalidTransition},
		{"approve_unpaid_lenient", lenient, StatusAwaitingPayment, ActionApprove, StatusApproved, true, nil},
		{"reapprove_is_noop", strict, StatusApproved, ActionApprove, StatusApproved, false, nil},
		{"rereject_is_noop", strict, StatusRejected, ActionReject, StatusRejected, false, nil},
		{"reject_approved", strict, StatusApproved, ActionReject, StatusApproved, false, ErrInvalidTransition},
		{"approve_rejected", lenient, StatusRejected, ActionApprove, StatusRejected, false, ErrInvalidTransition},
		{"pay_approved", strict, StatusApproved, ActionSubmitPayment, StatusApproved, false, ErrInvalidTransition},
		{"unknown_action", strict, StatusUnderReview, Action("escalate"), StatusUnderReview, false, ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed, err := tt.table.Apply(tt.from, tt.action)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
			if changed != tt.wantChanged {
				t.Errorf("expected changed=%v, got %v", tt.wantChanged, changed)
			}
		})
	}
}

func TestParseOfficerFilter(t *testing.T) {
	tests := map[string]Status{
		"pending":  StatusUnderReview,
		"approved": StatusApproved,
		"rejected": StatusRejected,
	}
	for in, want := range tests {
		got, err := ParseOfficerFilter(in)
		if err != nil || got != want {
			t.Errorf("%s: expected %s, got %s (%v)", in, want, got, err)
		}
	}
	for _, bad := range []string{"", "under_review", "awaiting_payment", "PENDING"} {
		if _, err := ParseOfficerFilter(bad); !errors.Is(err, ErrValidation) {
			t.Errorf("%q: expected validation error, got %v", bad, err)
		}
	}
}

func TestParseDecision(t *testing.T) {
	for _, ok := range []string{"approve", "reject"} {
		if _, err := ParseDecision(ok); err != nil {
			t.Errorf("%s: unexpected error %v", ok, err)
		}
	}
	for _, bad := range []string{"submit_payment", "delete", ""} {
		if _, err := ParseDecision(bad); !errors.Is(err, ErrValidation) {
			t.Errorf("%q: expected validation error, got %v", bad, err)
		}
	}
}
