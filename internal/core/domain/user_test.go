package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseRole(t *testing.T) {
	for _, r := range []Role{RoleCitizen, RoleOfficer, RoleAdmin} {
		got, err := ParseRole(r.String())
		if err != nil || got != r {
			t.Errorf("%s: expected round trip, got %v (%v)", r, got, err)
		}
	}
	if _, err := ParseRole("root"); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	if Role(0).Valid() {
		t.Errorf("expected zero role to be invalid")
	}
}

func TestRole_JSON(t *testing.T) {
	out, err := json.Marshal(struct {
		Role Role `json:"role"`
	}{RoleOfficer})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"role":"officer"}` {
		t.Errorf("expected role by name, got %s", out)
	}

	if _, err := json.Marshal(Role(9)); err == nil {
		t.Errorf("expected invalid role to fail encoding")
	}
}

func TestCheckAssignment(t *testing.T) {
	dept, otherDept, svcID := int64(1), int64(2), int64(10)
	svc := &Service{ID: svcID, DepartmentID: dept}

	tests := []struct {
		name    string
		user    User
		svc     *Service
		wantErr bool
	}{
		{"officer_matching", User{Role: RoleOfficer, DepartmentID: &dept, ServiceID: &svcID}, svc, false},
		{"officer_other_department", User{Role: RoleOfficer, DepartmentID: &otherDept, ServiceID: &svcID}, svc, true},
		{"officer_missing_service", User{Role: RoleOfficer, DepartmentID: &dept}, nil, true},
		{"officer_unknown_service", User{Role: RoleOfficer, DepartmentID: &dept, ServiceID: &svcID}, nil, true},
		{"citizen_plain", User{Role: RoleCitizen}, nil, false},
		{"citizen_with_department", User{Role: RoleCitizen, DepartmentID: &dept}, nil, true},
		{"admin_with_service", User{Role: RoleAdmin, ServiceID: &svcID}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckAssignment(&tt.user, tt.svc)
			if tt.wantErr && !errors.Is(err, ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestAssignment_Matches(t *testing.T) {
	dept, svcID := int64(1), int64(10)
	officer := User{Role: RoleOfficer, DepartmentID: &dept, ServiceID: &svcID}

	a, ok := officer.Assignment()
	if !ok {
		t.Fatalf("expected officer assignment")
	}
	if !a.Matches(10, 1) {
		t.Errorf("expected matching request to be in scope")
	}
	if a.Matches(10, 2) || a.Matches(11, 1) {
		t.Errorf("expected partial matches to be out of scope")
	}

	citizen := User{Role: RoleCitizen}
	if _, ok := citizen.Assignment(); ok {
		t.Errorf("expected citizens to have no assignment")
	}
}

func TestSession_Expired(t *testing.T) {
	now := time.Now()
	s := Session{IssuedAt: now, ExpiresAt: now.Add(time.Hour)}

	if s.Expired(now.Add(59 * time.Minute)) {
		t.Errorf("expected session to be live at 59m")
	}
	if !s.Expired(now.Add(time.Hour)) {
		t.Errorf("expected session to expire at 60m")
	}
}
