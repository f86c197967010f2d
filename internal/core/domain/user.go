package domain

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Role is the closed set of portal roles. The zero value is not a valid role.
type Role uint8

const (
	RoleCitizen Role = iota + 1
	RoleOfficer
	RoleAdmin
)

// ParseRole maps the stored/wire name of a role to its variant.
func ParseRole(s string) (Role, error) {
	switch s {
	case "citizen":
		return RoleCitizen, nil
	case "officer":
		return RoleOfficer, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return 0, fmt.Errorf("%w: unknown role %q", ErrValidation, s)
	}
}

func (r Role) String() string {
	switch r {
	case RoleCitizen:
		return "citizen"
	case RoleOfficer:
		return "officer"
	case RoleAdmin:
		return "admin"
	default:
		return fmt.Sprintf("Role(%d)", uint8(r))
	}
}

func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleOfficer, RoleAdmin:
		return true
	default:
		return false
	}
}

// DashboardPath is where a freshly authenticated user of this role lands.
func (r Role) DashboardPath() string {
	switch r {
	case RoleCitizen:
		return "/citizen_dashboard"
	case RoleOfficer:
		return "/officer_dashboard"
	case RoleAdmin:
		return "/admin_dashboard"
	default:
		return "/"
	}
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: cannot encode %s", ErrValidation, r)
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Value stores the role as its name so the users.role column stays readable.
func (r Role) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: cannot store %s", ErrValidation, r)
	}
	return r.String(), nil
}

func (r *Role) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return r.UnmarshalText([]byte(v))
	case []byte:
		return r.UnmarshalText(v)
	default:
		return fmt.Errorf("role: unsupported scan type %T", src)
	}
}

type User struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Password       string     `json:"-"`
	Role           Role       `json:"role"`
	NationalID     string     `json:"national_id,omitempty"`
	DateOfBirth    *time.Time `json:"dob,omitempty"`
	Contact        string     `json:"contact,omitempty"`
	ProfilePicture string     `json:"profile_pic,omitempty"`
	DepartmentID   *int64     `json:"department_id,omitempty"`
	ServiceID      *int64     `json:"service_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Assignment is the (department, service) pair an officer is scoped to.
type Assignment struct {
	DepartmentID int64 `json:"department_id"`
	ServiceID    int64 `json:"service_id"`
}

// Assignment returns the officer's scope. ok is false for non-officers and
// for officers whose assignment is incomplete.
func (u *User) Assignment() (Assignment, bool) {
	if u.Role != RoleOfficer || u.DepartmentID == nil || u.ServiceID == nil {
		return Assignment{}, false
	}
	return Assignment{DepartmentID: *u.DepartmentID, ServiceID: *u.ServiceID}, true
}

// Matches reports whether a request for the given service, owned by the
// given department, falls inside this assignment.
func (a Assignment) Matches(serviceID, departmentID int64) bool {
	return a.ServiceID == serviceID && a.DepartmentID == departmentID
}

// CheckAssignment enforces the officer invariant: officers carry both ids and
// the service belongs to the department; everybody else carries neither.
// svc is the service referenced by u.ServiceID, or nil when there is none.
func CheckAssignment(u *User, svc *Service) error {
	if u.Role != RoleOfficer {
		if u.DepartmentID != nil || u.ServiceID != nil {
			return fmt.Errorf("%w: only officers can be assigned to a department or service", ErrValidation)
		}
		return nil
	}
	if u.DepartmentID == nil || u.ServiceID == nil {
		return fmt.Errorf("%w: officer requires department_id and service_id", ErrValidation)
	}
	if svc == nil || svc.ID != *u.ServiceID {
		return fmt.Errorf("%w: service %d does not exist", ErrValidation, *u.ServiceID)
	}
	if svc.DepartmentID != *u.DepartmentID {
		return fmt.Errorf("%w: service %d does not belong to department %d", ErrValidation, svc.ID, *u.DepartmentID)
	}
	return nil
}

// OfficerProfile is the officer dashboard view of a user.
type OfficerProfile struct {
	User
	DepartmentName string `json:"department_name,omitempty"`
	ServiceName    string `json:"service_name,omitempty"`
}
