package domain

import "strings"

type Department struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Service struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	DepartmentID   int64    `json:"department_id"`
	DepartmentName string   `json:"department_name,omitempty"`
	Fee            *float64 `json:"fee,omitempty"`
}

func (d *Department) Validate() error {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return Validationf("department name is required")
	}
	return nil
}

func (s *Service) Validate() error {
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		return Validationf("service name is required")
	}
	if s.DepartmentID <= 0 {
		return Validationf("department_id is required")
	}
	if s.Fee != nil && *s.Fee < 0 {
		return Validationf("fee cannot be negative")
	}
	return nil
}

// ServiceOption is the compact id/name pair used by dependent dropdowns.
type ServiceOption struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
