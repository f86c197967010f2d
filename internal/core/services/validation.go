package services

import (
	"regexp"
	"strings"
	"time"

	"github.com/egov-portal/portal-service/internal/core/domain"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	dateLayout = "2006-01-02"
	// bcrypt refuses anything longer
	maxPasswordBytes = 72
)

func validEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return domain.Validationf("invalid email format")
	}
	return nil
}

// parseDOB accepts an empty string as "not provided".
func parseDOB(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	dob, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, domain.Validationf("dob must be YYYY-MM-DD")
	}
	if dob.After(time.Now()) {
		return nil, domain.Validationf("dob cannot be in the future")
	}
	return &dob, nil
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return domain.Validationf("%s is required", field)
	}
	return nil
}

func validPassword(password string) error {
	if err := required("password", password); err != nil {
		return err
	}
	if len(password) > maxPasswordBytes {
		return domain.Validationf("password must be at most %d bytes", maxPasswordBytes)
	}
	return nil
}
