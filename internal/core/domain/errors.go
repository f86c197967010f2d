package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("access denied")
	ErrConflict        = errors.New("conflict")
	ErrStorage         = errors.New("storage failure")

	ErrSessionExpired     = fmt.Errorf("%w: session missing or expired", ErrUnauthenticated)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
	ErrDuplicateEmail     = fmt.Errorf("%w: email already exists", ErrConflict)
	ErrInvalidTransition  = fmt.Errorf("%w: status transition not allowed", ErrConflict)
)

// Validationf builds an ErrValidation carrying a user-facing message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFoundf builds an ErrNotFound for the named resource.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
