package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/egov-portal/portal-service/internal/core/domain"
	"github.com/egov-portal/portal-service/internal/core/ports"
)

// Register creates a citizen account. Officers and admins are only created
// through the admin console.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	if err := required("name", in.Name); err != nil {
		return nil, err
	}
	if err := validEmail(in.Email); err != nil {
		return nil, err
	}
	if err := validPassword(in.Password); err != nil {
		return nil, err
	}
	dob, err := parseDOB(in.DateOfBirth)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		Name:        in.Name,
		Email:       in.Email,
		Password:    hash,
		Role:        domain.RoleCitizen,
		NationalID:  strings.TrimSpace(in.NationalID),
		DateOfBirth: dob,
		Contact:     strings.TrimSpace(in.Contact),
	}

	// the unique index still catches a concurrent registration of the same email
	id, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id
	user.Password = ""

	logrus.WithFields(logrus.Fields{"component": "auth", "user_id": id}).Info("citizen registered")
	return &user, nil
}
