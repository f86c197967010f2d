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

type AdminService struct {
	users    ports.UserRepository
	catalog  ports.CatalogRepository
	hasher   ports.PasswordHasher
	sessions ports.SessionStore
	log      *logrus.Entry
}

var _ ports.AdminService = (*AdminService)(nil)

func NewAdminService(
	users ports.UserRepository,
	catalog ports.CatalogRepository,
	hasher ports.PasswordHasher,
	sessions ports.SessionStore,
) *AdminService {
	return &AdminService{
		users:    users,
		catalog:  catalog,
		hasher:   hasher,
		sessions: sessions,
		log:      logrus.WithField("component", "admin"),
	}
}

// EnsureAdmin creates the bootstrap admin account when no user holds email.
// An empty email disables bootstrapping.
func (s *AdminService) EnsureAdmin(ctx context.Context, name, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}

	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	if _, err := s.AddUser(ctx, ports.UserInput{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     domain.RoleAdmin.String(),
	}); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	s.log.WithField("email", email).Info("bootstrap admin account created")
	return nil
}

func (s *AdminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

func (s *AdminService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// buildUser validates the common fields of an add or edit form onto u.
func (s *AdminService) buildUser(ctx context.Context, u *domain.User, in ports.UserInput) error {
	u.Name = strings.TrimSpace(in.Name)
	u.Email = strings.TrimSpace(in.Email)
	if err := required("name", u.Name); err != nil {
		return err
	}
	if err := validEmail(u.Email); err != nil {
		return err
	}

	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return err
	}
	u.Role = role

	if u.DateOfBirth, err = parseDOB(in.DateOfBirth); err != nil {
		return err
	}
	u.NationalID = strings.TrimSpace(in.NationalID)
	u.Contact = strings.TrimSpace(in.Contact)
	u.DepartmentID = in.DepartmentID
	u.ServiceID = in.ServiceID

	var svc *domain.Service
	if role == domain.RoleOfficer && u.ServiceID != nil {
		svc, err = s.catalog.FindService(ctx, *u.ServiceID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
	}
	return domain.CheckAssignment(u, svc)
}

func (s *AdminService) AddUser(ctx context.Context, in ports.UserInput) (*domain.User, error) {
	var u domain.User
	if err := s.buildUser(ctx, &u, in); err != nil {
		return nil, err
	}
	if err := validPassword(in.Password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u.Password = hash

	id, err := s.users.Create(ctx, u)
	if err != nil {
		return nil, err
	}
	u.ID = id
	u.Password = ""

	s.log.WithFields(logrus.Fields{"user_id": id, "role": u.Role.String()}).Info("user created")
	return &u, nil
}

// EditUser rewrites the profile fields and re-checks the officer assignment.
// The password changes only when one is supplied. A new role, assignment or
// password logs the user out everywhere.
func (s *AdminService) EditUser(ctx context.Context, id int64, in ports.UserInput) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *u
	if err := s.buildUser(ctx, u, in); err != nil {
		return nil, err
	}

	u.Password = ""
	if in.Password != "" {
		if err := validPassword(in.Password); err != nil {
			return nil, err
		}
		if u.Password, err = s.hasher.Hash(in.Password); err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
	}

	if err := s.users.Update(ctx, *u); err != nil {
		return nil, err
	}

	if u.Password != "" || u.Role != before.Role ||
		!sameID(u.DepartmentID, before.DepartmentID) || !sameID(u.ServiceID, before.ServiceID) {
		if err := s.revokeSessions(ctx, id); err != nil {
			return nil, err
		}
	}
	u.Password = ""
	return u, nil
}

func (s *AdminService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	return s.revokeSessions(ctx, id)
}

func (s *AdminService) revokeSessions(ctx context.Context, userID int64) error {
	if err := s.sessions.DestroyUser(ctx, userID); err != nil {
		s.log.WithField("user_id", userID).WithError(err).Error("user changed but open sessions were not revoked")
		return err
	}
	s.log.WithField("user_id", userID).Info("user sessions revoked")
	return nil
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (s *AdminService) ListServices(ctx context.Context) ([]domain.Service, error) {
	return s.catalog.ListServices(ctx)
}

func (s *AdminService) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	return s.catalog.FindService(ctx, id)
}

func (s *AdminService) checkDepartment(ctx context.Context, id int64) error {
	_, err := s.catalog.FindDepartment(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Validationf("department %d does not exist", id)
	}
	return err
}

func (s *AdminService) AddService(ctx context.Context, svc domain.Service) (*domain.Service, error) {
	if err := svc.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkDepartment(ctx, svc.DepartmentID); err != nil {
		return nil, err
	}

	id, err := s.catalog.CreateService(ctx, svc)
	if err != nil {
		return nil, err
	}
	return s.catalog.FindService(ctx, id)
}

func (s *AdminService) EditService(ctx context.Context, svc domain.Service) (*domain.Service, error) {
	if err := svc.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkDepartment(ctx, svc.DepartmentID); err != nil {
		return nil, err
	}
	if err := s.catalog.UpdateService(ctx, svc); err != nil {
		return nil, err
	}
	return s.catalog.FindService(ctx, svc.ID)
}

func (s *AdminService) DeleteService(ctx context.Context, id int64) error {
	return s.catalog.DeleteService(ctx, id)
}

func (s *AdminService) ServicesForDepartment(ctx context.Context, departmentID int64) ([]domain.ServiceOption, error) {
	return s.catalog.ListServicesByDepartment(ctx, departmentID)
}

func (s *AdminService) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	return s.catalog.ListDepartments(ctx)
}

func (s *AdminService) GetDepartment(ctx context.Context, id int64) (*domain.Department, error) {
	return s.catalog.FindDepartment(ctx, id)
}

func (s *AdminService) AddDepartment(ctx context.Context, dept domain.Department) (*domain.Department, error) {
	if err := dept.Validate(); err != nil {
		return nil, err
	}
	id, err := s.catalog.CreateDepartment(ctx, dept)
	if err != nil {
		return nil, err
	}
	dept.ID = id
	return &dept, nil
}

func (s *AdminService) EditDepartment(ctx context.Context, dept domain.Department) (*domain.Department, error) {
	if err := dept.Validate(); err != nil {
		return nil, err
	}
	if err := s.catalog.UpdateDepartment(ctx, dept); err != nil {
		return nil, err
	}
	return &dept, nil
}

func (s *AdminService) DeleteDepartment(ctx context.Context, id int64) error {
	return s.catalog.DeleteDepartment(ctx, id)
}
