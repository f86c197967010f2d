package ports

import (
	"context"

	"github.com/egov-portal/portal-service/internal/core/domain"
)

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindOfficerProfile(ctx context.Context, id int64) (*domain.OfficerProfile, error)
	List(ctx context.Context) ([]domain.User, error)
	Create(ctx context.Context, user domain.User) (int64, error)
	Update(ctx context.Context, user domain.User) error
	UpdateProfilePicture(ctx context.Context, id int64, path string) error
	Delete(ctx context.Context, id int64) error
}

type CatalogRepository interface {
	ListServices(ctx context.Context) ([]domain.Service, error)
	ListServicesByDepartment(ctx context.Context, departmentID int64) ([]domain.ServiceOption, error)
	FindService(ctx context.Context, id int64) (*domain.Service, error)
	CreateService(ctx context.Context, svc domain.Service) (int64, error)
	UpdateService(ctx context.Context, svc domain.Service) error
	DeleteService(ctx context.Context, id int64) error

	ListDepartments(ctx context.Context) ([]domain.Department, error)
	FindDepartment(ctx context.Context, id int64) (*domain.Department, error)
	CreateDepartment(ctx context.Context, dept domain.Department) (int64, error)
	UpdateDepartment(ctx context.Context, dept domain.Department) error
	DeleteDepartment(ctx context.Context, id int64) error
}

// TransitionFunc decides the next status of a locked request. Returning the
// current status leaves the row untouched.
type TransitionFunc func(scope domain.RequestScope) (domain.Status, error)

// PaymentFunc decides the next status and builds the payment row to insert.
type PaymentFunc func(scope domain.RequestScope) (domain.Status, domain.Payment, error)

type RequestRepository interface {
	// Create inserts the request, its optional document and the creation
	// event in one transaction.
	Create(ctx context.Context, req domain.ServiceRequest, doc *domain.Document) (int64, error)
	// RecordPayment locks the request, inserts the payment and applies the
	// status change atomically.
	RecordPayment(ctx context.Context, requestID int64, decide PaymentFunc) (domain.Status, error)
	// Transition locks the request and applies the status decided by fn.
	Transition(ctx context.Context, requestID int64, fn TransitionFunc) (domain.Status, error)
	FindScope(ctx context.Context, requestID int64) (*domain.RequestScope, error)
	// FindByAttachment resolves a stored document or payment proof path to
	// the request it belongs to.
	FindByAttachment(ctx context.Context, publicPath string) (*domain.RequestScope, error)
	FindByID(ctx context.Context, requestID int64) (*domain.ServiceRequest, error)
	ListByCitizen(ctx context.Context, citizenID int64) ([]domain.ServiceRequest, error)
	ListByAssignment(ctx context.Context, a domain.Assignment, status domain.Status) ([]domain.OfficerRequest, error)
	FindDetail(ctx context.Context, requestID int64, a domain.Assignment) (*domain.RequestDetail, error)
}

type ReportRepository interface {
	Summary(ctx context.Context) (domain.ReportSummary, error)
	ActivityLog(ctx context.Context) ([]domain.ActivityEntry, error)
}
