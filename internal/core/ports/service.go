package ports

import (
	"context"

	"github.com/egov-portal/portal-service/internal/core/domain"
)

type RegisterInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	NationalID  string `json:"national_id"`
	DateOfBirth string `json:"dob"`
	Contact     string `json:"contact"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

type CitizenDashboard struct {
	Citizen  domain.User             `json:"citizen"`
	Requests []domain.ServiceRequest `json:"requests"`
}

type ProfileService interface {
	UploadProfilePicture(ctx context.Context, userID int64, up Upload) (string, error)
	AuthorizeFileRead(ctx context.Context, viewer domain.Session, purpose Purpose, publicPath string) error
	CitizenDashboard(ctx context.Context, citizenID int64) (*CitizenDashboard, error)
	OfficerDashboard(ctx context.Context, officerID int64) (*domain.OfficerProfile, error)
	AdminDashboard(ctx context.Context, adminID int64) (*domain.User, error)
}

type CreateRequestInput struct {
	CitizenID   int64
	ServiceID   int64
	Description string
	Document    *Upload
}

type PaymentForm struct {
	Request   domain.ServiceRequest `json:"request"`
	AmountDue float64               `json:"amount_due"`
}

type LifecycleService interface {
	AvailableServices(ctx context.Context) ([]domain.Service, error)
	Create(ctx context.Context, in CreateRequestInput) (*domain.ServiceRequest, error)
	PaymentForm(ctx context.Context, citizenID, requestID int64) (*PaymentForm, error)
	SubmitPayment(ctx context.Context, citizenID, requestID int64, proof *Upload) (domain.Status, error)
	Decide(ctx context.Context, officerID, requestID int64, action domain.Action) (domain.Status, error)
	ListForOfficer(ctx context.Context, officerID int64, filter string) ([]domain.OfficerRequest, error)
	ListForCitizen(ctx context.Context, citizenID int64) ([]domain.ServiceRequest, error)
	ViewForOfficer(ctx context.Context, officerID, requestID int64) (*domain.RequestDetail, error)
}

type UserInput struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Role         string `json:"role"`
	NationalID   string `json:"national_id"`
	DateOfBirth  string `json:"dob"`
	Contact      string `json:"contact"`
	DepartmentID *int64 `json:"department_id"`
	ServiceID    *int64 `json:"service_id"`
}

type AdminService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	AddUser(ctx context.Context, in UserInput) (*domain.User, error)
	EditUser(ctx context.Context, id int64, in UserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64) error

	ListServices(ctx context.Context) ([]domain.Service, error)
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	AddService(ctx context.Context, svc domain.Service) (*domain.Service, error)
	EditService(ctx context.Context, svc domain.Service) (*domain.Service, error)
	DeleteService(ctx context.Context, id int64) error
	ServicesForDepartment(ctx context.Context, departmentID int64) ([]domain.ServiceOption, error)

	ListDepartments(ctx context.Context) ([]domain.Department, error)
	GetDepartment(ctx context.Context, id int64) (*domain.Department, error)
	AddDepartment(ctx context.Context, dept domain.Department) (*domain.Department, error)
	EditDepartment(ctx context.Context, dept domain.Department) (*domain.Department, error)
	DeleteDepartment(ctx context.Context, id int64) error
}

type ReportService interface {
	Build(ctx context.Context) (*domain.Report, error)
	RenderPDF(report *domain.Report) ([]byte, error)
}
