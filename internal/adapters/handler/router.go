package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/egov-portal/portal-service/internal/adapters/middleware"
	"github.com/egov-portal/portal-service/internal/core/domain"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Health  *HealthHandler
	Auth    *AuthHandler
	Public  *PublicHandler
	Profile *ProfileHandler
	Citizen *CitizenHandler
	Officer *OfficerHandler
	Admin   *AdminHandler
}

func NewRouter(h Handlers, gate *middleware.AuthMiddleware, corsOrigins []string) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.PanicRecovery, middleware.Metrics, middleware.RequestLogger)

	// Public
	r.HandleFunc("/health", h.Health.Health).Methods(http.MethodGet)
	r.HandleFunc("/health/ready", h.Health.Ready).Methods(http.MethodGet)
	r.HandleFunc("/health/live", h.Health.Live).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	r.HandleFunc("/", h.Public.Home).Methods(http.MethodGet)
	r.HandleFunc("/services", h.Public.Services).Methods(http.MethodGet)
	r.Handle("/service/{id:[0-9]+}", gate.LoadSession(http.HandlerFunc(h.Public.ServiceEntry))).Methods(http.MethodGet)
	r.HandleFunc("/register", h.Auth.Register).Methods(http.MethodPost)
	r.HandleFunc("/login", h.Auth.Login).Methods(http.MethodPost)
	r.HandleFunc("/logout", h.Auth.Logout).Methods(http.MethodPost)

	// Any authenticated role
	anyRole := r.NewRoute().Subrouter()
	anyRole.Use(gate.RequireSession)
	anyRole.HandleFunc("/me", h.Auth.Me).Methods(http.MethodGet)
	anyRole.HandleFunc("/upload_profile", h.Profile.UploadProfilePicture).Methods(http.MethodPost)
	anyRole.HandleFunc("/uploads/{purpose}/{name}", h.Profile.ServeUpload).Methods(http.MethodGet)

	// Citizen
	citizen := r.NewRoute().Subrouter()
	citizen.Use(gate.RequireRole(domain.RoleCitizen))
	citizen.HandleFunc("/citizen_dashboard", h.Citizen.Dashboard).Methods(http.MethodGet)
	citizen.HandleFunc("/citizen/apply", h.Citizen.ApplyForm).Methods(http.MethodGet)
	citizen.HandleFunc("/citizen/apply", h.Citizen.Apply).Methods(http.MethodPost)
	citizen.HandleFunc("/citizen/pay/{id}", h.Citizen.PaymentForm).Methods(http.MethodGet)
	citizen.HandleFunc("/citizen/pay/{id}", h.Citizen.Pay).Methods(http.MethodPost)
	citizen.HandleFunc("/my_requests", h.Citizen.MyRequests).Methods(http.MethodGet)

	// Officer
	officer := r.NewRoute().Subrouter()
	officer.Use(gate.RequireRole(domain.RoleOfficer))
	officer.HandleFunc("/officer_dashboard", h.Officer.Dashboard).Methods(http.MethodGet)
	officer.HandleFunc("/officer/requests/{id}/view", h.Officer.View).Methods(http.MethodGet)
	officer.HandleFunc("/officer/requests/{id}/approve", h.Officer.Approve).Methods(http.MethodPost)
	officer.HandleFunc("/officer/requests/{id}/reject", h.Officer.Reject).Methods(http.MethodPost)
	officer.HandleFunc("/officer/requests/{status}", h.Officer.List).Methods(http.MethodGet)
	officer.HandleFunc("/officer_requests/{id}/{action}", h.Officer.Decide).Methods(http.MethodPost)

	// Admin
	admin := r.NewRoute().Subrouter()
	admin.Use(gate.RequireRole(domain.RoleAdmin))
	admin.HandleFunc("/admin_dashboard", h.Admin.Dashboard).Methods(http.MethodGet)

	admin.HandleFunc("/admin/users", h.Admin.ListUsers).Methods(http.MethodGet)
	admin.HandleFunc("/admin/users/add", h.Admin.AddUserForm).Methods(http.MethodGet)
	admin.HandleFunc("/admin/users/add", h.Admin.AddUser).Methods(http.MethodPost)
	admin.HandleFunc("/admin/users/edit/{id}", h.Admin.EditUserForm).Methods(http.MethodGet)
	admin.HandleFunc("/admin/users/edit/{id}", h.Admin.EditUser).Methods(http.MethodPost)
	admin.HandleFunc("/admin/users/delete/{id}", h.Admin.DeleteUser).Methods(http.MethodPost)

	admin.HandleFunc("/admin/services", h.Admin.ListServices).Methods(http.MethodGet)
	admin.HandleFunc("/admin/services/add", h.Admin.AddServiceForm).Methods(http.MethodGet)
	admin.HandleFunc("/admin/services/add", h.Admin.AddService).Methods(http.MethodPost)
	admin.HandleFunc("/admin/services/edit/{id}", h.Admin.EditServiceForm).Methods(http.MethodGet)
	admin.HandleFunc("/admin/services/edit/{id}", h.Admin.EditService).Methods(http.MethodPost)
	admin.HandleFunc("/admin/services/delete/{id}", h.Admin.DeleteService).Methods(http.MethodPost)
	admin.HandleFunc("/admin/getServices/{departmentId}", h.Admin.ServicesForDepartment).Methods(http.MethodGet)

	admin.HandleFunc("/admin/departments", h.Admin.ListDepartments).Methods(http.MethodGet)
	admin.HandleFunc("/admin/departments/add", h.Admin.AddDepartmentForm).Methods(http.MethodGet)
	admin.HandleFunc("/admin/departments/add", h.Admin.AddDepartment).Methods(http.MethodPost)
	admin.HandleFunc("/admin/departments/edit/{id}", h.Admin.EditDepartmentForm).Methods(http.MethodGet)
	admin.HandleFunc("/admin/departments/edit/{id}", h.Admin.EditDepartment).Methods(http.MethodPost)
	admin.HandleFunc("/admin/departments/delete/{id}", h.Admin.DeleteDepartment).Methods(http.MethodPost)

	admin.HandleFunc("/admin/reports", h.Admin.Report).Methods(http.MethodGet)
	admin.HandleFunc("/admin/reports/pdf", h.Admin.ReportPDF).Methods(http.MethodGet)

	return middleware.NewCORS(corsOrigins)(r)
}
