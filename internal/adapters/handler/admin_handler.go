package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/egov-portal/portal-service/internal/core/domain"
	"github.com/egov-portal/portal-service/internal/core/ports"
)

type AdminHandler struct {
	admin    ports.AdminService
	profiles ports.ProfileService
	reports  ports.ReportService
}

func NewAdminHandler(admin ports.AdminService, profiles ports.ProfileService, reports ports.ReportService) *AdminHandler {
	return &AdminHandler{admin: admin, profiles: profiles, reports: reports}
}

// UserFormResponse carries what the add/edit user form needs to render.
type UserFormResponse struct {
	User        *domain.User        `json:"user,omitempty"`
	Roles       []domain.Role       `json:"roles"`
	Departments []domain.Department `json:"departments"`
}

type ServiceFormResponse struct {
	Service     *domain.Service     `json:"service,omitempty"`
	Departments []domain.Department `json:"departments"`
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	admin, err := h.profiles.AdminDashboard(r.Context(), sess.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, admin)
}

// Users

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) userForm(w http.ResponseWriter, r *http.Request, user *domain.User) {
	departments, err := h.admin.ListDepartments(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, UserFormResponse{
		User:        user,
		Roles:       []domain.Role{domain.RoleCitizen, domain.RoleOfficer, domain.RoleAdmin},
		Departments: departments,
	})
}

func (h *AdminHandler) AddUserForm(w http.ResponseWriter, r *http.Request) {
	h.userForm(w, r, nil)
}

func (h *AdminHandler) AddUser(w http.ResponseWriter, r *http.Request) {
	var in ports.UserInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.admin.AddUser(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *AdminHandler) EditUserForm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.admin.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.userForm(w, r, user)
}

func (h *AdminHandler) EditUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in ports.UserInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.admin.EditUser(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.admin.DeleteUser(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "User deleted"})
}

// Services

func (h *AdminHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.admin.ListServices(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, services)
}

func (h *AdminHandler) serviceForm(w http.ResponseWriter, r *http.Request, svc *domain.Service) {
	departments, err := h.admin.ListDepartments(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ServiceFormResponse{Service: svc, Departments: departments})
}

func (h *AdminHandler) AddServiceForm(w http.ResponseWriter, r *http.Request) {
	h.serviceForm(w, r, nil)
}

func (h *AdminHandler) AddService(w http.ResponseWriter, r *http.Request) {
	var svc domain.Service
	if err := decodeJSON(r, &svc); err != nil {
		writeError(w, r, err)
		return
	}
	svc.ID = 0
	created, err := h.admin.AddService(r.Context(), svc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *AdminHandler) EditServiceForm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	svc, err := h.admin.GetService(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.serviceForm(w, r, svc)
}

func (h *AdminHandler) EditService(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var svc domain.Service
	if err := decodeJSON(r, &svc); err != nil {
		writeError(w, r, err)
		return
	}
	svc.ID = id
	updated, err := h.admin.EditService(r.Context(), svc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *AdminHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.admin.DeleteService(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Service deleted"})
}

func (h *AdminHandler) ServicesForDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "departmentId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	options, err := h.admin.ServicesForDepartment(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, options)
}

// Departments

func (h *AdminHandler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.admin.ListDepartments(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, departments)
}

func (h *AdminHandler) AddDepartmentForm(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.Department{})
}

func (h *AdminHandler) AddDepartment(w http.ResponseWriter, r *http.Request) {
	var dept domain.Department
	if err := decodeJSON(r, &dept); err != nil {
		writeError(w, r, err)
		return
	}
	dept.ID = 0
	created, err := h.admin.AddDepartment(r.Context(), dept)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *AdminHandler) EditDepartmentForm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	dept, err := h.admin.GetDepartment(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dept)
}

func (h *AdminHandler) EditDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var dept domain.Department
	if err := decodeJSON(r, &dept); err != nil {
		writeError(w, r, err)
		return
	}
	dept.ID = id
	updated, err := h.admin.EditDepartment(r.Context(), dept)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *AdminHandler) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.admin.DeleteDepartment(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Department deleted"})
}

// Reports

func (h *AdminHandler) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.Build(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *AdminHandler) ReportPDF(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.Build(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	pdf, err := h.reports.RenderPDF(report)
	if err != nil {
		writeError(w, r, err)
		return
	}

	name := "activity-report-" + report.GeneratedAt.Format("20060102-150405") + ".pdf"
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		logrus.WithError(err).Warn("failed to write report pdf")
	}
	logrus.WithFields(logrus.Fields{"component": "admin", "bytes": len(pdf)}).Info("activity report exported")
}
