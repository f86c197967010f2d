package handler

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/egov-portal/portal-service/internal/adapters/middleware"
	"github.com/egov-portal/portal-service/internal/core/domain"
	"github.com/egov-portal/portal-service/internal/core/ports"
)

type PublicHandler struct {
	lifecycle ports.LifecycleService
}

func NewPublicHandler(lifecycle ports.LifecycleService) *PublicHandler {
	return &PublicHandler{lifecycle: lifecycle}
}

type HomeResponse struct {
	Name     string `json:"name"`
	Services string `json:"services"`
	Login    string `json:"login"`
	Register string `json:"register"`
}

func (h *PublicHandler) Home(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HomeResponse{
		Name:     "e-Government Portal",
		Services: "/services",
		Login:    "/login",
		Register: "/register",
	})
}

func (h *PublicHandler) Services(w http.ResponseWriter, r *http.Request) {
	services, err := h.lifecycle.AvailableServices(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, services)
}

// ServiceEntry sends citizens straight to the application form and everybody
// else to the login page.
func (h *PublicHandler) ServiceEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if sess, ok := middleware.SessionFromContext(r.Context()); ok && sess.Role == domain.RoleCitizen {
		http.Redirect(w, r, fmt.Sprintf("/citizen/apply?service_id=%d", id), http.StatusSeeOther)
		return
	}
	next := url.QueryEscape(fmt.Sprintf("/service/%d", id))
	http.Redirect(w, r, "/login?next="+next, http.StatusSeeOther)
}
