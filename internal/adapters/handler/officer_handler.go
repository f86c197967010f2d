package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/egov-portal/portal-service/internal/core/domain"
	"github.com/egov-portal/portal-service/internal/core/ports"
)

type OfficerHandler struct {
	lifecycle ports.LifecycleService
	profiles  ports.ProfileService
}

func NewOfficerHandler(lifecycle ports.LifecycleService, profiles ports.ProfileService) *OfficerHandler {
	return &OfficerHandler{lifecycle: lifecycle, profiles: profiles}
}

type DecisionResponse struct {
	Message string        `json:"message"`
	Status  domain.Status `json:"status"`
}

func (h *OfficerHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	profile, err := h.profiles.OfficerDashboard(r.Context(), sess.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *OfficerHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	requests, err := h.lifecycle.ListForOfficer(r.Context(), sess.UserID, mux.Vars(r)["status"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

func (h *OfficerHandler) View(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	detail, err := h.lifecycle.ViewForOfficer(r.Context(), sess.UserID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *OfficerHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, domain.ActionApprove)
}

func (h *OfficerHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, domain.ActionReject)
}

// Decide serves the combined /officer_requests/{id}/{action} route; only the
// officer outcomes are accepted.
func (h *OfficerHandler) Decide(w http.ResponseWriter, r *http.Request) {
	action, err := domain.ParseDecision(mux.Vars(r)["action"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.decide(w, r, action)
}

func (h *OfficerHandler) decide(w http.ResponseWriter, r *http.Request, action domain.Action) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	status, err := h.lifecycle.Decide(r.Context(), sess.UserID, id, action)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DecisionResponse{Message: "Request " + string(status), Status: status})
}
