package handler

import (
	"net/http"

	"github.com/egov-portal/portal-service/internal/core/domain"
	"github.com/egov-portal/portal-service/internal/core/ports"
)

type CitizenHandler struct {
	lifecycle ports.LifecycleService
	profiles  ports.ProfileService
}

func NewCitizenHandler(lifecycle ports.LifecycleService, profiles ports.ProfileService) *CitizenHandler {
	return &CitizenHandler{lifecycle: lifecycle, profiles: profiles}
}

type ApplyFormResponse struct {
	Services          []domain.Service `json:"services"`
	SelectedServiceID string           `json:"selected_service_id,omitempty"`
}

type PaymentResponse struct {
	Message string        `json:"message"`
	Status  domain.Status `json:"status"`
}

func (h *CitizenHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	dash, err := h.profiles.CitizenDashboard(r.Context(), sess.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

func (h *CitizenHandler) ApplyForm(w http.ResponseWriter, r *http.Request) {
	services, err := h.lifecycle.AvailableServices(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ApplyFormResponse{
		Services:          services,
		SelectedServiceID: r.URL.Query().Get("service_id"),
	})
}

func (h *CitizenHandler) Apply(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	if err := parseForm(r); err != nil {
		writeError(w, r, err)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	serviceID, err := formInt(r, "service_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	doc, closer, err := formUpload(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer closeUpload(closer)

	req, err := h.lifecycle.Create(r.Context(), ports.CreateRequestInput{
		CitizenID:   sess.UserID,
		ServiceID:   serviceID,
		Description: r.FormValue("description"),
		Document:    doc,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (h *CitizenHandler) PaymentForm(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	form, err := h.lifecycle.PaymentForm(r.Context(), sess.UserID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

func (h *CitizenHandler) Pay(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := parseForm(r); err != nil {
		writeError(w, r, err)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	proof, closer, err := formUpload(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer closeUpload(closer)

	status, err := h.lifecycle.SubmitPayment(r.Context(), sess.UserID, id, proof)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, PaymentResponse{Message: "Payment submitted", Status: status})
}

func (h *CitizenHandler) MyRequests(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	requests, err := h.lifecycle.ListForCitizen(r.Context(), sess.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}
