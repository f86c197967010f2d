package handler

import (
	"net/http"
	"time"

	"github.com/egov-portal/portal-service/internal/core/domain"
	"github.com/egov-portal/portal-service/internal/core/ports"
)

// CookieWriter issues, reads and clears the session cookie.
type CookieWriter interface {
	Write(w http.ResponseWriter, sess domain.Session) error
	Read(r *http.Request) (string, error)
	Clear(w http.ResponseWriter)
}

type AuthHandler struct {
	auth    ports.AuthService
	cookies CookieWriter
}

func NewAuthHandler(auth ports.AuthService, cookies CookieWriter) *AuthHandler {
	return &AuthHandler{auth: auth, cookies: cookies}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message  string      `json:"message"`
	Role     domain.Role `json:"role"`
	Redirect string      `json:"redirect"`
}

type RegistrationResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

type MeResponse struct {
	UserID    int64       `json:"user_id"`
	Role      domain.Role `json:"role"`
	ExpiresAt time.Time   `json:"expires_at"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req ports.RegisterInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.auth.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, RegistrationResponse{Message: "Registration successful", User: user})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	sess, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.cookies.Write(w, *sess); err != nil {
		_ = h.auth.Logout(r.Context(), sess.ID)
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Message:  "Login successful",
		Role:     sess.Role,
		Redirect: sess.Role.DashboardPath(),
	})
}

// Logout always clears the cookie; a missing or stale session is not an error.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if id, err := h.cookies.Read(r); err == nil {
		if err := h.auth.Logout(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
	}
	h.cookies.Clear(w)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, MeResponse{UserID: sess.UserID, Role: sess.Role, ExpiresAt: sess.ExpiresAt})
}
