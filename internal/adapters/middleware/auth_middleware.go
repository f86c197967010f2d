package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/egov-portal/portal-service/internal/core/domain"
	"github.com/egov-portal/portal-service/internal/core/ports"
)

// SessionCookie extracts and clears the session cookie.
type SessionCookie interface {
	Read(r *http.Request) (string, error)
	Clear(w http.ResponseWriter)
}

// AuthMiddleware gates routes on the server-side session named by the
// request cookie.
type AuthMiddleware struct {
	cookies  SessionCookie
	sessions ports.SessionStore
}

func NewAuthMiddleware(cookies SessionCookie, sessions ports.SessionStore) *AuthMiddleware {
	return &AuthMiddleware{cookies: cookies, sessions: sessions}
}

type contextKey string

const sessionKey contextKey = "session"

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// SessionFromContext returns the session attached by the gate.
func SessionFromContext(ctx context.Context) (*domain.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*domain.Session)
	return s, ok && s != nil
}

func (m *AuthMiddleware) load(r *http.Request) (*domain.Session, error) {
	id, err := m.cookies.Read(r)
	if err != nil {
		return nil, err
	}
	sess, err := m.sessions.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if sess.UserID == 0 || !sess.Role.Valid() {
		return nil, domain.ErrSessionExpired
	}
	return sess, nil
}

func (m *AuthMiddleware) reject(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		m.cookies.Clear(w)
		writeError(w, http.StatusUnauthorized, "session_expired")
	default:
		logrus.WithFields(logrus.Fields{
			"component": "auth",
			"path":      r.URL.Path,
		}).WithError(err).Error("session lookup failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// RequireSession admits any authenticated user.
func (m *AuthMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.load(r)
		if err != nil {
			m.reject(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
	})
}

// RequireRole admits only sessions whose stored role equals role.
func (m *AuthMiddleware) RequireRole(role domain.Role) func(http.Handler) http.Handler {
	if !role.Valid() {
		panic(fmt.Sprintf("middleware: RequireRole called with invalid role %s", role))
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := m.load(r)
			if err != nil {
				m.reject(w, r, err)
				return
			}
			if sess.Role != role {
				logrus.WithFields(logrus.Fields{
					"component": "auth",
					"user_id":   sess.UserID,
					"role":      sess.Role.String(),
					"required":  role.String(),
				}).Debug("role mismatch")
				writeError(w, http.StatusForbidden, "access_denied")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}

// LoadSession attaches the session when one is present and lets anonymous
// requests through.
func (m *AuthMiddleware) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sess, err := m.load(r); err == nil {
			r = r.WithContext(WithSession(r.Context(), sess))
		}
		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
