package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/egov-portal/portal-service/internal/adapters/middleware"
	"github.com/egov-portal/portal-service/internal/adapters/session"
	"github.com/egov-portal/portal-service/internal/core/domain"
	"github.com/egov-portal/portal-service/internal/mocks"
)

type gateFixture struct {
	gate     *middleware.AuthMiddleware
	codec    *session.CookieCodec
	sessions *mocks.MockSessionStore
}

func newGateFixture() *gateFixture {
	codec := session.NewCookieCodec("egov_session", []byte("test-secret"), false)
	sessions := mocks.NewMockSessionStore()
	return &gateFixture{gate: middleware.NewAuthMiddleware(codec, sessions), codec: codec, sessions: sessions}
}

// login stores a session for role and returns the cookie a browser would send.
func (f *gateFixture) login(t *testing.T, userID int64, role domain.Role) *http.Cookie {
	t.Helper()
	now := time.Now()
	sess := domain.Session{ID: "sess-" + role.String(), UserID: userID, Role: role, IssuedAt: now, ExpiresAt: now.Add(time.Hour)}
	if err := f.sessions.Set(context.Background(), sess); err != nil {
		t.Fatalf("store session: %v", err)
	}
	rec := httptest.NewRecorder()
	if err := f.codec.Write(rec, sess); err != nil {
		t.Fatalf("write cookie: %v", err)
	}
	return rec.Result().Cookies()[0]
}

func protectedHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		sess, ok := middleware.SessionFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.Header().Set("X-User", sess.Role.String())
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		role       domain.Role
		cookieRole domain.Role
		setup      func(f *gateFixture)
		wantStatus int
		wantError  string
	}{
		{name: "matching_role_admitted", role: domain.RoleCitizen, cookieRole: domain.RoleCitizen, wantStatus: http.StatusOK},
		{name: "officer_on_citizen_route", role: domain.RoleCitizen, cookieRole: domain.RoleOfficer, wantStatus: http.StatusForbidden, wantError: "access_denied"},
		{name: "citizen_on_admin_route", role: domain.RoleAdmin, cookieRole: domain.RoleCitizen, wantStatus: http.StatusForbidden, wantError: "access_denied"},
		{name: "anonymous", role: domain.RoleOfficer, wantStatus: http.StatusUnauthorized, wantError: "session_expired"},
		{
			name: "session_gone_from_store", role: domain.RoleAdmin, cookieRole: domain.RoleAdmin,
			setup:      func(f *gateFixture) { _ = f.sessions.Destroy(context.Background(), "sess-admin") },
			wantStatus: http.StatusUnauthorized, wantError: "session_expired",
		},
		{
			name: "store_unavailable", role: domain.RoleAdmin, cookieRole: domain.RoleAdmin,
			setup:      func(f *gateFixture) { f.sessions.GetError = domain.ErrStorage },
			wantStatus: http.StatusInternalServerError, wantError: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGateFixture()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.cookieRole != 0 {
				req.AddCookie(f.login(t, 7, tt.cookieRole))
			}
			if tt.setup != nil {
				tt.setup(f)
			}

			var called bool
			rec := httptest.NewRecorder()
			f.gate.RequireRole(tt.role)(protectedHandler(&called)).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantError == "" {
				if !called || rec.Header().Get("X-User") != tt.role.String() {
					t.Errorf("expected handler to run with session attached")
				}
				return
			}
			if called {
				t.Errorf("expected handler not to be invoked")
			}
			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body["error"] != tt.wantError {
				t.Errorf("expected error %q, got %q", tt.wantError, body["error"])
			}
		})
	}
}

func TestRequireRole_PanicsOnInvalidRole(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic for invalid role")
		}
	}()
	newGateFixture().gate.RequireRole(domain.Role(0))
}

func TestRequireSession(t *testing.T) {
	f := newGateFixture()

	for _, role := range []domain.Role{domain.RoleCitizen, domain.RoleOfficer, domain.RoleAdmin} {
		t.Run(role.String(), func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			req.AddCookie(f.login(t, 1, role))

			var called bool
			rec := httptest.NewRecorder()
			f.gate.RequireSession(protectedHandler(&called)).ServeHTTP(rec, req)

			if rec.Code != http.StatusOK || !called {
				t.Errorf("expected %s to be admitted, got %d", role, rec.Code)
			}
		})
	}

	t.Run("forged_cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "egov_session", Value: "not-a-token"})

		var called bool
		rec := httptest.NewRecorder()
		f.gate.RequireSession(protectedHandler(&called)).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized || called {
			t.Errorf("expected 401 without invoking handler, got %d", rec.Code)
		}
		if c := rec.Result().Cookies(); len(c) != 1 || c[0].MaxAge != -1 {
			t.Errorf("expected the stale cookie to be cleared")
		}
	})
}

func TestLoadSession(t *testing.T) {
	f := newGateFixture()

	t.Run("anonymous_passes_through", func(t *testing.T) {
		var called bool
		rec := httptest.NewRecorder()
		f.gate.LoadSession(protectedHandler(&called)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/service/1", nil))

		if !called || rec.Code != http.StatusTeapot {
			t.Errorf("expected handler without session, got %d", rec.Code)
		}
	})

	t.Run("session_attached", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/service/1", nil)
		req.AddCookie(f.login(t, 3, domain.RoleCitizen))

		var called bool
		rec := httptest.NewRecorder()
		f.gate.LoadSession(protectedHandler(&called)).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected session to be attached, got %d", rec.Code)
		}
	})
}
