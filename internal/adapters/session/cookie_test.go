package session

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/egov-portal/portal-service/internal/core/domain"
)

func roundTrip(t *testing.T, writer, reader *CookieCodec, sess domain.Session) (string, error) {
	t.Helper()

	rec := httptest.NewRecorder()
	if err := writer.Write(rec, sess); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return reader.Read(req)
}

func TestCookieCodec_RoundTrip(t *testing.T) {
	codec := NewCookieCodec("egov_session", []byte("secret"), false)
	sess := newTestSession(time.Now())

	id, err := roundTrip(t, codec, codec, sess)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != sess.ID {
		t.Errorf("expected id %q, got %q", sess.ID, id)
	}
}

func TestCookieCodec_Attributes(t *testing.T) {
	codec := NewCookieCodec("egov_session", []byte("secret"), true)
	rec := httptest.NewRecorder()

	if err := codec.Write(rec, newTestSession(time.Now())); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if !c.HttpOnly || !c.Secure || c.SameSite != http.SameSiteLaxMode || c.Path != "/" {
		t.Errorf("unexpected cookie attributes: %+v", c)
	}
	if c.MaxAge != 3600 {
		t.Errorf("expected max-age 3600, got %d", c.MaxAge)
	}
}

func TestCookieCodec_RejectsForgedCookie(t *testing.T) {
	forger := NewCookieCodec("egov_session", []byte("other-secret"), false)
	codec := NewCookieCodec("egov_session", []byte("secret"), false)

	_, err := roundTrip(t, forger, codec, newTestSession(time.Now()))
	if !errors.Is(err, domain.ErrSessionExpired) {
		t.Errorf("expected session expired, got %v", err)
	}
}

func TestCookieCodec_RejectsExpiredCookie(t *testing.T) {
	issued := time.Now().Add(-2 * time.Hour)
	codec := NewCookieCodec("egov_session", []byte("secret"), false)

	_, err := roundTrip(t, codec, codec, newTestSession(issued))
	if !errors.Is(err, domain.ErrSessionExpired) {
		t.Errorf("expected session expired, got %v", err)
	}
}

func TestCookieCodec_MissingCookie(t *testing.T) {
	codec := NewCookieCodec("egov_session", []byte("secret"), false)

	_, err := codec.Read(httptest.NewRequest(http.MethodGet, "/", nil))
	if !errors.Is(err, domain.ErrSessionExpired) {
		t.Errorf("expected session expired, got %v", err)
	}
}

func TestCookieCodec_Clear(t *testing.T) {
	codec := NewCookieCodec("egov_session", []byte("secret"), false)
	rec := httptest.NewRecorder()

	codec.Clear(rec)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Errorf("expected an expiring cookie, got %+v", cookies)
	}
}
