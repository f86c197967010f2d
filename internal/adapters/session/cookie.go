package session

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/egov-portal/portal-service/internal/core/domain"
)

// CookieCodec carries the opaque session id in an HS256-signed cookie so a
// forged id is rejected before Redis is consulted.
type CookieCodec struct {
	name   string
	secret []byte
	secure bool
	now    func() time.Time
}

func NewCookieCodec(name string, secret []byte, secure bool) *CookieCodec {
	return &CookieCodec{name: name, secret: secret, secure: secure, now: time.Now}
}

func (c *CookieCodec) Name() string {
	return c.name
}

func (c *CookieCodec) Write(w http.ResponseWriter, sess domain.Session) error {
	claims := jwt.RegisteredClaims{
		ID:        sess.ID,
		IssuedAt:  jwt.NewNumericDate(sess.IssuedAt),
		ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		MaxAge:   int(sess.ExpiresAt.Sub(sess.IssuedAt).Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Read returns the session id carried by the request cookie, or
// domain.ErrSessionExpired when the cookie is absent, tampered or expired.
func (c *CookieCodec) Read(r *http.Request) (string, error) {
	cookie, err := r.Cookie(c.name)
	if err != nil || cookie.Value == "" {
		return "", domain.ErrSessionExpired
	}

	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(cookie.Value, &claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(c.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid || claims.ID == "" {
		return "", domain.ErrSessionExpired
	}
	return claims.ID, nil
}

func (c *CookieCodec) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
