package ports

import (
	"context"

	"github.com/egov-portal/portal-service/internal/core/domain"
)

// SessionStore keeps server-side sessions keyed by their opaque id.
// Get returns domain.ErrSessionExpired when the id is unknown or expired.
type SessionStore interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
	Set(ctx context.Context, session domain.Session) error
	Destroy(ctx context.Context, id string) error
	// DestroyUser revokes every live session of the user.
	DestroyUser(ctx context.Context, userID int64) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}
