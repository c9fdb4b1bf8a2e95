package session

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Repository persists sessions
type Repository interface {
	// Create stores a new session
	Create(ctx context.Context, s *Session) error

	// GetByID returns ErrSessionNotFound when the session does not exist
	GetByID(ctx context.Context, id uuid.UUID) (*Session, error)

	// Touch records activity on a session
	Touch(ctx context.Context, id uuid.UUID, at time.Time) error

	// Delete removes a session; deleting a missing session is not an error
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteExpired removes every session expired at now and returns how many went
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Gateway is the finance API's authentication surface. Calls other than Login read
// the upstream cookies from ctx.
type Gateway interface {
	// Login exchanges credentials for the upstream session cookies.
	// Rejected credentials are reported as ErrInvalidCredentials.
	Login(ctx context.Context, username, password string) (*Identity, []*http.Cookie, error)

	// Me is the session probe
	Me(ctx context.Context) (*Identity, error)

	Logout(ctx context.Context) error
}
