package session

import (
	"time"

	"github.com/google/uuid"
)

// Session is a signed-in browser. The upstream API cookies are kept sealed; only
// the Service can open them.
type Session struct {
	ID            uuid.UUID
	Username      string
	SealedCookies []byte
	CreatedAt     time.Time
	ExpiresAt     time.Time
	LastSeenAt    time.Time
}

// Expired reports whether the session is past its lifetime at now
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Identity is the user the finance API reports for a session
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
}
