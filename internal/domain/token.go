package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuthToken is the decoded form of a session-scoped authentication token.
// The wire form is a signed JWT; see internal/token.
type AuthToken struct {
	DemoGUID  string
	UserID    uuid.UUID
	ERPToken  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func (t *AuthToken) Expired() bool {
	return time.Now().After(t.ExpiresAt)
}
