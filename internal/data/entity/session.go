package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is an opaque bearer credential mapped server-side to a user.
// A session is valid while it is neither revoked nor past its expiry;
// expiry is checked lazily at lookup time.
type Session struct {
	BaseSimple
	UserID    uuid.UUID  `db:"user_id"`
	Token     string     `db:"token"`
	UserAgent *string    `db:"user_agent"`
	IPAddress *string    `db:"ip_address"`
	ExpiresAt time.Time  `db:"expires_at"`
	RevokedAt *time.Time `db:"revoked_at"`
}
