package entity

import (
	"time"

	"github.com/google/uuid"
)

// PasswordResetToken authorizes a single password change. It is issued
// after a successful password-reset OTP verification and invalidated on
// use or expiry.
type PasswordResetToken struct {
	BaseSimple
	UserID    uuid.UUID `db:"user_id"`
	Token     uuid.UUID `db:"token"`
	ExpiresAt time.Time `db:"expires_at"`
	Used      bool      `db:"used"`
}
