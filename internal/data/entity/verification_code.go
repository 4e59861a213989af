package entity

import (
	"time"

	"github.com/google/uuid"
)

type CodePurpose string

const (
	PurposeEmailVerification CodePurpose = "email_verification"
	PurposePhoneVerification CodePurpose = "phone_verification"
	PurposePasswordReset     CodePurpose = "password_reset"
)

// VerificationCode is a one-time numeric code. At most one unused code per
// purpose exists for a user; consumption is a conditional update so a code
// can never validate twice.
type VerificationCode struct {
	BaseSimple
	UserID    uuid.UUID   `db:"user_id"`
	Code      string      `db:"code"`
	Purpose   CodePurpose `db:"purpose"`
	ExpiresAt time.Time   `db:"expires_at"`
	Used      bool        `db:"used"`
}
