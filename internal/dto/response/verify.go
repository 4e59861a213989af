package response

import "time"

// VerifyResult reports a successful code verification. ResetToken is set
// only for the password-reset purpose.
type VerifyResult struct {
	Verified   bool       `json:"verified"`
	ResetToken string     `json:"reset_token,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

type ResetTokenValidation struct {
	Valid  bool   `json:"valid"`
	UserID string `json:"user_id,omitempty"`
}
