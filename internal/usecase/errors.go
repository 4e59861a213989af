package usecase

import "errors"

// Sentinel errors handlers translate into HTTP statuses. Repository-level
// failures are wrapped separately and map to 500.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDeactivated = errors.New("account is deactivated")
	ErrEmailTaken         = errors.New("email already registered")
	ErrPhoneTaken         = errors.New("phone number already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrSessionNotFound    = errors.New("invalid or expired session")

	// ErrInvalidCode covers wrong, expired, and replayed codes, and also
	// unknown identifiers on the verification endpoints, so responses do
	// not reveal whether an account exists.
	ErrInvalidCode       = errors.New("invalid or expired code")
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
	ErrDeliveryFailed    = errors.New("failed to deliver verification code")

	ErrProviderNotConfigured = errors.New("oauth provider is not configured")
	ErrStateMismatch         = errors.New("oauth state mismatch")
)
