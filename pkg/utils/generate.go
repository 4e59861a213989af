package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// ==================== SESSION & STATE TOKENS ====================

// GenerateSessionToken returns a 32-byte cryptographically random token,
// hex-encoded to 64 characters.
func GenerateSessionToken() (string, error) {
	return randomHex(32)
}

// GenerateStateToken returns the random nonce used as the OAuth state
// parameter.
func GenerateStateToken() (string, error) {
	return randomHex(16)
}

func randomHex(bytes int) (string, error) {
	buf := make([]byte, bytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// ==================== OTP ====================

// GenerateOTP creates a numeric one-time code of the given length.
func GenerateOTP(length int) (string, error) {
	if length <= 0 {
		length = 6
	}

	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("read random digit: %w", err)
		}
		digits[i] = byte('0' + n.Int64())
	}

	return string(digits), nil
}

// ==================== RESET TOKENS ====================

// GenerateResetToken returns the single-use password reset token.
func GenerateResetToken() uuid.UUID {
	return uuid.New()
}

func ParseUUID(uuidStr string) (uuid.UUID, error) {
	return uuid.Parse(uuidStr)
}
