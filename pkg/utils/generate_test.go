package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSessionToken(t *testing.T) {
	token, err := GenerateSessionToken()
	require.NoError(t, err)

	// 32 random bytes, hex encoded
	assert.Len(t, token, 64)

	token2, err := GenerateSessionToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, token2)
}

func TestGenerateStateToken(t *testing.T) {
	state, err := GenerateStateToken()
	require.NoError(t, err)

	assert.Len(t, state, 32)

	state2, err := GenerateStateToken()
	require.NoError(t, err)
	assert.NotEqual(t, state, state2)
}

func TestGenerateOTP(t *testing.T) {
	otp, err := GenerateOTP(6)
	require.NoError(t, err)

	require.Len(t, otp, 6)
	for _, c := range otp {
		assert.True(t, c >= '0' && c <= '9', "OTP must be digits only, got %q", otp)
	}
}

func TestGenerateOTP_CustomLength(t *testing.T) {
	otp, err := GenerateOTP(8)
	require.NoError(t, err)
	assert.Len(t, otp, 8)

	// A non-positive length falls back to the standard six digits
	otp, err = GenerateOTP(0)
	require.NoError(t, err)
	assert.Len(t, otp, 6)
}

func TestGenerateResetToken(t *testing.T) {
	token := GenerateResetToken()

	assert.NotEqual(t, uuid.Nil, token)
	assert.NotEqual(t, token, GenerateResetToken())
}
