package response

import (
	"time"

	"health-predict/internal/data/entity"
)

type AuthResponse struct {
	UserID        string          `json:"user_id"`
	Token         string          `json:"token"`
	ExpiresAt     time.Time       `json:"expires_at"`
	Email         string          `json:"email"`
	Role          entity.UserRole `json:"role"`
	EmailVerified bool            `json:"email_verified"`
	PhoneVerified bool            `json:"phone_verified"`
}

func AuthToResponse(user *entity.User, session *entity.Session) *AuthResponse {
	resp := &AuthResponse{
		UserID:        user.ID.String(),
		Email:         user.Email,
		Role:          user.Role,
		EmailVerified: user.EmailVerified,
		PhoneVerified: user.PhoneVerified,
	}

	if session != nil {
		resp.Token = session.Token
		resp.ExpiresAt = session.ExpiresAt
	}

	return resp
}
