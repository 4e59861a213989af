package response

import (
	"time"

	"health-predict/internal/data/entity"
)

type UserResponse struct {
	ID            string          `json:"id"`
	Name          *string         `json:"name,omitempty"`
	Email         string          `json:"email"`
	Phone         *string         `json:"phone,omitempty"`
	Role          entity.UserRole `json:"role"`
	EmailVerified bool            `json:"email_verified"`
	PhoneVerified bool            `json:"phone_verified"`
	Provider      *string         `json:"provider,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:            user.ID.String(),
		Name:          user.Name,
		Email:         user.Email,
		Phone:         user.Phone,
		Role:          user.Role,
		EmailVerified: user.EmailVerified,
		PhoneVerified: user.PhoneVerified,
		Provider:      user.Provider,
		CreatedAt:     user.CreatedAt,
	}
}
