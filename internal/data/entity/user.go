package entity

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type User struct {
	Base
	Name          *string  `db:"name"`
	Email         string   `db:"email"`
	PasswordHash  string   `db:"password"`
	Phone         *string  `db:"phone"`
	Role          UserRole `db:"role"`
	EmailVerified bool     `db:"email_verified"`
	PhoneVerified bool     `db:"phone_verified"`
	IsActive      bool     `db:"is_active"`
	// Provider identity, set for accounts created through OAuth.
	Provider   *string `db:"provider"`
	ProviderID *string `db:"provider_id"`
}
