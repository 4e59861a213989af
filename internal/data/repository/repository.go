package repository

import (
	"health-predict/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User               UserRepository
	Session            SessionRepository
	VerificationCode   VerificationCodeRepository
	PasswordResetToken PasswordResetTokenRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:               NewUserRepository(db, log),
		Session:            NewSessionRepository(db, log),
		VerificationCode:   NewVerificationCodeRepository(db, log),
		PasswordResetToken: NewPasswordResetTokenRepository(db, log),
	}
}
