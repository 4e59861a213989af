package usecase

import (
	"health-predict/internal/data/repository"
	"health-predict/internal/notify"
	"health-predict/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth    AuthService
	Verify  VerificationService
	OAuth   OAuthService
	Account AccountService
}

func NewService(repo *repository.Repository, notifier *notify.Notifier, config *utils.Config, log *zap.Logger) *Service {
	verify := NewVerificationService(repo, notifier, config, log)

	return &Service{
		Auth:    NewAuthService(repo, verify, config, log),
		Verify:  verify,
		OAuth:   NewOAuthService(repo, config, log),
		Account: NewAccountService(repo.User, log),
	}
}
