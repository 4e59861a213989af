package wire

import (
	"health-predict/internal/adaptor"
	"health-predict/internal/data/repository"
	"health-predict/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Post("/api/register", authHandler.Register)
	r.Post("/api/login", authHandler.Login)

	// Logout is public: clearing a dead session must still succeed
	r.Post("/api/logout", authHandler.Logout)

	// ==================== PROTECTED ROUTES ====================
	r.With(middleware.AuthSession(repo, log)).Post("/api/session/refresh", authHandler.Refresh)
}
