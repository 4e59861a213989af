package wire

import (
	"health-predict/internal/adaptor"
	"health-predict/internal/data/repository"
	"health-predict/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAccount(
	r chi.Router,
	accountHandler *adaptor.AccountHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	auth := middleware.AuthSession(repo, log)

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(auth)

		r.Get("/api/user/profile", accountHandler.GetProfile)
		r.Put("/api/user/profile", accountHandler.UpdateProfile)
	})

	// ==================== ADMIN ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(auth)
		r.Use(middleware.Admin(repo.User, log))

		r.Get("/api/admin/users", accountHandler.GetAllUsers)
		r.Delete("/api/admin/users/{id}", accountHandler.DeleteUser)
	})
}
