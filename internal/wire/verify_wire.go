package wire

import (
	"time"

	"health-predict/internal/adaptor"
	"health-predict/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

func wireVerify(
	r chi.Router,
	verifyHandler *adaptor.VerifyHandler,
	config *utils.Config,
) {
	// Per-IP, per-endpoint limit; these endpoints mint and consume codes
	// and must not be brute-forceable.
	limit := httprate.Limit(
		config.RateLimit.Requests,
		time.Duration(config.RateLimit.WindowSeconds)*time.Second,
		httprate.WithKeyFuncs(httprate.KeyByIP, httprate.KeyByEndpoint),
	)

	r.Group(func(r chi.Router) {
		r.Use(limit)

		r.Post("/api/send-verification-code", verifyHandler.SendCode)
		r.Post("/api/verify-otp", verifyHandler.VerifyOTP)
		r.Post("/api/verify-reset-token", verifyHandler.VerifyResetToken)
		r.Post("/api/reset-password", verifyHandler.ResetPassword)
	})
}
