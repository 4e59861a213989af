package wire

import (
	"health-predict/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireOAuth(
	r chi.Router,
	oauthHandler *adaptor.OAuthHandler,
) {
	// Browser-driven flows; both legs are public
	r.Get("/api/auth/{provider}", oauthHandler.Redirect)
	r.Get("/api/auth/{provider}/callback", oauthHandler.Callback)
}
