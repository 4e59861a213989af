package adaptor

import (
	"crypto/subtle"
	"net/http"
	"net/url"

	"health-predict/internal/usecase"
	"health-predict/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type OAuthHandler struct {
	oauth  usecase.OAuthService
	auth   usecase.AuthService
	config *utils.Config
	log    *zap.Logger
}

func NewOAuthHandler(oauth usecase.OAuthService, auth usecase.AuthService, config *utils.Config, log *zap.Logger) *OAuthHandler {
	return &OAuthHandler{
		oauth:  oauth,
		auth:   auth,
		config: config,
		log:    log,
	}
}

// Redirect handles GET /api/auth/{provider}. It stores a random state in
// a short-lived cookie and sends the browser to the provider.
func (h *OAuthHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")

	authURL, state, err := h.oauth.AuthorizationURL(provider)
	if err != nil {
		// Browser-initiated like the callback, so this answers with a
		// redirect rather than JSON
		h.log.Warn("OAuth redirect requested for unavailable provider",
			zap.Error(err), zap.String("provider", provider))
		h.redirectWithError(w, r, "provider_not_configured")
		return
	}

	setStateCookie(w, provider, state, h.config.App.Debug)

	http.Redirect(w, r, authURL, http.StatusFound)
}

// Callback handles GET /api/auth/{provider}/callback. Browser-initiated,
// so failures redirect back to the login page with an error hint instead
// of answering JSON.
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.log.Warn("OAuth callback returned an error",
			zap.String("provider", provider), zap.String("error", errParam))
		h.redirectWithError(w, r, "access_denied")
		return
	}

	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie(stateCookieName(provider))
	if err != nil || state == "" ||
		subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(state)) != 1 {
		h.log.Warn("OAuth state mismatch", zap.String("provider", provider))
		h.redirectWithError(w, r, "state_mismatch")
		return
	}

	clearStateCookie(w, provider, h.config.App.Debug)

	code := r.URL.Query().Get("code")
	if code == "" {
		h.redirectWithError(w, r, "missing_code")
		return
	}

	user, err := h.oauth.HandleCallback(r.Context(), provider, code)
	if err != nil {
		h.log.Error("OAuth callback failed",
			zap.Error(err), zap.String("provider", provider))
		h.redirectWithError(w, r, "oauth_failed")
		return
	}

	session, err := h.auth.CreateSession(r.Context(), user.ID)
	if err != nil {
		h.log.Error("Failed to create session after OAuth login",
			zap.Error(err), zap.String("user_id", user.ID.String()))
		h.redirectWithError(w, r, "session_failed")
		return
	}

	setSessionCookie(w, session.Token, session.ExpiresAt, h.config.App.Debug)

	http.Redirect(w, r, h.config.App.BaseURL()+"/", http.StatusFound)
}

func (h *OAuthHandler) redirectWithError(w http.ResponseWriter, r *http.Request, reason string) {
	target := h.config.App.BaseURL() + "/login?error=" + url.QueryEscape(reason)
	http.Redirect(w, r, target, http.StatusFound)
}
