package adaptor

import (
	"net/http"

	"health-predict/internal/dto/request"
	"health-predict/internal/usecase"
	"health-predict/pkg/middleware"
	"health-predict/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	auth   usecase.AuthService
	config *utils.Config
	log    *zap.Logger
}

func NewAuthHandler(auth usecase.AuthService, config *utils.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		config: config,
		log:    log,
	}
}

// Register handles POST /api/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.auth.Register(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err)
		return
	}

	if resp.Token != "" {
		setSessionCookie(w, resp.Token, resp.ExpiresAt, h.config.App.Debug)
	}

	utils.ResponseCreated(w, "Registration successful", resp)
}

// Login handles POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.auth.Login(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err)
		return
	}

	setSessionCookie(w, resp.Token, resp.ExpiresAt, h.config.App.Debug)

	utils.ResponseSuccess(w, "Login successful", resp)
}

// Logout handles POST /api/logout. The endpoint is public: clearing
// an absent or already-dead session still succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.SessionToken(r)

	if err := h.auth.Logout(r.Context(), token); err != nil {
		handleServiceError(w, h.log, err)
		return
	}

	clearSessionCookie(w, h.config.App.Debug)

	utils.ResponseSuccess(w, "Logged out", nil)
}

// Refresh handles POST /api/session/refresh. It extends the current session
// and re-issues the cookie with the new expiry.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token, ok := utils.GetTokenFromContext(r.Context())
	if !ok || token == "" {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	expiresAt, err := h.auth.Refresh(r.Context(), token)
	if err != nil {
		handleServiceError(w, h.log, err)
		return
	}

	setSessionCookie(w, token, expiresAt, h.config.App.Debug)

	utils.ResponseSuccess(w, "Session refreshed", map[string]any{
		"expires_at": expiresAt,
	})
}
