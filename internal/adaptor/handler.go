package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"health-predict/internal/usecase"
	"health-predict/pkg/utils"

	"go.uber.org/zap"
)

// Handler bundles the HTTP handlers for wiring.
type Handler struct {
	Auth    *AuthHandler
	Verify  *VerifyHandler
	OAuth   *OAuthHandler
	Account *AccountHandler
}

func NewHandler(service *usecase.Service, config *utils.Config, logger *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.Auth, config, logger),
		Verify:  NewVerifyHandler(service.Verify, logger),
		OAuth:   NewOAuthHandler(service.OAuth, service.Auth, config, logger),
		Account: NewAccountHandler(service.Account, logger),
	}
}

// decodeAndValidate decodes the JSON body into req and validates it.
// It writes the error response itself and reports whether to continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", errs)
		return false
	}

	return true
}

// handleServiceError maps service sentinels to HTTP statuses. Anything
// unmatched is a 500 and the detail stays in the log, not the response.
func handleServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidCredentials):
		utils.ResponseUnauthorized(w, "Invalid email or password")
	case errors.Is(err, usecase.ErrAccountDeactivated):
		utils.ResponseForbidden(w, "Account is deactivated")
	case errors.Is(err, usecase.ErrEmailTaken):
		utils.ResponseBadRequest(w, "Email already registered", nil)
	case errors.Is(err, usecase.ErrPhoneTaken):
		utils.ResponseBadRequest(w, "Phone number already registered", nil)
	case errors.Is(err, usecase.ErrUserNotFound):
		utils.ResponseNotFound(w, "User not found")
	case errors.Is(err, usecase.ErrSessionNotFound):
		utils.ResponseUnauthorized(w, "Invalid or expired session")
	case errors.Is(err, usecase.ErrInvalidCode):
		utils.ResponseBadRequest(w, "Invalid or expired code", nil)
	case errors.Is(err, usecase.ErrInvalidResetToken):
		utils.ResponseBadRequest(w, "Invalid or expired reset token", nil)
	case errors.Is(err, usecase.ErrDeliveryFailed):
		utils.ResponseInternalError(w, "Failed to deliver verification code")
	default:
		logger.Error("Unhandled service error", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
