package adaptor

import (
	"errors"
	"net/http"

	"health-predict/internal/dto/request"
	"health-predict/internal/dto/response"
	"health-predict/internal/usecase"
	"health-predict/pkg/utils"

	"go.uber.org/zap"
)

type VerifyHandler struct {
	verify usecase.VerificationService
	log    *zap.Logger
}

func NewVerifyHandler(verify usecase.VerificationService, log *zap.Logger) *VerifyHandler {
	return &VerifyHandler{
		verify: verify,
		log:    log,
	}
}

// SendCode handles POST /api/send-verification-code. The response is the same
// whether or not the identifier matches an account.
func (h *VerifyHandler) SendCode(w http.ResponseWriter, r *http.Request) {
	var req request.SendCodeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	err := h.verify.SendCode(r.Context(), req.Identifier, req.Method, req.Purpose)
	if err != nil {
		if errors.Is(err, usecase.ErrDeliveryFailed) {
			handleServiceError(w, h.log, err)
			return
		}
		h.log.Error("Failed to send verification code", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	utils.ResponseSuccess(w, "If the account exists, a code has been sent", nil)
}

// VerifyOTP handles POST /api/verify-otp
func (h *VerifyHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyOTPRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.verify.VerifyCode(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err)
		return
	}

	utils.ResponseSuccess(w, "Code verified", result)
}

// VerifyResetToken handles POST /api/verify-reset-token. A dead token is
// a 400 so the reset form can surface it before asking for a password.
func (h *VerifyHandler) VerifyResetToken(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyResetTokenRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	userID, err := h.verify.ValidateResetToken(r.Context(), req.Token)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidResetToken) {
			utils.ResponseBadRequest(w, "Invalid or expired reset token",
				response.ResetTokenValidation{Valid: false})
			return
		}
		handleServiceError(w, h.log, err)
		return
	}

	utils.ResponseSuccess(w, "Reset token is valid", response.ResetTokenValidation{
		Valid:  true,
		UserID: userID.String(),
	})
}

// ResetPassword handles POST /api/reset-password
func (h *VerifyHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req request.ResetPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.verify.ResetPassword(r.Context(), &req); err != nil {
		handleServiceError(w, h.log, err)
		return
	}

	utils.ResponseSuccess(w, "Password has been reset", nil)
}
