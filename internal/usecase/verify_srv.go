package usecase

import (
	"context"
	"fmt"
	"time"

	"health-predict/internal/data/entity"
	"health-predict/internal/data/repository"
	"health-predict/internal/dto/request"
	"health-predict/internal/dto/response"
	"health-predict/internal/notify"
	"health-predict/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type VerificationService interface {
	// SendCode issues and delivers a one-time code. An unknown identifier
	// returns nil so callers cannot probe which accounts exist.
	SendCode(ctx context.Context, identifier, method, purpose string) error
	VerifyCode(ctx context.Context, req *request.VerifyOTPRequest) (*response.VerifyResult, error)
	ValidateResetToken(ctx context.Context, token string) (uuid.UUID, error)
	ResetPassword(ctx context.Context, req *request.ResetPasswordRequest) error
}

type verificationService struct {
	repo     *repository.Repository
	notifier *notify.Notifier
	config   *utils.Config
	log      *zap.Logger
}

func NewVerificationService(
	repo *repository.Repository,
	notifier *notify.Notifier,
	config *utils.Config,
	log *zap.Logger,
) VerificationService {
	return &verificationService{
		repo:     repo,
		notifier: notifier,
		config:   config,
		log:      log,
	}
}

func (s *verificationService) SendCode(ctx context.Context, identifier, method, purpose string) error {
	resolved := resolvePurpose(method, purpose)

	// 1. Resolve identifier. A miss is not an error: the endpoint answers
	// identically either way.
	user, err := s.findByIdentifier(ctx, identifier, method)
	if err != nil {
		return err
	}
	if user == nil {
		s.log.Info("Verification code requested for unknown identifier",
			zap.String("method", method))
		return nil
	}

	// 2. Nothing to issue if the channel is already confirmed. Answered
	// like an unknown identifier so the response stays uniform.
	if resolved == entity.PurposeEmailVerification && user.EmailVerified {
		s.log.Info("Verification code requested for verified email",
			zap.String("user_id", user.ID.String()))
		return nil
	}
	if resolved == entity.PurposePhoneVerification && user.PhoneVerified {
		s.log.Info("Verification code requested for verified phone",
			zap.String("user_id", user.ID.String()))
		return nil
	}
	if method == "sms" && user.Phone == nil {
		// No phone on record; treated like an unknown identifier
		return nil
	}

	// 3. Only the newest code may verify
	if err := s.repo.VerificationCode.InvalidateUnused(ctx, user.ID, resolved); err != nil {
		return fmt.Errorf("failed to retire previous codes: %w", err)
	}

	// 4. Generate and persist the code
	otpCode, err := utils.GenerateOTP(s.config.OTP.Length)
	if err != nil {
		s.log.Error("Failed to generate code", zap.Error(err))
		return fmt.Errorf("failed to generate code: %w", err)
	}

	expiresAt := time.Now().Add(s.otpTTL())
	code := &entity.VerificationCode{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		UserID:    user.ID,
		Code:      otpCode,
		Purpose:   resolved,
		ExpiresAt: expiresAt,
	}

	if err := s.repo.VerificationCode.Create(ctx, code); err != nil {
		return fmt.Errorf("failed to issue code: %w", err)
	}

	s.log.Info("Verification code issued",
		zap.String("user_id", user.ID.String()),
		zap.String("purpose", string(resolved)),
		zap.Time("expires_at", expiresAt),
	)

	// 5. Deliver. On failure the persisted code stays valid so the caller
	// can retry the send.
	if err := s.deliver(ctx, user, method, otpCode); err != nil {
		return err
	}

	return nil
}

func (s *verificationService) VerifyCode(ctx context.Context, req *request.VerifyOTPRequest) (*response.VerifyResult, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Verify code validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// Identifier may be an email or a phone number
	user, err := s.findByAnyIdentifier(ctx, req.Identifier)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Same failure as a wrong code; existence must not leak
		return nil, ErrInvalidCode
	}

	purpose := verifyPurpose(req, user)

	// Single conditional update; two racing attempts cannot both succeed
	consumed, err := s.repo.VerificationCode.Consume(ctx, user.ID, req.Code, purpose)
	if err != nil {
		return nil, fmt.Errorf("failed to verify code: %w", err)
	}
	if !consumed {
		return nil, ErrInvalidCode
	}

	result := &response.VerifyResult{Verified: true}

	switch purpose {
	case entity.PurposeEmailVerification:
		if err := s.repo.User.MarkEmailVerified(ctx, user.ID); err != nil {
			s.log.Error("Failed to mark email verified", zap.Error(err),
				zap.String("user_id", user.ID.String()))
			return nil, fmt.Errorf("failed to record verification: %w", err)
		}

	case entity.PurposePhoneVerification:
		if err := s.repo.User.MarkPhoneVerified(ctx, user.ID); err != nil {
			s.log.Error("Failed to mark phone verified", zap.Error(err),
				zap.String("user_id", user.ID.String()))
			return nil, fmt.Errorf("failed to record verification: %w", err)
		}

	case entity.PurposePasswordReset:
		token, err := s.issueResetToken(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		result.ResetToken = token.Token.String()
		result.ExpiresAt = &token.ExpiresAt
	}

	s.log.Info("Code verified",
		zap.String("user_id", user.ID.String()),
		zap.String("purpose", string(purpose)),
	)

	return result, nil
}

func (s *verificationService) ValidateResetToken(ctx context.Context, token string) (uuid.UUID, error) {
	tokenUUID, err := uuid.Parse(token)
	if err != nil {
		return uuid.Nil, ErrInvalidResetToken
	}

	reset, err := s.repo.PasswordResetToken.FindValid(ctx, tokenUUID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to check reset token: %w", err)
	}
	if reset == nil {
		return uuid.Nil, ErrInvalidResetToken
	}

	return reset.UserID, nil
}

func (s *verificationService) ResetPassword(ctx context.Context, req *request.ResetPasswordRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Reset password validation failed", zap.Any("errors", errs))
		return fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	tokenUUID, err := uuid.Parse(req.Token)
	if err != nil {
		return ErrInvalidResetToken
	}

	reset, err := s.repo.PasswordResetToken.FindValid(ctx, tokenUUID)
	if err != nil {
		return fmt.Errorf("failed to check reset token: %w", err)
	}
	if reset == nil {
		return ErrInvalidResetToken
	}

	// The conditional consume is the gate; the lookup above only supplies
	// the owning user
	consumed, err := s.repo.PasswordResetToken.Consume(ctx, tokenUUID)
	if err != nil {
		return fmt.Errorf("failed to consume reset token: %w", err)
	}
	if !consumed {
		return ErrInvalidResetToken
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		s.log.Error("Failed to hash new password", zap.Error(err))
		return fmt.Errorf("failed to process password: %w", err)
	}

	if err := s.repo.User.UpdatePassword(ctx, reset.UserID, hashedPassword); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	// A password change invalidates every existing session
	if err := s.repo.Session.RevokeAllForUser(ctx, reset.UserID); err != nil {
		s.log.Error("Failed to revoke sessions after password reset",
			zap.Error(err), zap.String("user_id", reset.UserID.String()))
	}

	s.log.Info("Password reset", zap.String("user_id", reset.UserID.String()))
	return nil
}

// ==================== HELPER METHODS ====================

func (s *verificationService) issueResetToken(ctx context.Context, userID uuid.UUID) (*entity.PasswordResetToken, error) {
	if err := s.repo.PasswordResetToken.InvalidateUnused(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to retire previous reset tokens: %w", err)
	}

	token := &entity.PasswordResetToken{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		UserID:    userID,
		Token:     utils.GenerateResetToken(),
		ExpiresAt: time.Now().Add(s.resetTTL()),
	}

	if err := s.repo.PasswordResetToken.Create(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to issue reset token: %w", err)
	}

	return token, nil
}

func (s *verificationService) deliver(ctx context.Context, user *entity.User, method, code string) error {
	appName := s.config.App.Name
	if appName == "" {
		appName = "Health Predict"
	}

	switch method {
	case "sms":
		body := fmt.Sprintf("%s verification code: %s", appName, code)
		if _, err := s.notifier.SMS.SendSMS(ctx, notify.SMS{To: *user.Phone, Body: body}); err != nil {
			return ErrDeliveryFailed
		}
	default:
		body := fmt.Sprintf("Your %s verification code is %s. It expires in %d minutes.",
			appName, code, int(s.otpTTL().Minutes()))
		msg := notify.Email{
			To:      user.Email,
			Subject: appName + " verification code",
			Body:    body,
		}
		if _, err := s.notifier.Email.SendEmail(ctx, msg); err != nil {
			return ErrDeliveryFailed
		}
	}

	return nil
}

func (s *verificationService) findByIdentifier(ctx context.Context, identifier, method string) (*entity.User, error) {
	if method == "sms" {
		user, err := s.repo.User.FindByPhone(ctx, identifier)
		if err != nil {
			return nil, fmt.Errorf("failed to find user: %w", err)
		}
		return user, nil
	}

	user, err := s.repo.User.FindByEmail(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// findByAnyIdentifier resolves an identifier that may be either an email
// or a phone number.
func (s *verificationService) findByAnyIdentifier(ctx context.Context, identifier string) (*entity.User, error) {
	user, err := s.repo.User.FindByEmail(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user != nil {
		return user, nil
	}

	user, err = s.repo.User.FindByPhone(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func (s *verificationService) otpTTL() time.Duration {
	minutes := s.config.OTP.ExpiryMinutes
	if minutes <= 0 {
		minutes = 15
	}
	return time.Duration(minutes) * time.Minute
}

func (s *verificationService) resetTTL() time.Duration {
	minutes := s.config.Reset.ExpiryMinutes
	if minutes <= 0 {
		minutes = 60
	}
	return time.Duration(minutes) * time.Minute
}

func resolvePurpose(method, purpose string) entity.CodePurpose {
	if purpose != "" {
		return entity.CodePurpose(purpose)
	}
	if method == "sms" {
		return entity.PurposePhoneVerification
	}
	return entity.PurposeEmailVerification
}

// verifyPurpose picks the purpose for a verify request: explicit when
// given, otherwise inferred from which channel the identifier matched.
func verifyPurpose(req *request.VerifyOTPRequest, user *entity.User) entity.CodePurpose {
	if req.Purpose != "" {
		return entity.CodePurpose(req.Purpose)
	}
	if user.Phone != nil && *user.Phone == req.Identifier {
		return entity.PurposePhoneVerification
	}
	return entity.PurposeEmailVerification
}
