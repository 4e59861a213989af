package usecase

import (
	"context"
	"fmt"
	"time"

	"health-predict/internal/data/entity"
	"health-predict/internal/data/repository"
	"health-predict/internal/dto/request"
	"health-predict/internal/dto/response"
	"health-predict/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	Logout(ctx context.Context, token string) error
	Refresh(ctx context.Context, token string) (time.Time, error)
	CreateSession(ctx context.Context, userID uuid.UUID) (*entity.Session, error)
}

type authService struct {
	repo   *repository.Repository
	verify VerificationService
	config *utils.Config
	log    *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	verify VerificationService,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		verify: verify,
		config: config,
		log:    log,
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Check email not taken
	existingUser, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to check email", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existingUser != nil {
		return nil, ErrEmailTaken
	}

	// 3. Check phone not taken
	if req.Phone != nil {
		existingUser, err = s.repo.User.FindByPhone(ctx, *req.Phone)
		if err != nil {
			s.log.Error("Failed to check phone", zap.Error(err))
			return nil, fmt.Errorf("failed to check phone: %w", err)
		}
		if existingUser != nil {
			return nil, ErrPhoneTaken
		}
	}

	// 4. Hash password
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to process password: %w", err)
	}

	// 5. Create user entity
	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:          req.Name,
		Email:         req.Email,
		PasswordHash:  hashedPassword,
		Phone:         req.Phone,
		Role:          entity.RoleUser,
		EmailVerified: false,
		PhoneVerified: false,
		IsActive:      true,
	}

	// 6. Save user
	if err := s.repo.User.Create(ctx, user); err != nil {
		s.log.Error("Failed to create user", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	// 7. Send verification code (async, best effort; the user can resend)
	go s.sendVerificationCode(user.Email)

	// 8. Auto login after register
	session, err := s.CreateSession(ctx, user.ID)
	if err != nil {
		s.log.Warn("Failed to create session after register",
			zap.Error(err), zap.String("user_id", user.ID.String()))
		// Continue without a session
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	return response.AuthToResponse(user, session), nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Find user by email
	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to find user for login", zap.Error(err))
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	// 3. Same failure for unknown email and wrong password
	if user == nil {
		s.log.Warn("User not found for login", zap.String("email", req.Email))
		return nil, ErrInvalidCredentials
	}

	// 4. Check password
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid password", zap.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	// 5. Check if user is active
	if !user.IsActive {
		s.log.Warn("Inactive user tried to login", zap.String("user_id", user.ID.String()))
		return nil, ErrAccountDeactivated
	}

	// 6. Create session
	session, err := s.CreateSession(ctx, user.ID)
	if err != nil {
		s.log.Error("Failed to create session", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID.String()))

	return response.AuthToResponse(user, session), nil
}

// Logout revokes the session for token. Revoking an unknown or malformed
// token succeeds as a no-op.
func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	if err := s.repo.Session.Revoke(ctx, token); err != nil {
		s.log.Error("Failed to revoke session", zap.Error(err))
		return fmt.Errorf("failed to logout: %w", err)
	}

	s.log.Info("User logged out")
	return nil
}

// Refresh extends a live session by the configured TTL and returns the
// new expiry. Concurrent refreshes of the same token are safe; the last
// write wins.
func (s *authService) Refresh(ctx context.Context, token string) (time.Time, error) {
	expiresAt := time.Now().Add(s.sessionTTL())

	extended, err := s.repo.Session.ExtendExpiry(ctx, token, expiresAt)
	if err != nil {
		s.log.Error("Failed to refresh session", zap.Error(err))
		return time.Time{}, fmt.Errorf("failed to refresh session: %w", err)
	}
	if !extended {
		return time.Time{}, ErrSessionNotFound
	}

	return expiresAt, nil
}

func (s *authService) CreateSession(ctx context.Context, userID uuid.UUID) (*entity.Session, error) {
	token, err := utils.GenerateSessionToken()
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}

	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().Add(s.sessionTTL()),
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// ==================== HELPER METHODS ====================

func (s *authService) sessionTTL() time.Duration {
	hours := s.config.Session.TTLHours
	if hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}

func (s *authService) sendVerificationCode(email string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.verify.SendCode(ctx, email, "email", string(entity.PurposeEmailVerification)); err != nil {
		s.log.Error("Failed to send verification code after register",
			zap.Error(err), zap.String("email", email))
	}
}
