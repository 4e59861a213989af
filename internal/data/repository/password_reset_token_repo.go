package repository

import (
	"context"
	"fmt"

	"health-predict/internal/data/entity"
	"health-predict/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PasswordResetTokenRepository interface {
	Create(ctx context.Context, token *entity.PasswordResetToken) error
	FindValid(ctx context.Context, token uuid.UUID) (*entity.PasswordResetToken, error)
	InvalidateUnused(ctx context.Context, userID uuid.UUID) error
	Consume(ctx context.Context, token uuid.UUID) (bool, error)
}

type passwordResetTokenRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPasswordResetTokenRepository(db database.PgxIface, log *zap.Logger) PasswordResetTokenRepository {
	return &passwordResetTokenRepository{
		db:  db,
		log: log.With(zap.String("repository", "password_reset_token")),
	}
}

func (r *passwordResetTokenRepository) Create(ctx context.Context, token *entity.PasswordResetToken) error {
	query := `
		INSERT INTO password_reset_tokens (id, user_id, token, expires_at, used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		token.ID,
		token.UserID,
		token.Token,
		token.ExpiresAt,
		token.Used,
		token.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create reset token",
			zap.Error(err),
			zap.String("user_id", token.UserID.String()),
		)
		return fmt.Errorf("create reset token for user %s: %w", token.UserID.String(), err)
	}

	return nil
}

// FindValid returns the token row if it is unused and unexpired, (nil,
// nil) otherwise. Validity-only checks go through here; consumption must
// use Consume.
func (r *passwordResetTokenRepository) FindValid(ctx context.Context, token uuid.UUID) (*entity.PasswordResetToken, error) {
	query := `
		SELECT id, user_id, token, expires_at, used, created_at
		FROM password_reset_tokens
		WHERE token = $1
		  AND used = FALSE
		  AND expires_at > NOW()
	`

	var reset entity.PasswordResetToken
	err := r.db.QueryRow(ctx, query, token).Scan(
		&reset.ID,
		&reset.UserID,
		&reset.Token,
		&reset.ExpiresAt,
		&reset.Used,
		&reset.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find valid reset token", zap.Error(err))
		return nil, fmt.Errorf("find reset token: %w", err)
	}

	return &reset, nil
}

func (r *passwordResetTokenRepository) InvalidateUnused(ctx context.Context, userID uuid.UUID) error {
	query := `
		UPDATE password_reset_tokens
		SET used = TRUE
		WHERE user_id = $1 AND used = FALSE
	`

	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to invalidate reset tokens",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("invalidate reset tokens for user %s: %w", userID.String(), err)
	}

	return nil
}

// Consume marks the token used in a single conditional update; a used or
// expired token never consumes.
func (r *passwordResetTokenRepository) Consume(ctx context.Context, token uuid.UUID) (bool, error) {
	query := `
		UPDATE password_reset_tokens
		SET used = TRUE
		WHERE token = $1
		  AND used = FALSE
		  AND expires_at > NOW()
	`

	result, err := r.db.Exec(ctx, query, token)
	if err != nil {
		r.log.Error("Failed to consume reset token", zap.Error(err))
		return false, fmt.Errorf("consume reset token: %w", err)
	}

	return result.RowsAffected() > 0, nil
}
