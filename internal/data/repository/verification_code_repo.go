package repository

import (
	"context"
	"fmt"

	"health-predict/internal/data/entity"
	"health-predict/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type VerificationCodeRepository interface {
	Create(ctx context.Context, code *entity.VerificationCode) error
	InvalidateUnused(ctx context.Context, userID uuid.UUID, purpose entity.CodePurpose) error
	Consume(ctx context.Context, userID uuid.UUID, code string, purpose entity.CodePurpose) (bool, error)
}

type verificationCodeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewVerificationCodeRepository(db database.PgxIface, log *zap.Logger) VerificationCodeRepository {
	return &verificationCodeRepository{
		db:  db,
		log: log.With(zap.String("repository", "verification_code")),
	}
}

func (r *verificationCodeRepository) Create(ctx context.Context, code *entity.VerificationCode) error {
	query := `
		INSERT INTO verification_codes (id, user_id, code, purpose,
		                  expires_at, used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		code.ID,
		code.UserID,
		code.Code,
		code.Purpose,
		code.ExpiresAt,
		code.Used,
		code.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create verification code",
			zap.Error(err),
			zap.String("user_id", code.UserID.String()),
			zap.String("purpose", string(code.Purpose)),
		)
		return fmt.Errorf("create %s code: %w", code.Purpose, err)
	}

	return nil
}

// InvalidateUnused retires every live code of the same purpose so that at
// most one code is ever current for a user.
func (r *verificationCodeRepository) InvalidateUnused(ctx context.Context, userID uuid.UUID, purpose entity.CodePurpose) error {
	query := `
		UPDATE verification_codes
		SET used = TRUE
		WHERE user_id = $1 AND purpose = $2 AND used = FALSE
	`

	_, err := r.db.Exec(ctx, query, userID, purpose)
	if err != nil {
		r.log.Error("Failed to invalidate unused codes",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("purpose", string(purpose)),
		)
		return fmt.Errorf("invalidate %s codes for user %s: %w", purpose, userID.String(), err)
	}

	return nil
}

// Consume marks a matching live code as used in a single conditional
// update. Of two concurrent attempts against the same code, exactly one
// observes an affected row; a used or expired code never consumes.
func (r *verificationCodeRepository) Consume(ctx context.Context, userID uuid.UUID, code string, purpose entity.CodePurpose) (bool, error) {
	query := `
		UPDATE verification_codes
		SET used = TRUE
		WHERE user_id = $1
		  AND code = $2
		  AND purpose = $3
		  AND used = FALSE
		  AND expires_at > NOW()
	`

	result, err := r.db.Exec(ctx, query, userID, code, purpose)
	if err != nil {
		r.log.Error("Failed to consume verification code",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("purpose", string(purpose)),
		)
		return false, fmt.Errorf("consume %s code for user %s: %w", purpose, userID.String(), err)
	}

	return result.RowsAffected() > 0, nil
}
