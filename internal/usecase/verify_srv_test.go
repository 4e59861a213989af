package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"health-predict/internal/data/entity"
	"health-predict/internal/dto/request"
	"health-predict/internal/notify"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newVerifyFixture() (*memStore, *fakeEmailSender, *fakeSMSSender, VerificationService) {
	store := newMemStore()
	email := &fakeEmailSender{}
	sms := &fakeSMSSender{}
	notifier := &notify.Notifier{Email: email, SMS: sms}

	svc := NewVerificationService(newFakeRepository(store), notifier, testConfig(), zap.NewNop())
	return store, email, sms, svc
}

func TestSendCode_IssuesAndDelivers(t *testing.T) {
	store, email, _, svc := newVerifyFixture()

	user := newTestUser("alice@example.com", nil)
	store.addUser(user)

	err := svc.SendCode(context.Background(), "alice@example.com", "email", "")
	require.NoError(t, err)

	codes := store.unusedCodes(user.ID, entity.PurposeEmailVerification)
	require.Len(t, codes, 1)
	assert.Len(t, codes[0].Code, 6)

	require.Equal(t, 1, email.count())
	assert.Equal(t, "alice@example.com", email.sent[0].To)
	assert.Contains(t, email.sent[0].Body, codes[0].Code)
}

func TestSendCode_UnknownIdentifierIsSilent(t *testing.T) {
	_, email, _, svc := newVerifyFixture()

	err := svc.SendCode(context.Background(), "nobody@example.com", "email", "")

	require.NoError(t, err)
	assert.Equal(t, 0, email.count())
}

func TestSendCode_RetiresPreviousCodes(t *testing.T) {
	store, email, _, svc := newVerifyFixture()

	user := newTestUser("alice@example.com", nil)
	store.addUser(user)

	ctx := context.Background()
	require.NoError(t, svc.SendCode(ctx, "alice@example.com", "email", ""))

	first := store.unusedCodes(user.ID, entity.PurposeEmailVerification)
	require.Len(t, first, 1)

	require.NoError(t, svc.SendCode(ctx, "alice@example.com", "email", ""))

	// Only the newest code is live
	assert.True(t, first[0].Used)
	codes := store.unusedCodes(user.ID, entity.PurposeEmailVerification)
	require.Len(t, codes, 1)
	assert.Equal(t, 2, email.count())
}

func TestSendCode_AlreadyVerifiedLooksLikeUnknown(t *testing.T) {
	store, email, _, svc := newVerifyFixture()

	user := newTestUser("alice@example.com", nil)
	user.EmailVerified = true
	store.addUser(user)

	ctx := context.Background()

	// A verified account and an unknown identifier must be
	// indistinguishable: both succeed silently with nothing delivered
	err := svc.SendCode(ctx, "alice@example.com", "email", "")
	require.NoError(t, err)

	err = svc.SendCode(ctx, "nobody@example.com", "email", "")
	require.NoError(t, err)

	assert.Equal(t, 0, email.count())
	assert.Empty(t, store.unusedCodes(user.ID, entity.PurposeEmailVerification))
}

func TestSendCode_AlreadyVerifiedStillAllowsPasswordReset(t *testing.T) {
	store, email, _, svc := newVerifyFixture()

	user := newTestUser("alice@example.com", nil)
	user.EmailVerified = true
	store.addUser(user)

	err := svc.SendCode(context.Background(), "alice@example.com", "email",
		string(entity.PurposePasswordReset))
	require.NoError(t, err)

	assert.Equal(t, 1, email.count())
	assert.Len(t, store.unusedCodes(user.ID, entity.PurposePasswordReset), 1)
}

func TestSendCode_DeliveryFailureKeepsCode(t *testing.T) {
	store, email, _, svc := newVerifyFixture()
	email.fail = true

	user := newTestUser("alice@example.com", nil)
	store.addUser(user)

	err := svc.SendCode(context.Background(), "alice@example.com", "email", "")
	assert.ErrorIs(t, err, ErrDeliveryFailed)

	// The issued code survives the failed send so a retry can succeed
	codes := store.unusedCodes(user.ID, entity.PurposeEmailVerification)
	assert.Len(t, codes, 1)
}

func TestSendCode_SMSUsesPhone(t *testing.T) {
	store, _, sms, svc := newVerifyFixture()

	user := newTestUser("bob@example.com", strPtr("+15550001111"))
	store.addUser(user)

	err := svc.SendCode(context.Background(), "+15550001111", "sms", "")
	require.NoError(t, err)

	require.Len(t, sms.sent, 1)
	assert.Equal(t, "+15550001111", sms.sent[0].To)

	codes := store.unusedCodes(user.ID, entity.PurposePhoneVerification)
	require.Len(t, codes, 1)
	assert.Contains(t, sms.sent[0].Body, codes[0].Code)
}

func TestVerifyCode_MarksEmailVerifiedAndRejectsReplay(t *testing.T) {
	store, _, _, svc := newVerifyFixture()

	user := newTestUser("alice@example.com", nil)
	store.addUser(user)

	ctx := context.Background()
	require.NoError(t, svc.SendCode(ctx, "alice@example.com", "email", ""))

	codes := store.unusedCodes(user.ID, entity.PurposeEmailVerification)
	require.Len(t, codes, 1)

	req := &request.VerifyOTPRequest{
		Identifier: "alice@example.com",
		Code:       codes[0].Code,
	}

	result, err := svc.VerifyCode(ctx, req)
	require.NoError(t, err)
	assert.True(t, result.Verified)
	assert.Empty(t, result.ResetToken)
	assert.True(t, user.EmailVerified)

	// The same code must never validate twice
	_, err = svc.VerifyCode(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestVerifyCode_ConcurrentAttemptsConsumeOnce(t *testing.T) {
	store, _, _, svc := newVerifyFixture()

	user := newTestUser("alice@example.com", nil)
	store.addUser(user)

	ctx := context.Background()
	require.NoError(t, svc.SendCode(ctx, "alice@example.com", "email", ""))

	codes := store.unusedCodes(user.ID, entity.PurposeEmailVerification)
	require.Len(t, codes, 1)

	const attempts = 16
	results := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.VerifyCode(ctx, &request.VerifyOTPRequest{
				Identifier: "alice@example.com",
				Code:       codes[0].Code,
			})
			results[i] = err
		}(i)
	}
	wg.Wait()

	// Exactly one attempt wins the conditional consume; the rest see the
	// same failure as a wrong code
	successes := 0
	for _, err := range results {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, ErrInvalidCode)
		}
	}
	assert.Equal(t, 1, successes)
	assert.True(t, user.EmailVerified)
}

func TestVerifyCode_UnknownIdentifierLooksLikeWrongCode(t *testing.T) {
	_, _, _, svc := newVerifyFixture()

	_, err := svc.VerifyCode(context.Background(), &request.VerifyOTPRequest{
		Identifier: "nobody@example.com",
		Code:       "123456",
	})

	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestVerifyCode_WrongCode(t *testing.T) {
	store, _, _, svc := newVerifyFixture()

	user := newTestUser("alice@example.com", nil)
	store.addUser(user)

	ctx := context.Background()
	require.NoError(t, svc.SendCode(ctx, "alice@example.com", "email", ""))

	_, err := svc.VerifyCode(ctx, &request.VerifyOTPRequest{
		Identifier: "alice@example.com",
		Code:       "000000",
	})

	assert.ErrorIs(t, err, ErrInvalidCode)
	assert.False(t, user.EmailVerified)
}

func TestVerifyCode_ExpiredCode(t *testing.T) {
	store, _, _, svc := newVerifyFixture()

	user := newTestUser("alice@example.com", nil)
	store.addUser(user)

	store.codes = append(store.codes, &entity.VerificationCode{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now().Add(-time.Hour)},
		UserID:     user.ID,
		Code:       "123456",
		Purpose:    entity.PurposeEmailVerification,
		ExpiresAt:  time.Now().Add(-30 * time.Minute),
	})

	_, err := svc.VerifyCode(context.Background(), &request.VerifyOTPRequest{
		Identifier: "alice@example.com",
		Code:       "123456",
	})

	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestPasswordResetFlow(t *testing.T) {
	store, _, _, svc := newVerifyFixture()

	user := newTestUser("alice@example.com", nil)
	user.PasswordHash = "old-hash"
	store.addUser(user)

	// An existing session that must die with the reset
	session := &entity.Session{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		UserID:     user.ID,
		Token:      "live-session",
		ExpiresAt:  time.Now().Add(time.Hour),
	}
	store.sessions[session.Token] = session

	ctx := context.Background()
	require.NoError(t, svc.SendCode(ctx, "alice@example.com", "email", string(entity.PurposePasswordReset)))

	codes := store.unusedCodes(user.ID, entity.PurposePasswordReset)
	require.Len(t, codes, 1)

	// Verifying a password_reset code yields a reset token, not a flag flip
	result, err := svc.VerifyCode(ctx, &request.VerifyOTPRequest{
		Identifier: "alice@example.com",
		Code:       codes[0].Code,
		Purpose:    string(entity.PurposePasswordReset),
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.ResetToken)
	require.NotNil(t, result.ExpiresAt)
	assert.False(t, user.EmailVerified)

	tokenUUID, err := uuid.Parse(result.ResetToken)
	require.NoError(t, err)

	ownerID, err := svc.ValidateResetToken(ctx, result.ResetToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, ownerID)

	err = svc.ResetPassword(ctx, &request.ResetPasswordRequest{
		Token:       tokenUUID.String(),
		NewPassword: "brand-new-password",
	})
	require.NoError(t, err)

	assert.NotEqual(t, "old-hash", user.PasswordHash)
	assert.NotNil(t, session.RevokedAt)

	// The consumed token is dead for both validation and reuse
	_, err = svc.ValidateResetToken(ctx, result.ResetToken)
	assert.ErrorIs(t, err, ErrInvalidResetToken)

	err = svc.ResetPassword(ctx, &request.ResetPasswordRequest{
		Token:       tokenUUID.String(),
		NewPassword: "another-password",
	})
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestValidateResetToken_Malformed(t *testing.T) {
	_, _, _, svc := newVerifyFixture()

	_, err := svc.ValidateResetToken(context.Background(), "not-a-uuid")

	assert.ErrorIs(t, err, ErrInvalidResetToken)
}
