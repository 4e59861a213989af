package usecase

import (
	"context"
	"testing"
	"time"

	"health-predict/internal/dto/request"
	"health-predict/internal/notify"
	"health-predict/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthFixture() (*memStore, AuthService) {
	store := newMemStore()
	repo := newFakeRepository(store)
	config := testConfig()
	log := zap.NewNop()

	notifier := &notify.Notifier{
		Email: &fakeEmailSender{},
		SMS:   &fakeSMSSender{},
	}
	verify := NewVerificationService(repo, notifier, config, log)

	return store, NewAuthService(repo, verify, config, log)
}

func TestRegister_CreatesUserAndSession(t *testing.T) {
	store, svc := newAuthFixture()

	resp, err := svc.Register(context.Background(), &request.RegisterRequest{
		Name:     strPtr("Alice"),
		Email:    "alice@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", resp.Email)
	assert.False(t, resp.EmailVerified)

	// Auto login: the response carries a live opaque session token
	require.Len(t, resp.Token, 64)
	sess, err := newFakeRepository(store).Session.FindValid(context.Background(), resp.Token)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), sess.ExpiresAt, time.Minute)
}

func TestRegister_EmailTaken(t *testing.T) {
	store, svc := newAuthFixture()

	store.addUser(newTestUser("alice@example.com", nil))

	_, err := svc.Register(context.Background(), &request.RegisterRequest{
		Email:    "alice@example.com",
		Password: "supersecret",
	})

	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_PhoneTaken(t *testing.T) {
	store, svc := newAuthFixture()

	store.addUser(newTestUser("bob@example.com", strPtr("+15550001111")))

	_, err := svc.Register(context.Background(), &request.RegisterRequest{
		Email:    "alice@example.com",
		Password: "supersecret",
		Phone:    strPtr("+15550001111"),
	})

	assert.ErrorIs(t, err, ErrPhoneTaken)
}

func TestLogin_UnknownEmailAndWrongPasswordAreIndistinguishable(t *testing.T) {
	store, svc := newAuthFixture()

	hash, err := utils.HashPassword("correct-password")
	require.NoError(t, err)

	user := newTestUser("alice@example.com", nil)
	user.PasswordHash = hash
	store.addUser(user)

	ctx := context.Background()

	_, errUnknown := svc.Login(ctx, &request.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever-pass",
	})
	_, errWrongPass := svc.Login(ctx, &request.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})

	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPass, ErrInvalidCredentials)
}

func TestLogin_DeactivatedAccount(t *testing.T) {
	store, svc := newAuthFixture()

	hash, err := utils.HashPassword("correct-password")
	require.NoError(t, err)

	user := newTestUser("alice@example.com", nil)
	user.PasswordHash = hash
	user.IsActive = false
	store.addUser(user)

	_, err = svc.Login(context.Background(), &request.LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-password",
	})

	assert.ErrorIs(t, err, ErrAccountDeactivated)
}

func TestLogin_Success(t *testing.T) {
	store, svc := newAuthFixture()

	hash, err := utils.HashPassword("correct-password")
	require.NoError(t, err)

	user := newTestUser("alice@example.com", nil)
	user.PasswordHash = hash
	store.addUser(user)

	resp, err := svc.Login(context.Background(), &request.LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-password",
	})
	require.NoError(t, err)

	assert.Equal(t, user.ID.String(), resp.UserID)
	assert.Len(t, resp.Token, 64)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), resp.ExpiresAt, time.Minute)
}

func TestLogout_RevokesSession(t *testing.T) {
	store, svc := newAuthFixture()

	user := newTestUser("alice@example.com", nil)
	store.addUser(user)

	ctx := context.Background()
	session, err := svc.CreateSession(ctx, user.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, session.Token))

	found, err := newFakeRepository(store).Session.FindValid(ctx, session.Token)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestLogout_UnknownTokenIsNoop(t *testing.T) {
	_, svc := newAuthFixture()

	ctx := context.Background()
	assert.NoError(t, svc.Logout(ctx, ""))
	assert.NoError(t, svc.Logout(ctx, "no-such-token"))
}

func TestRefresh_ExtendsExpiry(t *testing.T) {
	store, svc := newAuthFixture()

	user := newTestUser("alice@example.com", nil)
	store.addUser(user)

	ctx := context.Background()
	session, err := svc.CreateSession(ctx, user.ID)
	require.NoError(t, err)

	// Pretend the session is near expiry
	store.sessions[session.Token].ExpiresAt = time.Now().Add(time.Minute)

	newExpiry, err := svc.Refresh(ctx, session.Token)
	require.NoError(t, err)

	assert.WithinDuration(t, time.Now().Add(24*time.Hour), newExpiry, time.Minute)
	assert.Equal(t, newExpiry, store.sessions[session.Token].ExpiresAt)
}

func TestRefresh_DeadSession(t *testing.T) {
	store, svc := newAuthFixture()

	user := newTestUser("alice@example.com", nil)
	store.addUser(user)

	ctx := context.Background()

	_, err := svc.Refresh(ctx, "no-such-token")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	session, err := svc.CreateSession(ctx, user.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, session.Token))

	_, err = svc.Refresh(ctx, session.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
