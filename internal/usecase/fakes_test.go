package usecase

import (
	"context"
	"sync"
	"time"

	"health-predict/internal/data/entity"
	"health-predict/internal/data/repository"
	"health-predict/internal/notify"
	"health-predict/pkg/utils"

	"github.com/google/uuid"
)

// memStore is a shared in-memory backing store for the fake repositories.
type memStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*entity.User
	sessions map[string]*entity.Session
	codes    []*entity.VerificationCode
	resets   []*entity.PasswordResetToken
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[uuid.UUID]*entity.User),
		sessions: make(map[string]*entity.Session),
	}
}

func newFakeRepository(s *memStore) *repository.Repository {
	return &repository.Repository{
		User:               &fakeUserRepo{s: s},
		Session:            &fakeSessionRepo{s: s},
		VerificationCode:   &fakeCodeRepo{s: s},
		PasswordResetToken: &fakeResetRepo{s: s},
	}
}

func (s *memStore) addUser(u *entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func (s *memStore) unusedCodes(userID uuid.UUID, purpose entity.CodePurpose) []*entity.VerificationCode {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*entity.VerificationCode
	for _, c := range s.codes {
		if c.UserID == userID && c.Purpose == purpose && !c.Used {
			out = append(out, c)
		}
	}
	return out
}

type fakeUserRepo struct {
	s *memStore
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.users[id], nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByPhone(_ context.Context, phone string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Phone != nil && *u.Phone == phone {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByProvider(_ context.Context, provider, providerID string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Provider != nil && *u.Provider == provider &&
			u.ProviderID != nil && *u.ProviderID == providerID {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.User
	for _, u := range r.s.users {
		out = append(out, u)
	}
	if offset > len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeUserRepo) CountAll(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.users)), nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		u.PasswordHash = passwordHash
	}
	return nil
}

func (r *fakeUserRepo) MarkEmailVerified(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		u.EmailVerified = true
	}
	return nil
}

func (r *fakeUserRepo) MarkPhoneVerified(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		u.PhoneVerified = true
	}
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		u.IsActive = false
	}
	return nil
}

type fakeSessionRepo struct {
	s *memStore
}

func (r *fakeSessionRepo) Create(_ context.Context, session *entity.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sessions[session.Token] = session
	return nil
}

func (r *fakeSessionRepo) FindValid(_ context.Context, token string) (*entity.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sess, ok := r.s.sessions[token]
	if !ok || sess.RevokedAt != nil || !sess.ExpiresAt.After(time.Now()) {
		return nil, nil
	}
	return sess, nil
}

func (r *fakeSessionRepo) ExtendExpiry(_ context.Context, token string, expiresAt time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sess, ok := r.s.sessions[token]
	if !ok || sess.RevokedAt != nil || !sess.ExpiresAt.After(time.Now()) {
		return false, nil
	}
	sess.ExpiresAt = expiresAt
	return true, nil
}

func (r *fakeSessionRepo) Revoke(_ context.Context, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if sess, ok := r.s.sessions[token]; ok && sess.RevokedAt == nil {
		now := time.Now()
		sess.RevokedAt = &now
	}
	return nil
}

func (r *fakeSessionRepo) RevokeAllForUser(_ context.Context, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now()
	for _, sess := range r.s.sessions {
		if sess.UserID == userID && sess.RevokedAt == nil {
			sess.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeSessionRepo) DeleteExpired(_ context.Context) error {
	return nil
}

type fakeCodeRepo struct {
	s *memStore
}

func (r *fakeCodeRepo) Create(_ context.Context, code *entity.VerificationCode) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.codes = append(r.s.codes, code)
	return nil
}

func (r *fakeCodeRepo) InvalidateUnused(_ context.Context, userID uuid.UUID, purpose entity.CodePurpose) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range r.s.codes {
		if c.UserID == userID && c.Purpose == purpose && !c.Used {
			c.Used = true
		}
	}
	return nil
}

func (r *fakeCodeRepo) Consume(_ context.Context, userID uuid.UUID, code string, purpose entity.CodePurpose) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range r.s.codes {
		if c.UserID == userID && c.Code == code && c.Purpose == purpose &&
			!c.Used && c.ExpiresAt.After(time.Now()) {
			c.Used = true
			return true, nil
		}
	}
	return false, nil
}

type fakeResetRepo struct {
	s *memStore
}

func (r *fakeResetRepo) Create(_ context.Context, token *entity.PasswordResetToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.resets = append(r.s.resets, token)
	return nil
}

func (r *fakeResetRepo) FindValid(_ context.Context, token uuid.UUID) (*entity.PasswordResetToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, t := range r.s.resets {
		if t.Token == token && !t.Used && t.ExpiresAt.After(time.Now()) {
			return t, nil
		}
	}
	return nil, nil
}

func (r *fakeResetRepo) InvalidateUnused(_ context.Context, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, t := range r.s.resets {
		if t.UserID == userID && !t.Used {
			t.Used = true
		}
	}
	return nil
}

func (r *fakeResetRepo) Consume(_ context.Context, token uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, t := range r.s.resets {
		if t.Token == token && !t.Used && t.ExpiresAt.After(time.Now()) {
			t.Used = true
			return true, nil
		}
	}
	return false, nil
}

// fakeEmailSender records every sent email and can be made to fail.
type fakeEmailSender struct {
	mu   sync.Mutex
	sent []notify.Email
	fail bool
}

func (f *fakeEmailSender) SendEmail(_ context.Context, msg notify.Email) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return "", context.DeadlineExceeded
	}
	f.sent = append(f.sent, msg)
	return "fake-email-id", nil
}

func (f *fakeEmailSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeSMSSender struct {
	mu   sync.Mutex
	sent []notify.SMS
	fail bool
}

func (f *fakeSMSSender) SendSMS(_ context.Context, msg notify.SMS) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return "", context.DeadlineExceeded
	}
	f.sent = append(f.sent, msg)
	return "fake-sms-id", nil
}

func testConfig() *utils.Config {
	return &utils.Config{
		App: utils.AppConfig{
			Name:  "Health Predict",
			Debug: true,
		},
		Session: utils.SessionConfig{TTLHours: 24},
		OTP:     utils.OTPConfig{ExpiryMinutes: 15, Length: 6},
		Reset:   utils.ResetConfig{ExpiryMinutes: 60},
	}
}

func strPtr(s string) *string {
	return &s
}

func newTestUser(email string, phone *string) *entity.User {
	now := time.Now()
	return &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:    email,
		Phone:    phone,
		Role:     entity.RoleUser,
		IsActive: true,
	}
}
