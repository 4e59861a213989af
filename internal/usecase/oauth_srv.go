package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"health-predict/internal/data/entity"
	"health-predict/internal/data/repository"
	"health-predict/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

type OAuthService interface {
	// AuthorizationURL builds the provider authorize URL with a fresh
	// random state. The caller is responsible for storing the state in a
	// short-lived cookie and comparing it on callback.
	AuthorizationURL(provider string) (url string, state string, err error)
	// HandleCallback exchanges the authorization code, fetches the
	// provider profile, and upserts the local user. State must already
	// have been checked by the caller.
	HandleCallback(ctx context.Context, provider, code string) (*entity.User, error)
}

// providerSpec carries the per-provider pieces that are not configuration:
// token endpoints, scopes, and how to read the profile.
type providerSpec struct {
	endpoint    oauth2.Endpoint
	scopes      []string
	userInfoURL string
}

type oauthService struct {
	repo      *repository.Repository
	config    *utils.Config
	log       *zap.Logger
	providers map[string]providerSpec
}

func NewOAuthService(repo *repository.Repository, config *utils.Config, log *zap.Logger) OAuthService {
	return &oauthService{
		repo:   repo,
		config: config,
		log:    log,
		providers: map[string]providerSpec{
			"google": {
				endpoint:    google.Endpoint,
				scopes:      []string{"openid", "email", "profile"},
				userInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
			},
			"github": {
				endpoint:    github.Endpoint,
				scopes:      []string{"read:user", "user:email"},
				userInfoURL: "https://api.github.com/user",
			},
		},
	}
}

func (s *oauthService) AuthorizationURL(provider string) (string, string, error) {
	conf, _, err := s.providerConfig(provider)
	if err != nil {
		return "", "", err
	}

	state, err := utils.GenerateStateToken()
	if err != nil {
		return "", "", fmt.Errorf("generate state: %w", err)
	}

	return conf.AuthCodeURL(state), state, nil
}

func (s *oauthService) HandleCallback(ctx context.Context, provider, code string) (*entity.User, error) {
	conf, spec, err := s.providerConfig(provider)
	if err != nil {
		return nil, err
	}

	// External call to the provider token endpoint
	token, err := conf.Exchange(ctx, code)
	if err != nil {
		s.log.Error("OAuth code exchange failed",
			zap.Error(err), zap.String("provider", provider))
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	profile, err := s.fetchProfile(ctx, provider, spec, conf, token)
	if err != nil {
		return nil, err
	}

	user, err := s.upsertUser(ctx, provider, profile)
	if err != nil {
		return nil, err
	}

	s.log.Info("OAuth login",
		zap.String("provider", provider),
		zap.String("user_id", user.ID.String()),
	)

	return user, nil
}

// ==================== HELPER METHODS ====================

func (s *oauthService) providerConfig(provider string) (*oauth2.Config, providerSpec, error) {
	spec, ok := s.providers[provider]
	if !ok {
		return nil, providerSpec{}, ErrProviderNotConfigured
	}

	var creds utils.OAuthProviderConfig
	switch provider {
	case "google":
		creds = s.config.OAuth.Google
	case "github":
		creds = s.config.OAuth.GitHub
	}

	if !creds.Configured() {
		return nil, providerSpec{}, ErrProviderNotConfigured
	}

	conf := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint:     spec.endpoint,
		Scopes:       spec.scopes,
		RedirectURL:  s.config.App.BaseURL() + "/api/auth/" + provider + "/callback",
	}

	return conf, spec, nil
}

// oauthProfile is the provider-independent slice of a user profile the
// upsert needs.
type oauthProfile struct {
	ID            string
	Email         string
	Name          string
	EmailVerified bool
}

func (s *oauthService) fetchProfile(ctx context.Context, provider string, spec providerSpec, conf *oauth2.Config, token *oauth2.Token) (*oauthProfile, error) {
	client := conf.Client(ctx, token)

	resp, err := client.Get(spec.userInfoURL)
	if err != nil {
		s.log.Error("Failed to fetch provider profile",
			zap.Error(err), zap.String("provider", provider))
		return nil, fmt.Errorf("fetch %s profile: %w", provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s profile: status %d", provider, resp.StatusCode)
	}

	switch provider {
	case "github":
		return decodeGitHubProfile(resp)
	default:
		return decodeGoogleProfile(resp)
	}
}

func decodeGoogleProfile(resp *http.Response) (*oauthProfile, error) {
	var raw struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Name          string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode google profile: %w", err)
	}
	if raw.ID == "" || raw.Email == "" {
		return nil, fmt.Errorf("google profile missing id or email")
	}

	return &oauthProfile{
		ID:            raw.ID,
		Email:         raw.Email,
		Name:          raw.Name,
		EmailVerified: raw.VerifiedEmail,
	}, nil
}

func decodeGitHubProfile(resp *http.Response) (*oauthProfile, error) {
	var raw struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode github profile: %w", err)
	}
	if raw.ID == 0 {
		return nil, fmt.Errorf("github profile missing id")
	}

	email := raw.Email
	if email == "" {
		// Profile email can be private; fall back to the noreply alias
		email = raw.Login + "@users.noreply.github.com"
	}

	name := raw.Name
	if name == "" {
		name = raw.Login
	}

	return &oauthProfile{
		ID:            strconv.FormatInt(raw.ID, 10),
		Email:         email,
		Name:          name,
		EmailVerified: true,
	}, nil
}

// upsertUser resolves the provider identity to a local account: an
// existing provider link wins, then an account with the same email is
// linked, otherwise a new user is created.
func (s *oauthService) upsertUser(ctx context.Context, provider string, profile *oauthProfile) (*entity.User, error) {
	user, err := s.repo.User.FindByProvider(ctx, provider, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up provider identity: %w", err)
	}
	if user != nil {
		if !user.IsActive {
			return nil, ErrAccountDeactivated
		}
		return user, nil
	}

	user, err = s.repo.User.FindByEmail(ctx, profile.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	if user != nil {
		if !user.IsActive {
			return nil, ErrAccountDeactivated
		}

		// Link the provider identity to the existing account
		user.Provider = &provider
		user.ProviderID = &profile.ID
		if profile.EmailVerified {
			user.EmailVerified = true
		}
		user.UpdatedAt = time.Now()

		if err := s.repo.User.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to link provider identity: %w", err)
		}
		return user, nil
	}

	now := time.Now()
	name := profile.Name
	user = &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:          &name,
		Email:         profile.Email,
		Role:          entity.RoleUser,
		EmailVerified: profile.EmailVerified,
		IsActive:      true,
		Provider:      &provider,
		ProviderID:    &profile.ID,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return user, nil
}
