package utils

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Session   SessionConfig
	OTP       OTPConfig
	Reset     ResetConfig
	OAuth     OAuthConfig
	Email     EmailConfig
	SMS       SMSConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
	// URL is the explicitly configured public base URL of the deployment.
	URL string
	// DeploymentHost is the host assigned by the hosting platform, used
	// when no explicit URL is configured.
	DeploymentHost string
}

// BaseURL resolves the public base URL. Precedence: explicit URL, then
// platform deployment host (always https), then the local default. OAuth
// providers validate exact redirect URIs, so this order must not change.
func (a AppConfig) BaseURL() string {
	if a.URL != "" {
		return strings.TrimRight(a.URL, "/")
	}
	if a.DeploymentHost != "" {
		host := strings.TrimPrefix(a.DeploymentHost, "https://")
		host = strings.TrimPrefix(host, "http://")
		return "https://" + strings.TrimRight(host, "/")
	}
	return "http://localhost:3000"
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

// DSN returns a URL-form connection string, used by the migration runner.
func (d DatabaseConfig) DSN() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.Name + "?sslmode=disable"
}

type SessionConfig struct {
	TTLHours int
}

type OTPConfig struct {
	ExpiryMinutes int
	Length        int
}

type ResetConfig struct {
	ExpiryMinutes int
}

type OAuthProviderConfig struct {
	ClientID     string
	ClientSecret string
}

// Configured reports whether the provider can be offered. A missing id or
// secret disables the provider rather than failing startup.
func (p OAuthProviderConfig) Configured() bool {
	return p.ClientID != "" && p.ClientSecret != ""
}

type OAuthConfig struct {
	Google OAuthProviderConfig
	GitHub OAuthProviderConfig
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type SMSConfig struct {
	AccountSID string
	AuthToken  string
	From       string
}

type RateLimitConfig struct {
	Requests      int
	WindowSeconds int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("SESSION_TTL_HOURS", 24)
	viper.SetDefault("OTP_EXPIRY_MINUTES", 15)
	viper.SetDefault("OTP_LENGTH", 6)
	viper.SetDefault("RESET_EXPIRY_MINUTES", 60)
	viper.SetDefault("RATE_LIMIT_REQUESTS", 5)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	viper.SetDefault("LOG_PATH", "logs/")

	if err := viper.ReadInConfig(); err != nil {
		// A missing .env is fine; configuration then comes from the
		// environment alone.
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:           viper.GetString("APP_NAME"),
			Port:           viper.GetString("PORT"),
			Debug:          viper.GetBool("DEBUG"),
			LogPath:        viper.GetString("LOG_PATH"),
			URL:            viper.GetString("APP_URL"),
			DeploymentHost: viper.GetString("DEPLOYMENT_HOST"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Session: SessionConfig{
			TTLHours: viper.GetInt("SESSION_TTL_HOURS"),
		},
		OTP: OTPConfig{
			ExpiryMinutes: viper.GetInt("OTP_EXPIRY_MINUTES"),
			Length:        viper.GetInt("OTP_LENGTH"),
		},
		Reset: ResetConfig{
			ExpiryMinutes: viper.GetInt("RESET_EXPIRY_MINUTES"),
		},
		OAuth: OAuthConfig{
			Google: OAuthProviderConfig{
				ClientID:     viper.GetString("OAUTH_GOOGLE_CLIENT_ID"),
				ClientSecret: viper.GetString("OAUTH_GOOGLE_CLIENT_SECRET"),
			},
			GitHub: OAuthProviderConfig{
				ClientID:     viper.GetString("OAUTH_GITHUB_CLIENT_ID"),
				ClientSecret: viper.GetString("OAUTH_GITHUB_CLIENT_SECRET"),
			},
		},
		Email: EmailConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			User:     viper.GetString("SMTP_USER"),
			Password: viper.GetString("SMTP_PASS"),
			From:     viper.GetString("EMAIL_FROM"),
		},
		SMS: SMSConfig{
			AccountSID: viper.GetString("TWILIO_ACCOUNT_SID"),
			AuthToken:  viper.GetString("TWILIO_AUTH_TOKEN"),
			From:       viper.GetString("TWILIO_FROM"),
		},
		RateLimit: RateLimitConfig{
			Requests:      viper.GetInt("RATE_LIMIT_REQUESTS"),
			WindowSeconds: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
	}

	return config, nil
}
