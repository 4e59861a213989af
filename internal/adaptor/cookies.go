package adaptor

import (
	"net/http"
	"time"

	"health-predict/pkg/middleware"
)

// stateCookieTTL bounds how long an OAuth round trip may take.
const stateCookieTTL = 10 * time.Minute

// setSessionCookie installs the opaque session token. The cookie is
// HttpOnly and never readable from scripts; Secure is dropped only in
// debug so local HTTP development works.
func setSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time, debug bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   !debug,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, debug bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   !debug,
		SameSite: http.SameSiteLaxMode,
	})
}

// stateCookieName keeps per-provider state separate so parallel logins
// against different providers cannot clobber each other.
func stateCookieName(provider string) string {
	return "oauth_state_" + provider
}

func setStateCookie(w http.ResponseWriter, provider, state string, debug bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName(provider),
		Value:    state,
		Path:     "/",
		MaxAge:   int(stateCookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   !debug,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearStateCookie(w http.ResponseWriter, provider string, debug bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName(provider),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   !debug,
		SameSite: http.SameSiteLaxMode,
	})
}
