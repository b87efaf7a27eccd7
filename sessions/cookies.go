package sessions

import (
	"net/http"
	"time"
)

// CookieWriter sets and clears the session cookies. Every cookie it writes
// is HttpOnly, SameSite=Lax and scoped to "/".
type CookieWriter struct {
	// Secure is only set for production deployments.
	Secure             bool
	RefreshTokenMaxAge time.Duration
	AuthCodeMaxAge     time.Duration
}

// SetTokenPair stores a freshly issued pair and consumes the auth code.
// An empty refresh token leaves the refresh_token cookie untouched.
func (cw CookieWriter) SetTokenPair(w http.ResponseWriter, accessToken, refreshToken string, accessMaxAge time.Duration) {
	cw.set(w, DelegateTokenCookie, accessToken, accessMaxAge)
	if refreshToken != "" {
		cw.set(w, RefreshTokenCookie, refreshToken, cw.RefreshTokenMaxAge)
	}
	cw.Clear(w, AuthCodeCookie)
}

// SetAuthCode stores the identity provider's code until the middleware exchanges it.
func (cw CookieWriter) SetAuthCode(w http.ResponseWriter, code string) {
	cw.set(w, AuthCodeCookie, code, cw.AuthCodeMaxAge)
}

// Clear expires the named cookies.
func (cw CookieWriter) Clear(w http.ResponseWriter, names ...string) {
	for _, name := range names {
		http.SetCookie(w, cw.cookie(name, "", -1))
	}
}

// ClearAll expires auth_code, delegate_token and refresh_token.
func (cw CookieWriter) ClearAll(w http.ResponseWriter) {
	cw.Clear(w, DelegateTokenCookie, RefreshTokenCookie, AuthCodeCookie)
}

func (cw CookieWriter) set(w http.ResponseWriter, name, value string, maxAge time.Duration) {
	http.SetCookie(w, cw.cookie(name, value, int(maxAge.Seconds())))
}

func (cw CookieWriter) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   cw.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	}
}
