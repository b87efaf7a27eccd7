package sessions

import "net/http"

// Cookie names. auth_code is written by the callback route; the other two
// are owned by the session middleware.
const (
	AuthCodeCookie      = "auth_code"
	DelegateTokenCookie = "delegate_token"
	RefreshTokenCookie  = "refresh_token"
)

// CookieSet is the session as carried by the browser. Empty means absent.
type CookieSet struct {
	AuthCode      string
	DelegateToken string
	RefreshToken  string
}

// FromRequest reads the three session cookies once.
func FromRequest(r *http.Request) CookieSet {
	return CookieSet{
		AuthCode:      cookieValue(r, AuthCodeCookie),
		DelegateToken: cookieValue(r, DelegateTokenCookie),
		RefreshToken:  cookieValue(r, RefreshTokenCookie),
	}
}

func cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// State is what the middleware must do with a request.
type State int

const (
	// Unauthenticated: no usable cookie, send the browser to the identity provider.
	Unauthenticated State = iota
	// Refreshing: refresh_token without delegate_token.
	Refreshing
	// Validating: delegate_token present.
	Validating
	// Exchanging: only an auth_code from the callback.
	Exchanging
)

func (s State) String() string {
	switch s {
	case Refreshing:
		return "refreshing"
	case Validating:
		return "validating"
	case Exchanging:
		return "exchanging"
	default:
		return "unauthenticated"
	}
}

// State resolves the cookie set to exactly one state, in precedence order
// Refreshing, Validating, Exchanging, Unauthenticated.
func (c CookieSet) State() State {
	switch {
	case c.RefreshToken != "" && c.DelegateToken == "":
		return Refreshing
	case c.DelegateToken != "":
		return Validating
	case c.AuthCode != "":
		return Exchanging
	default:
		return Unauthenticated
	}
}
