package token

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/schedule-gateway/oauthmodel"
)

// AccessTokenLifetime decides how long the delegate_token cookie lives:
// expires_in when the backend reports it, else the time left until the
// access token's JWT exp claim, else fallback.
//
// The JWT is parsed without verification; the result only sizes a cookie.
func AccessTokenLifetime(pair oauthmodel.TokenPair, fallback time.Duration) time.Duration {
	if pair.ExpiresIn > 0 {
		return time.Duration(pair.ExpiresIn) * time.Second
	}
	if exp, ok := jwtExpiry(pair.AccessToken); ok {
		if remaining := time.Until(exp).Truncate(time.Second); remaining > 0 {
			return remaining
		}
	}
	return fallback
}

func jwtExpiry(raw string) (time.Time, bool) {
	if strings.Count(raw, ".") != 2 {
		return time.Time{}, false
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
