package token_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/schedule-gateway/oauthmodel"
	"github.com/jrsteele09/schedule-gateway/token"
	"github.com/stretchr/testify/require"
)

func signedJWT(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return raw
}

func TestAccessTokenLifetime(t *testing.T) {
	fallback := time.Hour

	t.Run("expires_in wins", func(t *testing.T) {
		pair := oauthmodel.TokenPair{AccessToken: "A", ExpiresIn: 120}
		require.Equal(t, 2*time.Minute, token.AccessTokenLifetime(pair, fallback))
	})

	t.Run("opaque token falls back", func(t *testing.T) {
		pair := oauthmodel.TokenPair{AccessToken: "A"}
		require.Equal(t, fallback, token.AccessTokenLifetime(pair, fallback))
	})

	t.Run("jwt exp", func(t *testing.T) {
		raw := signedJWT(t, jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(30 * time.Minute)),
		})
		got := token.AccessTokenLifetime(oauthmodel.TokenPair{AccessToken: raw}, fallback)
		require.InDelta(t, (30 * time.Minute).Seconds(), got.Seconds(), 5)
	})

	t.Run("expired jwt falls back", func(t *testing.T) {
		raw := signedJWT(t, jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		})
		require.Equal(t, fallback, token.AccessTokenLifetime(oauthmodel.TokenPair{AccessToken: raw}, fallback))
	})

	t.Run("jwt without exp falls back", func(t *testing.T) {
		raw := signedJWT(t, jwt.RegisteredClaims{Subject: "user-1"})
		require.Equal(t, fallback, token.AccessTokenLifetime(oauthmodel.TokenPair{AccessToken: raw}, fallback))
	})
}
