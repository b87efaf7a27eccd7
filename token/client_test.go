package token_test

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/schedule-gateway/internal/errors"
	"github.com/jrsteele09/schedule-gateway/oauthmodel"
	"github.com/jrsteele09/schedule-gateway/token"
	"github.com/jrsteele09/schedule-gateway/token/backendfake"
	"github.com/stretchr/testify/require"
)

const (
	testScope       = "User.Read"
	testRedirectURI = "http://localhost:8080/api/auth"
)

var testPair = oauthmodel.TokenPair{
	AccessToken:  "A",
	RefreshToken: "R",
	TokenType:    "Bearer",
	ExpiresIn:    3600,
	Scope:        testScope,
}

func newTestClient(t *testing.T, backend *backendfake.Backend) *token.Client {
	t.Helper()
	c, err := token.NewClient(backend.URL()+"/", testScope, testRedirectURI, token.WithTimeout(2*time.Second))
	require.NoError(t, err)
	return c
}

func TestNewClient_MissingConfig(t *testing.T) {
	_, err := token.NewClient("", "", "")
	require.ErrorIs(t, err, errors.ErrMissingConfig)
	require.Contains(t, err.Error(), "backend base url, scope, redirect uri")
}

func TestExchangeCode(t *testing.T) {
	backend := backendfake.New(t)
	backend.AddCode("abc", testPair)
	c := newTestClient(t, backend)

	pair, err := c.ExchangeCode(context.Background(), "abc")
	require.NoError(t, err)
	require.Equal(t, testPair, pair)

	req, ok := backend.LastRequest(token.RouteDelegateToken)
	require.True(t, ok)
	require.Equal(t, "application/x-www-form-urlencoded", req.ContentType)
	require.Equal(t, "abc", req.Form.Get("authCode"))
	require.Equal(t, testScope, req.Form.Get("scope"))
	require.Equal(t, testRedirectURI, req.Form.Get("redirectUri"))
}

func TestExchangeCode_BackendRejects(t *testing.T) {
	backend := backendfake.New(t)
	backend.FailWith(token.RouteDelegateToken, http.StatusBadRequest, "code expired")
	c := newTestClient(t, backend)

	_, err := c.ExchangeCode(context.Background(), "abc")
	require.ErrorIs(t, err, errors.ErrTokenExchange)

	var backendErr *errors.BackendError
	require.True(t, errors.As(err, &backendErr))
	require.Equal(t, http.StatusBadRequest, backendErr.StatusCode)
	require.Equal(t, "code expired", backendErr.Body)
	require.Equal(t, "delegateToken", backendErr.Op)
}

func TestExchangeCode_Unavailable(t *testing.T) {
	backend := backendfake.New(t)
	c := newTestClient(t, backend)
	backend.Close()

	_, err := c.ExchangeCode(context.Background(), "abc")
	require.ErrorIs(t, err, errors.ErrTokenExchange)
	require.ErrorIs(t, err, errors.ErrBackendUnavailable)
}

func TestValidate(t *testing.T) {
	backend := backendfake.New(t)
	backend.AddValidToken("tok1")
	c := newTestClient(t, backend)

	require.True(t, c.Validate(context.Background(), "tok1").Validate)
	require.False(t, c.Validate(context.Background(), "tok2").Validate)

	req, ok := backend.LastRequest(token.RouteValidateToken)
	require.True(t, ok)
	require.Equal(t, "application/json", req.ContentType)
	require.Equal(t, "tok2", req.JSON["access_token"])
}

func TestValidate_FailuresCollapseToFalse(t *testing.T) {
	t.Run("non-2xx", func(t *testing.T) {
		backend := backendfake.New(t)
		backend.AddValidToken("tok1")
		backend.FailWith(token.RouteValidateToken, http.StatusInternalServerError, "boom")
		c := newTestClient(t, backend)

		require.Equal(t, oauthmodel.ValidationResult{Validate: false}, c.Validate(context.Background(), "tok1"))
	})

	t.Run("transport", func(t *testing.T) {
		backend := backendfake.New(t)
		c := newTestClient(t, backend)
		backend.Close()

		require.False(t, c.Validate(context.Background(), "tok1").Validate)
	})

	t.Run("cancelled", func(t *testing.T) {
		backend := backendfake.New(t)
		backend.AddValidToken("tok1")
		c := newTestClient(t, backend)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		require.False(t, c.Validate(ctx, "tok1").Validate)
	})
}

func TestRefresh(t *testing.T) {
	backend := backendfake.New(t)
	backend.AddRefreshToken("R0", testPair)
	c := newTestClient(t, backend)

	pair, err := c.Refresh(context.Background(), "R0")
	require.NoError(t, err)
	require.Equal(t, testPair, pair)

	req, ok := backend.LastRequest(token.RouteRefreshToken)
	require.True(t, ok)
	require.Equal(t, "application/json", req.ContentType)
	require.Equal(t, "R0", req.JSON["refresh_token"])
	require.Equal(t, testScope, req.JSON["scope"])

	// spent
	_, err = c.Refresh(context.Background(), "R0")
	require.ErrorIs(t, err, errors.ErrTokenRefresh)
	var backendErr *errors.BackendError
	require.True(t, errors.As(err, &backendErr))
	require.Equal(t, http.StatusUnauthorized, backendErr.StatusCode)
}

func TestRefresh_Unavailable(t *testing.T) {
	backend := backendfake.New(t)
	c := newTestClient(t, backend)
	backend.Close()

	_, err := c.Refresh(context.Background(), "R0")
	require.ErrorIs(t, err, errors.ErrTokenRefresh)
	require.ErrorIs(t, err, errors.ErrBackendUnavailable)
}

func TestRefresh_ConcurrentCallsShareOneRoundTrip(t *testing.T) {
	backend := backendfake.New(t)
	backend.AddRefreshToken("R0", testPair)
	release := backend.Hold(token.RouteRefreshToken)
	t.Cleanup(release)
	c := newTestClient(t, backend)

	const callers = 2
	var wg sync.WaitGroup
	results := make([]oauthmodel.TokenPair, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.Refresh(context.Background(), "R0")
		}(i)
	}

	require.Eventually(t, func() bool { return backend.Calls(token.RouteRefreshToken) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	release()
	wg.Wait()

	require.Equal(t, 1, backend.Calls(token.RouteRefreshToken))
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, testPair, results[i])
	}
}
