package token

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jrsteele09/schedule-gateway/internal/errors"
	"github.com/jrsteele09/schedule-gateway/oauthmodel"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

// Backend token API routes
const (
	RouteDelegateToken = "/auth/delegateToken"
	RouteValidateToken = "/auth/validateToken"
	RouteRefreshToken  = "/auth/refreshToken"
)

const (
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 4096
	tracerName     = "github.com/jrsteele09/schedule-gateway/token"
)

// Client talks to the backend token API. Every call is a single stateless
// round trip; nothing is cached between calls.
type Client struct {
	baseURL     string
	scope       string
	redirectURI string
	httpClient  *http.Client
	tracer      trace.Tracer

	// refreshes collapses concurrent refreshes of the same refresh token
	refreshes singleflight.Group
}

type Option func(*Client)

// WithHTTPClient replaces the default client. Its Timeout bounds every call.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

func NewClient(baseURL, scope, redirectURI string, opts ...Option) (*Client, error) {
	var missing []string
	if baseURL == "" {
		missing = append(missing, "backend base url")
	}
	if scope == "" {
		missing = append(missing, "scope")
	}
	if redirectURI == "" {
		missing = append(missing, "redirect uri")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("[Token NewClient] %w: %s", errors.ErrMissingConfig, strings.Join(missing, ", "))
	}

	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		scope:       scope,
		redirectURI: redirectURI,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		tracer:      otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ExchangeCode trades the identity provider's authorization code for a token pair.
func (c *Client) ExchangeCode(ctx context.Context, authCode string) (oauthmodel.TokenPair, error) {
	ctx, span := c.tracer.Start(ctx, "token.ExchangeCode")
	defer span.End()

	form := url.Values{}
	form.Set(oauthmodel.FormAuthCode, authCode)
	form.Set(oauthmodel.FormScope, c.scope)
	form.Set(oauthmodel.FormRedirectURI, c.redirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+RouteDelegateToken, strings.NewReader(form.Encode()))
	if err != nil {
		return oauthmodel.TokenPair{}, fmt.Errorf("[Token ExchangeCode] %w: %w", errors.ErrTokenExchange, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var envelope oauthmodel.DelegateTokenResponse
	if err := c.do(span, req, "delegateToken", &envelope); err != nil {
		return oauthmodel.TokenPair{}, fmt.Errorf("[Token ExchangeCode] %w: %w", errors.ErrTokenExchange, err)
	}
	if envelope.Data == nil || envelope.Data.AccessToken == "" {
		err := fmt.Errorf("[Token ExchangeCode] %w: %w: no data.access_token", errors.ErrTokenExchange, errors.ErrMalformedResponse)
		recordError(span, err)
		return oauthmodel.TokenPair{}, err
	}
	return *envelope.Data, nil
}

// Validate never fails: transport errors, non-2xx answers and undecodable
// bodies all yield Validate=false. The cause is only logged.
func (c *Client) Validate(ctx context.Context, accessToken string) oauthmodel.ValidationResult {
	ctx, span := c.tracer.Start(ctx, "token.Validate")
	defer span.End()

	result, err := c.validate(ctx, span, accessToken)
	if err != nil {
		log.Ctx(ctx).Warn().
			Err(err).
			Str("error_class", errors.Class(err)).
			Msg("Token validation failed")
		return oauthmodel.ValidationResult{Validate: false}
	}
	span.SetAttributes(attribute.Bool("token.valid", result.Validate))
	return result
}

func (c *Client) validate(ctx context.Context, span trace.Span, accessToken string) (oauthmodel.ValidationResult, error) {
	body, err := json.Marshal(oauthmodel.ValidateTokenRequest{AccessToken: accessToken})
	if err != nil {
		return oauthmodel.ValidationResult{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+RouteValidateToken, bytes.NewReader(body))
	if err != nil {
		return oauthmodel.ValidationResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	var result oauthmodel.ValidationResult
	if err := c.do(span, req, "validateToken", &result); err != nil {
		return oauthmodel.ValidationResult{}, err
	}
	return result, nil
}

// Refresh trades a refresh token for a new token pair. Concurrent calls with
// the same refresh token share one backend round trip, so a rotating backend
// only sees the token spent once.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (oauthmodel.TokenPair, error) {
	ctx, span := c.tracer.Start(ctx, "token.Refresh")
	defer span.End()

	// The shared call must not die with whichever caller started it.
	sharedCtx := context.WithoutCancel(ctx)
	v, err, shared := c.refreshes.Do(refreshToken, func() (any, error) {
		return c.refresh(sharedCtx, span, refreshToken)
	})
	span.SetAttributes(attribute.Bool("token.refresh_shared", shared))
	if err != nil {
		return oauthmodel.TokenPair{}, err
	}
	return v.(oauthmodel.TokenPair), nil
}

func (c *Client) refresh(ctx context.Context, span trace.Span, refreshToken string) (oauthmodel.TokenPair, error) {
	body, err := json.Marshal(oauthmodel.RefreshTokenRequest{RefreshToken: refreshToken, Scope: c.scope})
	if err != nil {
		return oauthmodel.TokenPair{}, fmt.Errorf("[Token Refresh] %w: %w", errors.ErrTokenRefresh, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+RouteRefreshToken, bytes.NewReader(body))
	if err != nil {
		return oauthmodel.TokenPair{}, fmt.Errorf("[Token Refresh] %w: %w", errors.ErrTokenRefresh, err)
	}
	req.Header.Set("Content-Type", "application/json")

	var pair oauthmodel.TokenPair
	if err := c.do(span, req, "refreshToken", &pair); err != nil {
		return oauthmodel.TokenPair{}, fmt.Errorf("[Token Refresh] %w: %w", errors.ErrTokenRefresh, err)
	}
	if pair.AccessToken == "" {
		err := fmt.Errorf("[Token Refresh] %w: %w: no access_token", errors.ErrTokenRefresh, errors.ErrMalformedResponse)
		recordError(span, err)
		return oauthmodel.TokenPair{}, err
	}
	return pair, nil
}

// do sends req and decodes a 2xx JSON body into out. Non-2xx answers become
// *errors.BackendError carrying the status and the response text.
func (c *Client) do(span trace.Span, req *http.Request, op string, out any) error {
	span.SetAttributes(
		attribute.String("http.request.method", req.Method),
		attribute.String("url.path", req.URL.Path),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("%w: %w", errors.ErrBackendUnavailable, err)
		recordError(span, err)
		return err
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		backendErr := &errors.BackendError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(text)),
		}
		recordError(span, backendErr)
		return backendErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		err = fmt.Errorf("%w: %w", errors.ErrMalformedResponse, err)
		recordError(span, err)
		return err
	}
	return nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, errors.Class(err))
}
