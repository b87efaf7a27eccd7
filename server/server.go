package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/schedule-gateway/identity"
	"github.com/jrsteele09/schedule-gateway/internal/config"
	"github.com/jrsteele09/schedule-gateway/oauthmodel"
	"github.com/jrsteele09/schedule-gateway/sessions"
	"github.com/jrsteele09/schedule-gateway/token"
	"github.com/rs/zerolog/log"
)

// TokenClient is the backend token API as seen by the session middleware.
type TokenClient interface {
	ExchangeCode(ctx context.Context, authCode string) (oauthmodel.TokenPair, error)
	Validate(ctx context.Context, accessToken string) oauthmodel.ValidationResult
	Refresh(ctx context.Context, refreshToken string) (oauthmodel.TokenPair, error)
}

// AuthorizationRedirector supplies the identity provider login URL.
type AuthorizationRedirector interface {
	AuthorizationURL() string
}

var (
	_ TokenClient             = (*token.Client)(nil)
	_ AuthorizationRedirector = (*identity.RedirectBuilder)(nil)
)

type Server struct {
	env         string // Environment (e.g., "DEV", "PRODUCTION")
	mux         *http.ServeMux
	routes      []string
	config      config.Config
	tokens      TokenClient
	idp         AuthorizationRedirector
	upstream    http.Handler
	cookies     sessions.CookieWriter
	publicPaths *PathMatcher
}

// New wires the gateway. upstream receives every page request that the
// session middleware lets through, plus the excluded public paths.
func New(config config.Config, tokens TokenClient, idp AuthorizationRedirector, upstream http.Handler) (*Server, error) {
	if config == nil || tokens == nil || idp == nil || upstream == nil {
		return nil, errors.New("[Server New] config, token client, identity redirector and upstream are required")
	}

	s := &Server{
		env:      config.GetEnv(),
		mux:      http.NewServeMux(),
		config:   config,
		tokens:   tokens,
		idp:      idp,
		upstream: upstream,
		cookies: sessions.CookieWriter{
			Secure:             config.GetSecureCookies(),
			RefreshTokenMaxAge: config.GetRefreshTokenMaxAge(),
			AuthCodeMaxAge:     config.GetAuthCodeMaxAge(),
		},
		publicPaths: NewPathMatcher(PublicPathPrefixes...),
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

const (
	green      = "\033[32m"
	blue       = "\033[34m"
	cyan       = "\033[36m"
	yellow     = "\033[33m"
	magenta    = "\033[35m"
	gray       = "\033[90m"
	resetColor = "\033[0m"
)

var methodColors = map[string]string{
	"GET":    green,
	"POST":   blue,
	"PUT":    cyan,
	"DELETE": yellow,
	"PATCH":  magenta,
}

func logRoute(method, path string) {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	color, ok := methodColors[method]
	if !ok {
		color = gray
	}
	log.Info().Msgf("[%-19s] %s", color+paddedMethod+resetColor, path)
}
