package server

import (
	"net/http"
	"time"

	"github.com/jrsteele09/schedule-gateway/internal/errors"
	"github.com/jrsteele09/schedule-gateway/oauthmodel"
	"github.com/jrsteele09/schedule-gateway/sessions"
	"github.com/jrsteele09/schedule-gateway/token"
	"github.com/rs/zerolog/log"
)

// RequireDelegateSession guards UI pages with the delegated-auth cookies.
// The cookie set is resolved to a single sessions.State and exactly one
// branch runs:
//
//	Refreshing      refresh the pair; continue, or log in again
//	Validating      validate delegate_token; continue, or log in again
//	Exchanging      exchange auth_code; redirect home, or log in again
//	Unauthenticated log in
//
// Every failure ends in a redirect to the identity provider, never an error page.
func (s *Server) RequireDelegateSession() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if s.publicPaths.Matches(r.URL.Path) {
				next(w, r)
				return
			}

			cookies := sessions.FromRequest(r)
			state := cookies.State()

			logger := log.Ctx(r.Context()).With().Str("session_state", state.String()).Logger()
			r = r.WithContext(logger.WithContext(r.Context()))

			switch state {
			case sessions.Refreshing:
				s.refreshSession(w, r, next, cookies.RefreshToken)
			case sessions.Validating:
				s.validateSession(w, r, next, cookies.DelegateToken)
			case sessions.Exchanging:
				s.exchangeAuthCode(w, r, cookies.AuthCode)
			default:
				s.redirectToLogin(w, r)
			}
		}
	}
}

func (s *Server) refreshSession(w http.ResponseWriter, r *http.Request, next http.HandlerFunc, refreshToken string) {
	pair, err := s.tokens.Refresh(r.Context(), refreshToken)
	if err != nil {
		log.Ctx(r.Context()).Warn().
			Err(err).
			Str("error_class", errors.Class(err)).
			Msg("Token refresh failed, redirecting to login")
		s.cookies.ClearAll(w)
		s.redirectToLogin(w, r)
		return
	}

	s.cookies.SetTokenPair(w, pair.AccessToken, pair.RefreshToken, s.accessTokenMaxAge(pair))
	log.Ctx(r.Context()).Debug().Msg("Session refreshed")
	next(w, r)
}

func (s *Server) validateSession(w http.ResponseWriter, r *http.Request, next http.HandlerFunc, delegateToken string) {
	if s.tokens.Validate(r.Context(), delegateToken).Validate {
		next(w, r)
		return
	}

	log.Ctx(r.Context()).Info().
		Str("error_class", errors.Class(errors.ErrInvalidToken)).
		Msg("Delegate token rejected, redirecting to login")
	s.cookies.ClearAll(w)
	s.redirectToLogin(w, r)
}

func (s *Server) exchangeAuthCode(w http.ResponseWriter, r *http.Request, authCode string) {
	pair, err := s.tokens.ExchangeCode(r.Context(), authCode)
	if err != nil {
		log.Ctx(r.Context()).Warn().
			Err(err).
			Str("error_class", errors.Class(err)).
			Msg("Authorization code exchange failed, redirecting to login")
		s.cookies.Clear(w, sessions.AuthCodeCookie)
		s.redirectToLogin(w, r)
		return
	}

	s.cookies.SetTokenPair(w, pair.AccessToken, pair.RefreshToken, s.accessTokenMaxAge(pair))
	log.Ctx(r.Context()).Info().Msg("Authorization code exchanged")
	http.Redirect(w, r, RouteHome, http.StatusFound)
}

func (s *Server) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, s.idp.AuthorizationURL(), http.StatusFound)
}

func (s *Server) accessTokenMaxAge(pair oauthmodel.TokenPair) time.Duration {
	return token.AccessTokenLifetime(pair, s.config.GetDefaultAccessTokenMaxAge())
}
