package server

import "net/http"

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET "+RouteAuthCallback, ChainMiddleware(s.AuthCallbackHandler(), s.HTMLMiddleWare()...))

	// Everything else is the UI: session-checked unless public, then proxied.
	s.RegisterRouteHandler(RouteHome, ChainMiddleware(s.upstreamHandler(), s.HTMLMiddleWare(s.RequireDelegateSession())...))
}

func (s *Server) upstreamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.upstream.ServeHTTP(w, r)
	}
}
