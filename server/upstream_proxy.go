package server

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/rs/zerolog/log"
)

// NewUpstreamProxy forwards requests to the UI server at target. Upstream
// failures answer 502.
func NewUpstreamProxy(target string) (http.Handler, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("[Server NewUpstreamProxy] invalid upstream url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("[Server NewUpstreamProxy] invalid upstream url %q: scheme and host required", target)
	}

	proxy := httputil.NewSingleHostReverseProxy(u)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Ctx(r.Context()).Error().Err(err).Str("upstream", u.Host).Msg("Upstream request failed")
		http.Error(w, "502 - Bad Gateway", http.StatusBadGateway)
	}
	return proxy, nil
}
