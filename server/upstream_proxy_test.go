package server_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/schedule-gateway/server"
	"github.com/stretchr/testify/require"
)

func TestNewUpstreamProxy(t *testing.T) {
	ui := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "ui", Value: "1"})
		_, _ = io.WriteString(w, "ui "+r.URL.Path)
	}))
	defer ui.Close()

	proxy, err := server.NewUpstreamProxy(ui.URL)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	http.SetCookie(rec, &http.Cookie{Name: "delegate_token", Value: "A"})
	proxy.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/schedule", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ui /schedule", rec.Body.String())
	require.Len(t, rec.Header().Values("Set-Cookie"), 2)
}

func TestNewUpstreamProxy_InvalidURL(t *testing.T) {
	for _, target := range []string{"", "localhost:3000", "://bad"} {
		_, err := server.NewUpstreamProxy(target)
		require.Error(t, err, target)
	}
}

func TestNewUpstreamProxy_Unreachable(t *testing.T) {
	ui := httptest.NewServer(http.NotFoundHandler())
	target := ui.URL
	ui.Close()

	proxy, err := server.NewUpstreamProxy(target)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	proxy.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusBadGateway, rec.Code)
}
