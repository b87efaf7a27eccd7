// Package backendfake is an in-process stand-in for the backend token API.
package backendfake

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/jrsteele09/schedule-gateway/oauthmodel"
	"github.com/jrsteele09/schedule-gateway/token"
)

// Request is a recorded call to the fake.
type Request struct {
	Path        string
	ContentType string
	Form        url.Values
	JSON        map[string]any
}

type failure struct {
	status int
	body   string
}

// Backend issues token pairs for registered auth codes, validates
// registered access tokens, and rotates registered refresh tokens.
type Backend struct {
	server *httptest.Server

	mu            sync.Mutex
	codes         map[string]oauthmodel.TokenPair
	validTokens   map[string]bool
	refreshTokens map[string]oauthmodel.TokenPair
	failures      map[string]failure
	gates         map[string]chan struct{}
	requests      map[string][]Request
}

// New starts the fake; it is closed when the test ends.
func New(t *testing.T) *Backend {
	t.Helper()
	b := &Backend{
		codes:         make(map[string]oauthmodel.TokenPair),
		validTokens:   make(map[string]bool),
		refreshTokens: make(map[string]oauthmodel.TokenPair),
		failures:      make(map[string]failure),
		gates:         make(map[string]chan struct{}),
		requests:      make(map[string][]Request),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST "+token.RouteDelegateToken, b.delegateToken)
	mux.HandleFunc("POST "+token.RouteValidateToken, b.validateToken)
	mux.HandleFunc("POST "+token.RouteRefreshToken, b.refreshToken)
	b.server = httptest.NewServer(mux)
	t.Cleanup(b.server.Close)
	return b
}

func (b *Backend) URL() string {
	return b.server.URL
}

// Close stops the server early, making every later call a transport error.
func (b *Backend) Close() {
	b.server.Close()
}

func (b *Backend) AddCode(code string, pair oauthmodel.TokenPair) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.codes[code] = pair
}

func (b *Backend) AddValidToken(accessToken string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.validTokens[accessToken] = true
}

// AddRefreshToken registers a refresh token that can be spent once for pair.
func (b *Backend) AddRefreshToken(refreshToken string, pair oauthmodel.TokenPair) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refreshTokens[refreshToken] = pair
}

// FailWith makes every call to route answer status with body.
func (b *Backend) FailWith(route string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[route] = failure{status: status, body: body}
}

// Hold makes calls to route wait until the returned release func is called.
func (b *Backend) Hold(route string) (release func()) {
	gate := make(chan struct{})
	b.mu.Lock()
	b.gates[route] = gate
	b.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

func (b *Backend) Calls(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requests[route])
}

func (b *Backend) LastRequest(route string) (Request, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	reqs := b.requests[route]
	if len(reqs) == 0 {
		return Request{}, false
	}
	return reqs[len(reqs)-1], true
}

// record stores the call and reports a forced failure, if any.
func (b *Backend) record(r *http.Request) (Request, failure, bool) {
	rec := Request{Path: r.URL.Path, ContentType: r.Header.Get("Content-Type")}
	if rec.ContentType == "application/x-www-form-urlencoded" {
		_ = r.ParseForm()
		rec.Form = r.PostForm
	} else {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &rec.JSON)
	}

	b.mu.Lock()
	b.requests[r.URL.Path] = append(b.requests[r.URL.Path], rec)
	gate := b.gates[r.URL.Path]
	f, failing := b.failures[r.URL.Path]
	b.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return rec, f, failing
}

func (b *Backend) delegateToken(w http.ResponseWriter, r *http.Request) {
	rec, f, failing := b.record(r)
	if failing {
		http.Error(w, f.body, f.status)
		return
	}

	code := rec.Form.Get(oauthmodel.FormAuthCode)
	b.mu.Lock()
	pair, ok := b.codes[code]
	delete(b.codes, code)
	b.mu.Unlock()
	if !ok {
		http.Error(w, "invalid authorization code", http.StatusBadRequest)
		return
	}
	writeJSON(w, oauthmodel.DelegateTokenResponse{Data: &pair})
}

func (b *Backend) validateToken(w http.ResponseWriter, r *http.Request) {
	rec, f, failing := b.record(r)
	if failing {
		http.Error(w, f.body, f.status)
		return
	}

	accessToken, _ := rec.JSON["access_token"].(string)
	b.mu.Lock()
	valid := b.validTokens[accessToken]
	b.mu.Unlock()
	writeJSON(w, oauthmodel.ValidationResult{Validate: valid})
}

func (b *Backend) refreshToken(w http.ResponseWriter, r *http.Request) {
	rec, f, failing := b.record(r)
	if failing {
		http.Error(w, f.body, f.status)
		return
	}

	refreshToken, _ := rec.JSON["refresh_token"].(string)
	b.mu.Lock()
	pair, ok := b.refreshTokens[refreshToken]
	delete(b.refreshTokens, refreshToken)
	b.mu.Unlock()
	if !ok {
		http.Error(w, "invalid refresh token", http.StatusUnauthorized)
		return
	}
	writeJSON(w, pair)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(v)
}
