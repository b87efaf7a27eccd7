package identity

import (
	"fmt"
	"strings"

	"github.com/jrsteele09/schedule-gateway/internal/errors"
	"github.com/jrsteele09/schedule-gateway/oauthmodel"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"
)

// RedirectBuilder builds the identity provider's authorization URL that
// unauthenticated browsers are sent to.
type RedirectBuilder struct {
	config oauth2.Config
}

type Option func(*RedirectBuilder)

// WithEndpoint replaces the Microsoft login endpoint, e.g. with one found by Discover.
func WithEndpoint(endpoint oauth2.Endpoint) Option {
	return func(b *RedirectBuilder) {
		b.config.Endpoint = endpoint
	}
}

// NewRedirectBuilder fails fast when any of its inputs is empty.
func NewRedirectBuilder(tenantID, clientID, scope, redirectURI string, opts ...Option) (*RedirectBuilder, error) {
	var missing []string
	if tenantID == "" {
		missing = append(missing, "tenant id")
	}
	if clientID == "" {
		missing = append(missing, "client id")
	}
	if strings.TrimSpace(scope) == "" {
		missing = append(missing, "scope")
	}
	if redirectURI == "" {
		missing = append(missing, "redirect uri")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("[Identity NewRedirectBuilder] %w: %s", errors.ErrMissingConfig, strings.Join(missing, ", "))
	}

	b := &RedirectBuilder{
		config: oauth2.Config{
			ClientID:    clientID,
			RedirectURL: redirectURI,
			Scopes:      strings.Fields(scope),
			Endpoint:    microsoft.AzureADEndpoint(tenantID),
		},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// AuthorizationURL returns the authorize URL with client_id, response_type=code,
// redirect_uri, response_mode=query and scope. No state parameter is sent.
func (b *RedirectBuilder) AuthorizationURL() string {
	authURL := b.config.AuthCodeURL("",
		oauth2.SetAuthURLParam("response_mode", string(oauthmodel.QueryResponseMode)),
	)
	// url.Values encodes spaces as '+'; the identity provider expects %20.
	// A literal '+' in a value is already escaped as %2B.
	return strings.ReplaceAll(authURL, "+", "%20")
}
