package identity

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// Discover resolves the authorization endpoint from the issuer's
// /.well-known/openid-configuration document.
func Discover(ctx context.Context, issuerURL string) (oauth2.Endpoint, error) {
	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return oauth2.Endpoint{}, fmt.Errorf("[Identity Discover] failed to create OIDC provider: %w", err)
	}
	return provider.Endpoint(), nil
}
