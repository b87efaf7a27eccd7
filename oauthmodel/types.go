package oauthmodel

// ResponseType represents the OAuth 2.0 response type requested from the identity provider.
type ResponseType string

const (
	// CodeResponseType requests an authorization code.
	CodeResponseType ResponseType = "code"
)

// ResponseModeType denotes how the identity provider returns the authorization response.
type ResponseModeType string

const (
	// QueryResponseMode returns the code in the redirect URI query string,
	// e.g. https://app.example.com/api/auth?code=ABC123
	QueryResponseMode ResponseModeType = "query"
)

// Form field names of /auth/delegateToken.
const (
	FormAuthCode    = "authCode"
	FormScope       = "scope"
	FormRedirectURI = "redirectUri"
)
