package oauthmodel

// TokenPair is issued by the backend on code exchange and refresh.
// It is copied into cookies straight away and never stored server-side.
type TokenPair struct {
	// AccessToken becomes the delegate_token cookie.
	AccessToken string `json:"access_token"`

	// RefreshToken becomes the refresh_token cookie.
	RefreshToken string `json:"refresh_token"`

	// TokenType is normally "Bearer".
	TokenType string `json:"token_type"`

	// ExpiresIn is the access token lifetime in seconds. Zero means not reported.
	ExpiresIn int `json:"expires_in"`

	// Scope is the space separated list of granted scopes.
	Scope string `json:"scope"`
}

// ValidationResult is the answer of /auth/validateToken.
type ValidationResult struct {
	Validate bool `json:"validate"`
}

// DelegateTokenResponse wraps the exchange result, which the backend nests under "data".
type DelegateTokenResponse struct {
	Data *TokenPair `json:"data"`
}

// ValidateTokenRequest is the JSON body of /auth/validateToken.
type ValidateTokenRequest struct {
	AccessToken string `json:"access_token"`
}

// RefreshTokenRequest is the JSON body of /auth/refreshToken.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
	Scope        string `json:"scope"`
}
