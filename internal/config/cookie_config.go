package config

import "time"

type CookieConfig interface {
	GetDefaultAccessTokenMaxAge() time.Duration
	GetRefreshTokenMaxAge() time.Duration
	GetAuthCodeMaxAge() time.Duration
}

type Cookies struct{}

var _ CookieConfig = Cookies{}

// GetDefaultAccessTokenMaxAge is used when the backend does not report expires_in
func (Cookies) GetDefaultAccessTokenMaxAge() time.Duration {
	return 1 * time.Hour
}

func (Cookies) GetRefreshTokenMaxAge() time.Duration {
	return 360 * 24 * time.Hour // 31,104,000s
}

func (Cookies) GetAuthCodeMaxAge() time.Duration {
	return 5 * time.Minute
}
