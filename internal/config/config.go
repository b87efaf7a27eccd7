package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/jrsteele09/schedule-gateway/internal/errors"
)

type Config interface {
	EnvConfig
	BackendConfig
	IdentityConfig
	CookieConfig
	SecurityConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	IsProduction() bool
	GetLogLevel() string
	GetUpstreamURL() string
	GetOtelEndpoint() string
}

type BackendConfig interface {
	GetBackendBaseURL() string
	GetBackendTimeout() time.Duration
	GetScope() string
}

type IdentityConfig interface {
	GetTenantID() string
	GetClientID() string
	GetRedirectURI() string
	GetScope() string
	GetIdentityIssuerURL() string
}

type mainConfig struct {
	EnvVars
	Cookies
	Security
}

// New reads the process environment. A missing required variable fails here,
// before any request is handled.
func New() (Config, error) {
	var vars EnvVars
	if err := env.Parse(&vars); err != nil {
		return nil, fmt.Errorf("[Config New] %w: %w", errors.ErrMissingConfig, err)
	}
	return mainConfig{
		EnvVars:  vars,
		Security: Security{production: vars.IsProduction()},
	}, nil
}
