package config

import (
	"strings"
	"time"
)

// EnvVars is populated from the environment by caarlos0/env.
type EnvVars struct {
	Port              string        `env:"PORT" envDefault:"8080"`
	AppName           string        `env:"APP_NAME" envDefault:"Schedule Gateway"`
	Env               string        `env:"ENV" envDefault:"DEV"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	UpstreamURL       string        `env:"UPSTREAM_URL" envDefault:"http://localhost:3000"`
	OtelEndpoint      string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	BackendBaseURL    string        `env:"BACKEND_BASE_URL,required,notEmpty"`
	BackendTimeout    time.Duration `env:"BACKEND_TIMEOUT" envDefault:"10s"`
	Scope             string        `env:"SCOPE,required,notEmpty"`
	TenantID          string        `env:"TENANT_ID,required,notEmpty"`
	ClientID          string        `env:"CLIENT_ID,required,notEmpty"`
	RedirectURI       string        `env:"REDIRECT_URI,required,notEmpty"`
	IdentityIssuerURL string        `env:"IDENTITY_ISSUER_URL"`
}

var _ EnvConfig = EnvVars{}
var _ BackendConfig = EnvVars{}
var _ IdentityConfig = EnvVars{}

func (e EnvVars) GetPort() string {
	if strings.HasPrefix(e.Port, ":") {
		return e.Port
	}
	return ":" + e.Port
}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetEnv() string {
	return strings.ToUpper(e.Env)
}

// IsProduction reports whether ENV is PROD or PRODUCTION.
func (e EnvVars) IsProduction() bool {
	env := e.GetEnv()
	return env == "PROD" || env == "PRODUCTION"
}

func (e EnvVars) GetLogLevel() string {
	return e.LogLevel
}

func (e EnvVars) GetUpstreamURL() string {
	return e.UpstreamURL
}

func (e EnvVars) GetOtelEndpoint() string {
	return e.OtelEndpoint
}

// GetBackendBaseURL returns the backend token API base URL without a trailing slash
func (e EnvVars) GetBackendBaseURL() string {
	return strings.TrimRight(e.BackendBaseURL, "/")
}

func (e EnvVars) GetBackendTimeout() time.Duration {
	return e.BackendTimeout
}

func (e EnvVars) GetScope() string {
	return e.Scope
}

func (e EnvVars) GetTenantID() string {
	return e.TenantID
}

func (e EnvVars) GetClientID() string {
	return e.ClientID
}

func (e EnvVars) GetRedirectURI() string {
	return e.RedirectURI
}

// GetIdentityIssuerURL is optional. When set the authorization endpoint is
// discovered from the issuer instead of the fixed Microsoft login endpoint.
func (e EnvVars) GetIdentityIssuerURL() string {
	return e.IdentityIssuerURL
}
