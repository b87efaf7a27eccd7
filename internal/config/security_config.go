package config

type SecurityConfig interface {
	GetSecureCookies() bool
}

type Security struct {
	production bool
}

var _ SecurityConfig = Security{}

// GetSecureCookies is true only for production deployments
func (s Security) GetSecureCookies() bool {
	return s.production
}
