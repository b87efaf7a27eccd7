package server

// Route path constants
const (
	RouteHome = "/"

	// RouteAuthCallback is the identity provider's redirect target (REDIRECT_URI)
	RouteAuthCallback = "/api/auth"
)

// PublicPathPrefixes bypass the session middleware. A path is public when
// the text after its leading slash starts with one of these, so /api/orders
// and /authors are public while /schedule is not.
var PublicPathPrefixes = []string{
	"api",
	"_next",
	"favicon.ico",
	"robots.txt",
	"public",
	"login",
	"auth",
}
