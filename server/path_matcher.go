package server

import "strings"

// PathMatcher decides which request paths skip the session middleware.
type PathMatcher struct {
	prefixes []string
}

func NewPathMatcher(prefixes ...string) *PathMatcher {
	return &PathMatcher{prefixes: prefixes}
}

// Matches reports whether the path, minus its leading slash, starts with
// one of the prefixes. The root path never matches.
func (pm *PathMatcher) Matches(requestPath string) bool {
	rest, ok := strings.CutPrefix(requestPath, "/")
	if !ok || rest == "" {
		return false
	}
	for _, prefix := range pm.prefixes {
		if strings.HasPrefix(rest, prefix) {
			return true
		}
	}
	return false
}
