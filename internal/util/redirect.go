package util

import (
	"net/url"
	"strings"
)

// SafeNext returns next when it is a same-origin relative path and fallback otherwise.
// Absolute URLs, scheme-relative "//host" forms and backslash tricks are rejected.
func SafeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" || u.User != nil {
		return fallback
	}
	return next
}
