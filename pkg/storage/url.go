package storage

import "strings"

// IsAbsoluteURL reports whether value already points at an external host.
func IsAbsoluteURL(value string) bool {
	return strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://")
}

// PublicURL turns a stored blob reference into the URL clients fetch it from.
// Absolute URLs pass through unchanged.
func PublicURL(base, value string) string {
	if value == "" || IsAbsoluteURL(value) {
		return value
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(value, "/")
}
