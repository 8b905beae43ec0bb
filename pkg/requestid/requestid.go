// Package requestid generates and propagates request ids.
package requestid

import (
	"strings"

	"github.com/google/uuid"
)

const DefaultHeaderKey = "X-Request-Id"

// maxLen bounds ids accepted from clients.
const maxLen = 128

// ResolveHeaderKey returns headerKey when non-empty, otherwise DefaultHeaderKey.
func ResolveHeaderKey(headerKey string) string {
	if v := strings.TrimSpace(headerKey); v != "" {
		return v
	}
	return DefaultHeaderKey
}

// Gen returns a new random (v4) request id.
func Gen() string {
	return uuid.NewString()
}

// FromClient returns the client-supplied id when it is usable, else a new one.
func FromClient(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || len(v) > maxLen || strings.ContainsAny(v, "\r\n") {
		return Gen()
	}
	return v
}
