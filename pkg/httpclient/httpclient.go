// Package httpclient defines the transport collaborator used by the LPDB client.
package httpclient

import (
	"net/http"
	"time"
)

// HTTPDoer captures the subset of *http.Client the client relies on.
// Tests inject fake implementations to run without network access.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// New returns an *http.Client with the given overall timeout. A zero timeout
// leaves requests unbounded.
func New(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
