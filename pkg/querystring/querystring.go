// Package querystring serializes LPDB request parameters.
package querystring

import (
	"net/url"

	"github.com/r9s-ai/lpdb-go/internal/valuefmt"
)

// Params maps a parameter name to a scalar value. A nil value marks the
// parameter as absent.
type Params map[string]any

// Clone returns an independent copy of p.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Values converts p into url.Values, dropping absent entries.
func (p Params) Values() url.Values {
	vals := make(url.Values, len(p))
	for k, v := range p {
		if v == nil {
			continue
		}
		vals.Set(k, valuefmt.Format(v))
	}
	return vals
}

// Build returns "?k=v&..." with percent-encoded values, or "" when no entry
// is present. Keys are emitted in sorted order.
func Build(p Params) string {
	encoded := p.Values().Encode()
	if encoded == "" {
		return ""
	}
	return "?" + encoded
}
