package lpdb

import (
	"errors"
	"fmt"

	"github.com/r9s-ai/lpdb-go/pkg/schema"
)

// ErrMissingAPIKey is returned by New when Options.APIKey is blank.
var ErrMissingAPIKey = errors.New("lpdb: api key is required")

// SchemaViolation reports a resource or parameter that the schema does not allow.
// Param is empty when the resource itself is unknown.
type SchemaViolation struct {
	Resource schema.Resource
	Param    string
}

func (e *SchemaViolation) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("lpdb: unknown resource %q", string(e.Resource))
	}
	return fmt.Sprintf("lpdb: parameter %q is not accepted by %s", e.Param, e.Resource)
}

// APIError is returned when the API answered with a non-2xx status.
type APIError struct {
	Status  int
	Message string
	// Data is the decoded error body, or an empty map when it was not JSON.
	Data any
}

func newAPIError(status int, data any) *APIError {
	if data == nil {
		data = map[string]any{}
	}
	return &APIError{
		Status:  status,
		Message: fmt.Sprintf("API request failed with status %d", status),
		Data:    data,
	}
}

func (e *APIError) Error() string {
	return e.Message
}

// Errors returns the strings of the "error" member of Data, if any.
func (e *APIError) Errors() []string {
	m, ok := e.Data.(map[string]any)
	if !ok {
		return nil
	}
	switch v := m["error"].(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
