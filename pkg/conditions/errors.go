package conditions

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOperator is wrapped by a ValidationError for unknown operator tokens.
	ErrInvalidOperator = errors.New("invalid operator")
	// ErrEmptyValues is wrapped by a ValidationError when a grouped call gets no values.
	ErrEmptyValues = errors.New("empty values")
)

// ValidationError reports an invalid builder call.
type ValidationError struct {
	// Call is the builder method that failed, e.g. "And" or "OrAny".
	Call     string
	Field    string
	Operator Operator
	Err      error
}

func (e *ValidationError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	switch {
	case errors.Is(e.Err, ErrInvalidOperator):
		return fmt.Sprintf("conditions: %s: invalid operator %q (valid: %s)", e.Call, string(e.Operator), operatorList())
	case errors.Is(e.Err, ErrEmptyValues):
		return fmt.Sprintf("conditions: %s: field %q: no values to group", e.Call, e.Field)
	default:
		return fmt.Sprintf("conditions: %s: %v", e.Call, e.Err)
	}
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
