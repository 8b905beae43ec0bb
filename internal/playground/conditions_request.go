package playground

import (
	"errors"
	"fmt"
	"strings"

	"github.com/r9s-ai/lpdb-go/pkg/conditions"
)

// conditionsRequest is a JSON description of a filter expression. Each term
// is exactly one of: a comparison (value), a grouped comparison over several
// values (values + inner), a nested group, or a raw fragment.
type conditionsRequest struct {
	Terms []conditionTerm `json:"terms"`
}

type conditionTerm struct {
	Connective string             `json:"connective"`
	Field      string             `json:"field"`
	Operator   string             `json:"operator"`
	Value      any                `json:"value"`
	Values     []any              `json:"values"`
	Inner      string             `json:"inner"`
	Group      *conditionsRequest `json:"group"`
	Raw        *string            `json:"raw"`
}

func (r *conditionsRequest) builder(path string) (*conditions.Builder, error) {
	if len(r.Terms) == 0 {
		return nil, fmt.Errorf("%s: at least one term is required", path)
	}
	b := conditions.New()
	for i, t := range r.Terms {
		at := fmt.Sprintf("%s[%d]", path, i)
		conn, err := parseConnective(t.Connective)
		if err != nil {
			return nil, fmt.Errorf("%s.connective: %w", at, err)
		}
		if err := t.apply(b, conn, at); err != nil {
			return nil, err
		}
		if err := b.Err(); err != nil {
			return nil, fmt.Errorf("%s: %w", at, err)
		}
	}
	return b, nil
}

func (t conditionTerm) apply(b *conditions.Builder, conn conditions.Connective, at string) error {
	switch {
	case t.Group != nil:
		inner, err := t.Group.builder(at + ".group")
		if err != nil {
			return err
		}
		splice(b, conn, inner)
	case t.Raw != nil:
		splice(b, conn, conditions.Raw(*t.Raw))
	case t.Values != nil:
		inner, err := parseConnective(t.Inner)
		if err != nil {
			return fmt.Errorf("%s.inner: %w", at, err)
		}
		op := conditions.Operator(t.Operator)
		switch {
		case conn == conditions.And && inner == conditions.And:
			b.AndAll(t.Field, op, t.Values...)
		case conn == conditions.And:
			b.AndAny(t.Field, op, t.Values...)
		case inner == conditions.And:
			b.OrAll(t.Field, op, t.Values...)
		default:
			b.OrAny(t.Field, op, t.Values...)
		}
	default:
		if strings.TrimSpace(t.Field) == "" {
			return fmt.Errorf("%s: field is required", at)
		}
		if t.Value == nil {
			return fmt.Errorf("%s: one of value, values, group or raw is required", at)
		}
		op := conditions.Operator(t.Operator)
		if conn == conditions.Or {
			b.Or(t.Field, op, t.Value)
		} else {
			b.And(t.Field, op, t.Value)
		}
	}
	return nil
}

func splice(b *conditions.Builder, conn conditions.Connective, other *conditions.Builder) {
	if conn == conditions.Or {
		b.OrGroup(other)
		return
	}
	b.AndGroup(other)
}

// parseConnective accepts AND/OR in any case; empty means AND.
func parseConnective(s string) (conditions.Connective, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", string(conditions.And):
		return conditions.And, nil
	case string(conditions.Or):
		return conditions.Or, nil
	default:
		return "", errors.New("must be AND or OR")
	}
}
