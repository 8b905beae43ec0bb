package cli

import (
	"fmt"
	"strings"

	"github.com/r9s-ai/lpdb-go/pkg/conditions"
)

// parseWhere splits "field<op>value". The first "::" ends the field name and
// the character after it selects the operator, so "a::>5" is GreaterThan.
func parseWhere(term string) (field string, op conditions.Operator, value string, err error) {
	i := strings.Index(term, "::")
	if i < 0 {
		return "", "", "", fmt.Errorf("where %q: missing operator (one of ::, ::!, ::<, ::>)", term)
	}
	field = strings.TrimSpace(term[:i])
	if field == "" {
		return "", "", "", fmt.Errorf("where %q: empty field", term)
	}
	rest := term[i+2:]
	op = conditions.Equals
	if rest != "" {
		switch rest[0] {
		case '!':
			op, rest = conditions.NotEquals, rest[1:]
		case '<':
			op, rest = conditions.LessThan, rest[1:]
		case '>':
			op, rest = conditions.GreaterThan, rest[1:]
		}
	}
	return field, op, rest, nil
}

// buildWhere joins terms with AND, or with OR when anyOf is set.
func buildWhere(terms []string, anyOf bool) (*conditions.Builder, error) {
	b := conditions.New()
	for _, t := range terms {
		field, op, value, err := parseWhere(t)
		if err != nil {
			return nil, err
		}
		if anyOf {
			b.Or(field, op, value)
		} else {
			b.And(field, op, value)
		}
	}
	if err := b.Err(); err != nil {
		return nil, err
	}
	return b, nil
}

// combineConditions ANDs a raw expression with where terms. Either may be
// empty.
func combineConditions(raw string, where *conditions.Builder) *conditions.Builder {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return where
	}
	if where.Empty() {
		return conditions.Raw(raw)
	}
	return conditions.New().AndGroup(conditions.Raw(raw)).AndGroup(where)
}
