package conditions

import (
	"strings"

	"github.com/r9s-ai/lpdb-go/internal/valuefmt"
)

// fragment is one unit of rendered filter text.
type fragment struct {
	text string
	// grouped is set when text is enclosed in parentheses added by a builder.
	grouped bool
	// mixed is set when the fragment's internal connectives are not uniform.
	mixed bool
	// compound is set when the fragment joins more than one term.
	compound bool
}

// Builder assembles a filter expression. The zero value is an empty builder.
//
// len(conns) is always max(0, len(frags)-1); both only grow at the end.
type Builder struct {
	frags []fragment
	conns []Connective
	err   error
}

// New returns an empty builder.
func New() *Builder {
	return &Builder{}
}

// Where returns a builder holding the single term [[field<op>value]].
func Where(field string, op Operator, value any) *Builder {
	b := &Builder{}
	return b.appendTerm("Where", And, field, op, value)
}

// Raw returns a builder seeded with an externally authored expression. The
// text is kept verbatim; an empty string yields an empty builder.
func Raw(text string) *Builder {
	b := &Builder{}
	if text == "" {
		return b
	}
	b.frags = append(b.frags, fragment{
		text:     text,
		grouped:  isEnclosed(text),
		compound: hasTopLevelConnective(text),
	})
	return b
}

// And appends [[field<op>value]] joined with AND.
func (b *Builder) And(field string, op Operator, value any) *Builder {
	return b.appendTerm("And", And, field, op, value)
}

// Or appends [[field<op>value]] joined with OR.
func (b *Builder) Or(field string, op Operator, value any) *Builder {
	return b.appendTerm("Or", Or, field, op, value)
}

// AndAll appends, joined with AND, a group requiring every value to match.
func (b *Builder) AndAll(field string, op Operator, values ...any) *Builder {
	return b.appendGroupAll("AndAll", And, And, field, op, values)
}

// AndAny appends, joined with AND, a group requiring any value to match.
func (b *Builder) AndAny(field string, op Operator, values ...any) *Builder {
	return b.appendGroupAll("AndAny", And, Or, field, op, values)
}

// OrAll appends, joined with OR, a group requiring every value to match.
func (b *Builder) OrAll(field string, op Operator, values ...any) *Builder {
	return b.appendGroupAll("OrAll", Or, And, field, op, values)
}

// OrAny appends, joined with OR, a group requiring any value to match.
func (b *Builder) OrAny(field string, op Operator, values ...any) *Builder {
	return b.appendGroupAll("OrAny", Or, Or, field, op, values)
}

// AndGroup splices the current expression of other, joined with AND.
func (b *Builder) AndGroup(other *Builder) *Builder {
	return b.appendGroup(And, other)
}

// OrGroup splices the current expression of other, joined with OR.
func (b *Builder) OrGroup(other *Builder) *Builder {
	return b.appendGroup(Or, other)
}

// Len returns the number of top-level fragments.
func (b *Builder) Len() int {
	if b == nil {
		return 0
	}
	return len(b.frags)
}

// Empty reports whether the builder renders to "".
func (b *Builder) Empty() bool {
	return b.Len() == 0
}

// Err returns the first validation error recorded by the builder.
func (b *Builder) Err() error {
	if b == nil {
		return nil
	}
	return b.err
}

// String renders the expression. It has no side effects and may be called
// at any point.
func (b *Builder) String() string {
	if b == nil || len(b.frags) == 0 {
		return ""
	}
	if len(b.frags) == 1 {
		return b.frags[0].text
	}
	var sb strings.Builder
	sb.WriteString(b.frags[0].text)
	for i, conn := range b.conns {
		sb.WriteByte(' ')
		sb.WriteString(string(conn))
		sb.WriteByte(' ')
		sb.WriteString(b.frags[i+1].text)
	}
	return sb.String()
}

// Build returns the rendered expression together with any recorded error.
func (b *Builder) Build() (string, error) {
	return b.String(), b.Err()
}

func (b *Builder) appendTerm(call string, conn Connective, field string, op Operator, value any) *Builder {
	if b.err != nil {
		return b
	}
	if !op.Valid() {
		b.err = &ValidationError{Call: call, Field: field, Operator: op, Err: ErrInvalidOperator}
		return b
	}
	b.push(conn, fragment{text: term(field, op, value)})
	return b
}

func (b *Builder) appendGroupAll(call string, outer, inner Connective, field string, op Operator, values []any) *Builder {
	if b.err != nil {
		return b
	}
	if !op.Valid() {
		b.err = &ValidationError{Call: call, Field: field, Operator: op, Err: ErrInvalidOperator}
		return b
	}
	if len(values) == 0 {
		b.err = &ValidationError{Call: call, Field: field, Operator: op, Err: ErrEmptyValues}
		return b
	}
	if len(values) == 1 {
		b.push(outer, fragment{text: term(field, op, values[0])})
		return b
	}
	terms := make([]string, 0, len(values))
	for _, v := range values {
		terms = append(terms, term(field, op, v))
	}
	b.push(outer, fragment{
		text:     "(" + strings.Join(terms, " "+string(inner)+" ") + ")",
		grouped:  true,
		compound: true,
	})
	return b
}

func (b *Builder) appendGroup(conn Connective, other *Builder) *Builder {
	if b.err != nil {
		return b
	}
	if other == nil {
		return b
	}
	if other.err != nil {
		b.err = other.err
		return b
	}
	if len(other.frags) == 0 {
		return b
	}
	text := other.String()
	f := fragment{
		text:     text,
		mixed:    other.mixed(),
		compound: len(other.frags) > 1 || other.frags[0].compound,
		grouped:  len(other.frags) == 1 && other.frags[0].grouped,
	}
	if other.needsParens() {
		f.text = "(" + text + ")"
		f.grouped = true
	}
	b.push(conn, f)
	return b
}

func (b *Builder) push(conn Connective, f fragment) {
	if len(b.frags) > 0 {
		b.conns = append(b.conns, conn)
	}
	b.frags = append(b.frags, f)
}

// mixed reports whether the top-level connectives are not all identical.
func (b *Builder) mixed() bool {
	for _, c := range b.conns[min(1, len(b.conns)):] {
		if c != b.conns[0] {
			return true
		}
	}
	return false
}

// needsParens reports whether the rendered expression must be wrapped when
// nested into another builder.
func (b *Builder) needsParens() bool {
	if len(b.frags) > 1 || b.mixed() {
		return true
	}
	if len(b.frags) == 1 {
		f := b.frags[0]
		return !f.grouped && (f.compound || f.mixed)
	}
	return false
}

func term(field string, op Operator, value any) string {
	return "[[" + field + string(op) + valuefmt.Format(value) + "]]"
}

// hasTopLevelConnective reports whether s joins terms with AND/OR outside of
// [[...]] and (...).
func hasTopLevelConnective(s string) bool {
	depth := 0
	brackets := 0
	for i := 0; i < len(s); i++ {
		switch {
		case strings.HasPrefix(s[i:], "[["):
			brackets++
			i++
		case strings.HasPrefix(s[i:], "]]") && brackets > 0:
			brackets--
			i++
		case brackets > 0:
		case s[i] == '(':
			depth++
		case s[i] == ')':
			if depth > 0 {
				depth--
			}
		case depth == 0 && (strings.HasPrefix(s[i:], " AND ") || strings.HasPrefix(s[i:], " OR ")):
			return true
		}
	}
	return false
}

// isEnclosed reports whether s is a single parenthesized group.
func isEnclosed(s string) bool {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return false
	}
	depth := 0
	brackets := 0
	for i := 0; i < len(s); i++ {
		switch {
		case strings.HasPrefix(s[i:], "[["):
			brackets++
			i++
		case strings.HasPrefix(s[i:], "]]") && brackets > 0:
			brackets--
			i++
		case brackets > 0:
		case s[i] == '(':
			depth++
		case s[i] == ')':
			depth--
			if depth == 0 && i != len(s)-1 {
				return false
			}
		}
	}
	return depth == 0
}
