package conditions

import "strings"

// Operator is a comparison token of the filter language.
type Operator string

const (
	Equals      Operator = "::"
	NotEquals   Operator = "::!"
	LessThan    Operator = "::<"
	GreaterThan Operator = "::>"
)

var operators = []Operator{Equals, NotEquals, LessThan, GreaterThan}

// Operators returns every recognized operator.
func Operators() []Operator {
	return append([]Operator(nil), operators...)
}

// Valid reports whether op is one of the four recognized tokens.
func (op Operator) Valid() bool {
	switch op {
	case Equals, NotEquals, LessThan, GreaterThan:
		return true
	default:
		return false
	}
}

func (op Operator) String() string {
	return string(op)
}

func operatorList() string {
	parts := make([]string, 0, len(operators))
	for _, op := range operators {
		parts = append(parts, string(op))
	}
	return strings.Join(parts, ", ")
}

// Connective joins two fragments.
type Connective string

const (
	And Connective = "AND"
	Or  Connective = "OR"
)

func (c Connective) String() string {
	return string(c)
}
