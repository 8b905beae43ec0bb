// Package conditions builds filter expressions for the LPDB `conditions`
// query parameter.
//
// The filter language has no implicit operator precedence: terms are joined
// left to right and grouping is only ever expressed with explicit
// parentheses. A Builder therefore keeps its expression as an ordered list of
// fragments joined by connectives and only adds parentheses where a nested
// expression has more than one term or mixes AND with OR.
//
// Atomic terms render as
//
//	[[field<op>value]]
//
// with op one of "::" (equals), "::!" (not equals), "::<" (less than) and
// "::>" (greater than).
//
// Builders are mutable and not safe for concurrent use. The first invalid
// call records a *ValidationError; later mutations are ignored and the error
// is reported by Err and Build.
package conditions
