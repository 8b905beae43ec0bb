// Package jsonutil extracts values from decoded JSON documents.
package jsonutil

import (
	"fmt"
	"strconv"
	"strings"
)

// segment is one step of a compiled path: a member name, an index or [*].
type segment struct {
	name  string
	index int
	star  bool
	isIdx bool
}

// Path is a compiled expression of the restricted JSONPath subset:
//
//	$
//	$.result
//	$.result[0].name
//	$.result[*].name
//	$.result[*].extradata.region
type Path struct {
	raw  string
	segs []segment
}

// Compile parses expr.
func Compile(expr string) (*Path, error) {
	p := strings.TrimSpace(expr)
	if p == "$" {
		return &Path{raw: p}, nil
	}
	if !strings.HasPrefix(p, "$.") {
		return nil, fmt.Errorf("jsonpath %q: must start with \"$.\"", expr)
	}
	out := &Path{raw: p}
	for _, part := range strings.Split(strings.TrimPrefix(p, "$."), ".") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("jsonpath %q: empty segment", expr)
		}
		name := part
		var idx []string
		if open := strings.IndexByte(part, '['); open >= 0 {
			name = part[:open]
			rest := part[open:]
			for rest != "" {
				if rest[0] != '[' {
					return nil, fmt.Errorf("jsonpath %q: unexpected %q", expr, rest)
				}
				end := strings.IndexByte(rest, ']')
				if end < 0 {
					return nil, fmt.Errorf("jsonpath %q: missing ]", expr)
				}
				idx = append(idx, strings.TrimSpace(rest[1:end]))
				rest = rest[end+1:]
			}
		}
		if name != "" {
			out.segs = append(out.segs, segment{name: name})
		}
		for _, in := range idx {
			if in == "*" {
				out.segs = append(out.segs, segment{isIdx: true, star: true})
				continue
			}
			n, err := strconv.Atoi(in)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("jsonpath %q: invalid index %q", expr, in)
			}
			out.segs = append(out.segs, segment{isIdx: true, index: n})
		}
	}
	return out, nil
}

func (p *Path) String() string {
	return p.raw
}

// Select returns every terminal value matched in root. ok is false when a
// non-wildcard step does not resolve.
func (p *Path) Select(root any) (vals []any, ok bool) {
	return collect(root, p.segs)
}

// GetValuesByPath is Compile followed by Select; invalid paths match nothing.
func GetValuesByPath(root any, path string) ([]any, bool) {
	p, err := Compile(path)
	if err != nil {
		return nil, false
	}
	return p.Select(root)
}

func collect(cur any, segs []segment) ([]any, bool) {
	if len(segs) == 0 {
		return []any{cur}, true
	}
	s, rest := segs[0], segs[1:]
	if !s.isIdx {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		next, ok := m[s.name]
		if !ok {
			return nil, false
		}
		return collect(next, rest)
	}
	arr, ok := cur.([]any)
	if !ok {
		return nil, false
	}
	if !s.star {
		if s.index >= len(arr) {
			return nil, false
		}
		return collect(arr[s.index], rest)
	}
	out := make([]any, 0, len(arr))
	for _, item := range arr {
		vals, ok := collect(item, rest)
		if !ok {
			continue
		}
		out = append(out, vals...)
	}
	return out, true
}

// CoerceString converts a value to string when it is already a string.
func CoerceString(v any) string {
	s, _ := v.(string)
	return s
}
