// Package logx formats playground access log lines.
package logx

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/fatih/color"
)

type formatPart struct {
	literal string
	varName string
}

// AccessLogFormatter renders a compiled "$var" template.
type AccessLogFormatter struct {
	parts []formatPart
}

const defaultAccessLogFormat = "$time_local | $status | $latency | $client_ip | $method $path | request_id=$request_id resource=$resource upstream_status=$upstream_status"

var accessLogFormatPresets = map[string]string{
	"lpdb_combined": defaultAccessLogFormat,
	"lpdb_minimal":  "$time_local | $status | $latency_ms | $method $path | request_id=$request_id",
}

var allowedAccessLogVars = map[string]struct{}{
	"time_local":      {},
	"status":          {},
	"latency":         {},
	"latency_ms":      {},
	"client_ip":       {},
	"method":          {},
	"path":            {},
	"query":           {},
	"request_id":      {},
	"resource":        {},
	"upstream_status": {},
}

// ResolveAccessLogFormat picks format, else the named preset, else the default.
func ResolveAccessLogFormat(format string, preset string) (string, error) {
	if strings.TrimSpace(format) != "" {
		return format, nil
	}
	p := strings.ToLower(strings.TrimSpace(preset))
	if p == "" {
		return defaultAccessLogFormat, nil
	}
	out, ok := accessLogFormatPresets[p]
	if !ok {
		return "", fmt.Errorf("invalid access_log_format_preset: %q", preset)
	}
	return out, nil
}

// CompileAccessLogFormat parses a template. "$$" is a literal dollar sign.
func CompileAccessLogFormat(format string) (*AccessLogFormatter, error) {
	if strings.TrimSpace(format) == "" {
		return nil, nil
	}
	parts := make([]formatPart, 0, 8)
	var lit strings.Builder
	flushLiteral := func() {
		if lit.Len() == 0 {
			return
		}
		parts = append(parts, formatPart{literal: lit.String()})
		lit.Reset()
	}

	for i := 0; i < len(format); i++ {
		ch := format[i]
		if ch != '$' {
			lit.WriteByte(ch)
			continue
		}
		if i+1 < len(format) && format[i+1] == '$' {
			lit.WriteByte('$')
			i++
			continue
		}
		flushLiteral()
		j := i + 1
		for j < len(format) {
			r := rune(format[j])
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
				break
			}
			j++
		}
		if j == i+1 {
			return nil, fmt.Errorf("invalid access_log_format: missing variable name after '$' at pos %d", i)
		}
		name := format[i+1 : j]
		if _, ok := allowedAccessLogVars[name]; !ok {
			return nil, fmt.Errorf("invalid access_log_format: unknown variable $%s", name)
		}
		parts = append(parts, formatPart{varName: name})
		i = j - 1
	}
	flushLiteral()
	return &AccessLogFormatter{parts: parts}, nil
}

// Entry is one finished request.
type Entry struct {
	Time     time.Time
	Status   int
	Latency  time.Duration
	ClientIP string
	Method   string
	Path     string
	// Fields carries request-scoped values such as request_id or resource.
	Fields map[string]any
}

// Format renders e. Missing variables render as "-".
func (f *AccessLogFormatter) Format(e Entry, colored bool) string {
	if f == nil || len(f.parts) == 0 {
		return ""
	}
	vars := map[string]string{
		"time_local": e.Time.Format("2006/01/02 - 15:04:05"),
		"status":     ColorizeStatus(e.Status, colored),
		"latency":    e.Latency.String(),
		"latency_ms": strconv.FormatInt(e.Latency.Milliseconds(), 10),
		"client_ip":  strings.TrimSpace(e.ClientIP),
		"method":     strings.TrimSpace(e.Method),
		"path":       e.Path,
	}
	for k, v := range e.Fields {
		s := strings.TrimSpace(fmt.Sprintf("%v", v))
		if s == "" || s == "<nil>" {
			continue
		}
		vars[k] = s
	}

	var b strings.Builder
	for _, p := range f.parts {
		if p.literal != "" {
			b.WriteString(p.literal)
			continue
		}
		v := strings.TrimSpace(vars[p.varName])
		if v == "" {
			b.WriteByte('-')
			continue
		}
		b.WriteString(v)
	}
	return b.String()
}

// ColorizeStatus returns the status code, colored by class when colored is set.
func ColorizeStatus(status int, colored bool) string {
	s := strconv.Itoa(status)
	if !colored {
		return s
	}
	var c *color.Color
	switch {
	case status >= 500:
		c = color.New(color.FgRed, color.Bold)
	case status >= 400:
		c = color.New(color.FgYellow)
	case status >= 300:
		c = color.New(color.FgCyan)
	default:
		c = color.New(color.FgGreen)
	}
	c.EnableColor()
	return c.Sprint(s)
}

func AccessLogAllowedVars() []string {
	keys := make([]string, 0, len(allowedAccessLogVars))
	for k := range allowedAccessLogVars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
