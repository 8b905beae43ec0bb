// Package schema describes which query parameters each LPDB resource accepts.
package schema

import (
	"sort"
	"strings"
)

// Resource identifies an endpoint path such as "/player".
type Resource string

// Normalize trims r and ensures a single leading slash.
func (r Resource) Normalize() Resource {
	s := strings.TrimSpace(string(r))
	if s == "" {
		return ""
	}
	return Resource("/" + strings.TrimLeft(s, "/"))
}

func (r Resource) String() string {
	return string(r)
}

const (
	Broadcasters      Resource = "/broadcasters"
	Company           Resource = "/company"
	Datapoint         Resource = "/datapoint"
	ExternalMediaLink Resource = "/externalmedialink"
	Match             Resource = "/match"
	Placement         Resource = "/placement"
	Player            Resource = "/player"
	Series            Resource = "/series"
	SquadPlayer       Resource = "/squadplayer"
	StandingsEntry    Resource = "/standingsentry"
	StandingsTable    Resource = "/standingstable"
	Team              Resource = "/team"
	TeamTemplate      Resource = "/teamtemplate"
	TeamTemplateList  Resource = "/teamtemplatelist"
	Tournament        Resource = "/tournament"
	Transfer          Resource = "/transfer"
)

// Parameter names used by the LPDB v3 API.
const (
	ParamWiki       = "wiki"
	ParamConditions = "conditions"
	ParamQuery      = "query"
	ParamLimit      = "limit"
	ParamOffset     = "offset"
	ParamOrder      = "order"
	ParamGroupBy    = "groupby"
	ParamRawStreams = "rawstreams"
	ParamStreamURLs = "streamurls"
	ParamTemplate   = "template"
	ParamDate       = "date"
	ParamPagination = "pagination"
)

// StandardResources lists the endpoints that accept the standard parameter set.
var StandardResources = []Resource{
	Broadcasters, Company, Datapoint, ExternalMediaLink, Placement, Player, Series,
	SquadPlayer, StandingsEntry, StandingsTable, Team, Tournament, Transfer,
}

// StandardParams are accepted by every standard resource and by /match.
var StandardParams = []string{
	ParamWiki, ParamConditions, ParamQuery, ParamLimit, ParamOffset, ParamOrder, ParamGroupBy,
}

// ParamSet is the set of legal parameter names of one resource.
type ParamSet map[string]struct{}

// NewParamSet builds a set from names, ignoring blanks.
func NewParamSet(names ...string) ParamSet {
	s := make(ParamSet, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is legal.
func (s ParamSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the sorted parameter names.
func (s ParamSet) Names() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Schema maps resources to their legal parameters. A Schema is read-only
// once built and safe for concurrent readers.
type Schema struct {
	resources map[Resource]ParamSet
}

// New builds a schema from a resource to parameter-name mapping.
func New(m map[Resource][]string) *Schema {
	s := &Schema{resources: make(map[Resource]ParamSet, len(m))}
	for r, names := range m {
		r = r.Normalize()
		if r == "" {
			continue
		}
		s.resources[r] = NewParamSet(names...)
	}
	return s
}

// Default returns the LPDB v3 schema.
func Default() *Schema {
	m := make(map[Resource][]string, len(StandardResources)+3)
	for _, r := range StandardResources {
		m[r] = StandardParams
	}
	m[Match] = append(append([]string(nil), StandardParams...), ParamRawStreams, ParamStreamURLs)
	m[TeamTemplate] = []string{ParamWiki, ParamTemplate, ParamDate}
	m[TeamTemplateList] = []string{ParamWiki, ParamPagination}
	return New(m)
}

// Has reports whether the resource is known.
func (s *Schema) Has(r Resource) bool {
	if s == nil {
		return false
	}
	_, ok := s.resources[r.Normalize()]
	return ok
}

// Allows reports whether param is legal for the resource.
func (s *Schema) Allows(r Resource, param string) bool {
	if s == nil {
		return false
	}
	set, ok := s.resources[r.Normalize()]
	if !ok {
		return false
	}
	return set.Has(param)
}

// Params returns the sorted legal parameters of r, or nil for unknown resources.
func (s *Schema) Params(r Resource) []string {
	if s == nil {
		return nil
	}
	set, ok := s.resources[r.Normalize()]
	if !ok {
		return nil
	}
	return set.Names()
}

// Resources returns every known resource in sorted order.
func (s *Schema) Resources() []Resource {
	if s == nil {
		return nil
	}
	out := make([]Resource, 0, len(s.resources))
	for r := range s.resources {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Map returns a copy of the schema as resource to sorted parameter names.
func (s *Schema) Map() map[Resource][]string {
	out := make(map[Resource][]string, len(s.Resources()))
	for _, r := range s.Resources() {
		out[r] = s.Params(r)
	}
	return out
}
