package lpdb

import (
	"context"
	"slices"

	"github.com/r9s-ai/lpdb-go/pkg/conditions"
	"github.com/r9s-ai/lpdb-go/pkg/schema"
)

// The typed queries below expose only the setters their resource accepts, so
// an illegal parameter does not compile. They share the runtime checks of
// Query, which still applies when a custom schema narrows a resource.

// StandardQuery is a query against one of schema.StandardResources.
type StandardQuery struct {
	q *Query
}

// Standard starts a typed query against a standard resource such as
// schema.Player. Resources outside schema.StandardResources are recorded as a
// *SchemaViolation.
func (c *Client) Standard(resource schema.Resource) *StandardQuery {
	q := c.Endpoint(resource)
	if q.err == nil && !slices.Contains(schema.StandardResources, q.resource) {
		q.err = &SchemaViolation{Resource: q.resource}
	}
	return &StandardQuery{q: q}
}

func (s *StandardQuery) Wiki(wiki string) *StandardQuery {
	s.q.Wiki(wiki)
	return s
}

func (s *StandardQuery) Wikis(wikis ...string) *StandardQuery {
	s.q.Wikis(wikis...)
	return s
}

func (s *StandardQuery) Conditions(expr string) *StandardQuery {
	s.q.Conditions(expr)
	return s
}

func (s *StandardQuery) Where(b *conditions.Builder) *StandardQuery {
	s.q.Where(b)
	return s
}

func (s *StandardQuery) Query(fields ...string) *StandardQuery {
	s.q.Query(fields...)
	return s
}

func (s *StandardQuery) Limit(n int) *StandardQuery {
	s.q.Limit(n)
	return s
}

func (s *StandardQuery) Offset(n int) *StandardQuery {
	s.q.Offset(n)
	return s
}

func (s *StandardQuery) Order(order string) *StandardQuery {
	s.q.Order(order)
	return s
}

func (s *StandardQuery) GroupBy(groupBy string) *StandardQuery {
	s.q.GroupBy(groupBy)
	return s
}

// Base returns the untyped query backing s.
func (s *StandardQuery) Base() *Query { return s.q }

func (s *StandardQuery) Err() error { return s.q.Err() }

func (s *StandardQuery) Materialize() (Request, error) { return s.q.Materialize() }

func (s *StandardQuery) Execute(ctx context.Context) (*Response, error) { return s.q.Execute(ctx) }

func (s *StandardQuery) ExecuteInto(ctx context.Context, out any) error { return s.q.ExecuteInto(ctx, out) }

// MatchQuery is a query against /match.
type MatchQuery struct {
	q *Query
}

// Match starts a typed query against /match.
func (c *Client) Match() *MatchQuery {
	return &MatchQuery{q: c.Endpoint(schema.Match)}
}

func (m *MatchQuery) Wiki(wiki string) *MatchQuery {
	m.q.Wiki(wiki)
	return m
}

func (m *MatchQuery) Wikis(wikis ...string) *MatchQuery {
	m.q.Wikis(wikis...)
	return m
}

func (m *MatchQuery) Conditions(expr string) *MatchQuery {
	m.q.Conditions(expr)
	return m
}

func (m *MatchQuery) Where(b *conditions.Builder) *MatchQuery {
	m.q.Where(b)
	return m
}

func (m *MatchQuery) Query(fields ...string) *MatchQuery {
	m.q.Query(fields...)
	return m
}

func (m *MatchQuery) Limit(n int) *MatchQuery {
	m.q.Limit(n)
	return m
}

func (m *MatchQuery) Offset(n int) *MatchQuery {
	m.q.Offset(n)
	return m
}

func (m *MatchQuery) Order(order string) *MatchQuery {
	m.q.Order(order)
	return m
}

func (m *MatchQuery) GroupBy(groupBy string) *MatchQuery {
	m.q.GroupBy(groupBy)
	return m
}

func (m *MatchQuery) RawStreams(enabled bool) *MatchQuery {
	m.q.RawStreams(enabled)
	return m
}

func (m *MatchQuery) StreamURLs(enabled bool) *MatchQuery {
	m.q.StreamURLs(enabled)
	return m
}

// Base returns the untyped query backing m.
func (m *MatchQuery) Base() *Query { return m.q }

func (m *MatchQuery) Err() error { return m.q.Err() }

func (m *MatchQuery) Materialize() (Request, error) { return m.q.Materialize() }

func (m *MatchQuery) Execute(ctx context.Context) (*Response, error) { return m.q.Execute(ctx) }

func (m *MatchQuery) ExecuteInto(ctx context.Context, out any) error { return m.q.ExecuteInto(ctx, out) }

// TeamTemplateQuery is a query against /teamtemplate.
type TeamTemplateQuery struct {
	q *Query
}

// TeamTemplate starts a typed query against /teamtemplate.
func (c *Client) TeamTemplate() *TeamTemplateQuery {
	return &TeamTemplateQuery{q: c.Endpoint(schema.TeamTemplate)}
}

func (t *TeamTemplateQuery) Wiki(wiki string) *TeamTemplateQuery {
	t.q.Wiki(wiki)
	return t
}

func (t *TeamTemplateQuery) Template(template string) *TeamTemplateQuery {
	t.q.Template(template)
	return t
}

func (t *TeamTemplateQuery) Date(date string) *TeamTemplateQuery {
	t.q.Date(date)
	return t
}

// Base returns the untyped query backing t.
func (t *TeamTemplateQuery) Base() *Query { return t.q }

func (t *TeamTemplateQuery) Err() error { return t.q.Err() }

func (t *TeamTemplateQuery) Materialize() (Request, error) { return t.q.Materialize() }

func (t *TeamTemplateQuery) Execute(ctx context.Context) (*Response, error) { return t.q.Execute(ctx) }

func (t *TeamTemplateQuery) ExecuteInto(ctx context.Context, out any) error { return t.q.ExecuteInto(ctx, out) }

// TeamTemplateListQuery is a query against /teamtemplatelist.
type TeamTemplateListQuery struct {
	q *Query
}

// TeamTemplateList starts a typed query against /teamtemplatelist.
func (c *Client) TeamTemplateList() *TeamTemplateListQuery {
	return &TeamTemplateListQuery{q: c.Endpoint(schema.TeamTemplateList)}
}

func (t *TeamTemplateListQuery) Wiki(wiki string) *TeamTemplateListQuery {
	t.q.Wiki(wiki)
	return t
}

func (t *TeamTemplateListQuery) Pagination(page int) *TeamTemplateListQuery {
	t.q.Pagination(page)
	return t
}

// Base returns the untyped query backing t.
func (t *TeamTemplateListQuery) Base() *Query { return t.q }

func (t *TeamTemplateListQuery) Err() error { return t.q.Err() }

func (t *TeamTemplateListQuery) Materialize() (Request, error) { return t.q.Materialize() }

func (t *TeamTemplateListQuery) Execute(ctx context.Context) (*Response, error) { return t.q.Execute(ctx) }

func (t *TeamTemplateListQuery) ExecuteInto(ctx context.Context, out any) error { return t.q.ExecuteInto(ctx, out) }
