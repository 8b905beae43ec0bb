package lpdb

import (
	"context"
	"strings"

	"github.com/r9s-ai/lpdb-go/pkg/conditions"
	"github.com/r9s-ai/lpdb-go/pkg/querystring"
	"github.com/r9s-ai/lpdb-go/pkg/schema"
)

// Request is an immutable snapshot of a query.
type Request struct {
	Resource schema.Resource
	Params   querystring.Params
}

// QueryString returns the serialized parameters, including the leading "?".
func (r Request) QueryString() string {
	return querystring.Build(r.Params)
}

// Query accumulates the parameters of one request against a single resource.
type Query struct {
	client   *Client
	schema   *schema.Schema
	resource schema.Resource
	params   querystring.Params
	err      error
}

// Endpoint starts a query against resource. An unknown resource is recorded
// as a *SchemaViolation.
func (c *Client) Endpoint(resource schema.Resource) *Query {
	q := &Query{
		client:   c,
		schema:   c.Schema(),
		resource: resource.Normalize(),
		params:   querystring.Params{},
	}
	if !q.schema.Has(q.resource) {
		q.err = &SchemaViolation{Resource: q.resource}
	}
	return q
}

// Resource returns the target resource.
func (q *Query) Resource() schema.Resource {
	return q.resource
}

// Err returns the first recorded error.
func (q *Query) Err() error {
	return q.err
}

// Set assigns a parameter; last write wins. A nil value marks it absent.
func (q *Query) Set(name string, value any) *Query {
	if q.err != nil {
		return q
	}
	if !q.schema.Allows(q.resource, name) {
		q.err = &SchemaViolation{Resource: q.resource, Param: name}
		return q
	}
	q.params[name] = value
	return q
}

// Unset removes a parameter.
func (q *Query) Unset(name string) *Query {
	if q.err != nil {
		return q
	}
	if !q.schema.Allows(q.resource, name) {
		q.err = &SchemaViolation{Resource: q.resource, Param: name}
		return q
	}
	delete(q.params, name)
	return q
}

func (q *Query) Wiki(wiki string) *Query {
	return q.Set(schema.ParamWiki, wiki)
}

// Wikis selects several wikis; they are sent as one "|"-joined wiki value.
func (q *Query) Wikis(wikis ...string) *Query {
	return q.Set(schema.ParamWiki, strings.Join(wikis, "|"))
}

// Conditions sets a pre-rendered filter expression.
func (q *Query) Conditions(expr string) *Query {
	return q.Set(schema.ParamConditions, expr)
}

// Where renders b into the conditions parameter. A builder error is recorded
// on the query. An empty builder clears the parameter.
func (q *Query) Where(b *conditions.Builder) *Query {
	if q.err != nil {
		return q
	}
	expr, err := b.Build()
	if err != nil {
		q.err = err
		return q
	}
	if expr == "" {
		return q.Unset(schema.ParamConditions)
	}
	return q.Set(schema.ParamConditions, expr)
}

// Query selects the returned fields.
func (q *Query) Query(fields ...string) *Query {
	return q.Set(schema.ParamQuery, strings.Join(fields, ", "))
}

func (q *Query) Limit(n int) *Query {
	return q.Set(schema.ParamLimit, n)
}

func (q *Query) Offset(n int) *Query {
	return q.Set(schema.ParamOffset, n)
}

// Order sets the sort clause, e.g. "startdate DESC".
func (q *Query) Order(order string) *Query {
	return q.Set(schema.ParamOrder, order)
}

func (q *Query) GroupBy(groupBy string) *Query {
	return q.Set(schema.ParamGroupBy, groupBy)
}

func (q *Query) RawStreams(enabled bool) *Query {
	return q.Set(schema.ParamRawStreams, enabled)
}

func (q *Query) StreamURLs(enabled bool) *Query {
	return q.Set(schema.ParamStreamURLs, enabled)
}

func (q *Query) Template(template string) *Query {
	return q.Set(schema.ParamTemplate, template)
}

// Date selects the template version valid at date (YYYY-MM-DD).
func (q *Query) Date(date string) *Query {
	return q.Set(schema.ParamDate, date)
}

func (q *Query) Pagination(page int) *Query {
	return q.Set(schema.ParamPagination, page)
}

// Materialize snapshots the current state. Later mutation of q does not
// affect the returned Request.
func (q *Query) Materialize() (Request, error) {
	if q.err != nil {
		return Request{}, q.err
	}
	return Request{Resource: q.resource, Params: q.params.Clone()}, nil
}

// URL returns the request URL for the current state.
func (q *Query) URL() (string, error) {
	req, err := q.Materialize()
	if err != nil {
		return "", err
	}
	return q.client.URL(req), nil
}

// Execute runs the query.
func (q *Query) Execute(ctx context.Context) (*Response, error) {
	req, err := q.Materialize()
	if err != nil {
		return nil, err
	}
	return q.client.Do(ctx, req)
}

// ExecuteInto runs the query and decodes the body into out.
func (q *Query) ExecuteInto(ctx context.Context, out any) error {
	req, err := q.Materialize()
	if err != nil {
		return err
	}
	return q.client.DoInto(ctx, req, out)
}

// ExecuteRaw runs the query and returns the undecoded body.
func (q *Query) ExecuteRaw(ctx context.Context) ([]byte, error) {
	req, err := q.Materialize()
	if err != nil {
		return nil, err
	}
	return q.client.DoRaw(ctx, req)
}

// Fetch runs q and decodes each result row into R.
func Fetch[R any](ctx context.Context, q *Query) (*TypedResponse[R], error) {
	var out TypedResponse[R]
	if err := q.ExecuteInto(ctx, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
