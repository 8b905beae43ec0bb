package lpdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/r9s-ai/lpdb-go/internal/version"
	"github.com/r9s-ai/lpdb-go/pkg/cache"
	"github.com/r9s-ai/lpdb-go/pkg/httpclient"
	"github.com/r9s-ai/lpdb-go/pkg/querystring"
	"github.com/r9s-ai/lpdb-go/pkg/schema"
)

// DefaultBaseURL is the public LPDB v3 endpoint.
const DefaultBaseURL = "https://api.liquipedia.net/api/v3"

// SchemaSource supplies the schema a new query is validated against.
// *schema.Registry implements it.
type SchemaSource interface {
	Current() *schema.Schema
}

type staticSchema struct{ s *schema.Schema }

func (s staticSchema) Current() *schema.Schema { return s.s }

// Static wraps a fixed schema as a SchemaSource.
func Static(s *schema.Schema) SchemaSource {
	return staticSchema{s: s}
}

type Options struct {
	APIKey  string
	BaseURL string

	// HTTPClient defaults to http.DefaultClient. Timeouts are its concern.
	HTTPClient httpclient.HTTPDoer
	// Schema defaults to schema.Default().
	Schema SchemaSource

	// Cache is optional. Only successful bodies are stored, for CacheTTL.
	Cache    cache.Cache
	CacheTTL time.Duration

	UserAgent string
	// DebugOut receives one line per upstream exchange when set.
	DebugOut io.Writer
}

// Client executes LPDB queries. It is safe for concurrent use.
type Client struct {
	apiKey    string
	baseURL   string
	userAgent string
	http      httpclient.HTTPDoer
	schema    SchemaSource
	cache     cache.Cache
	cacheTTL  time.Duration
	debugOut  io.Writer
}

// New validates opts and returns a client.
func New(opts Options) (*Client, error) {
	key := strings.TrimSpace(opts.APIKey)
	if key == "" {
		return nil, ErrMissingAPIKey
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("lpdb: base url %q must start with http:// or https://", baseURL)
	}
	doer := opts.HTTPClient
	if doer == nil {
		doer = http.DefaultClient
	}
	src := opts.Schema
	if src == nil {
		src = Static(schema.Default())
	}
	ua := strings.TrimSpace(opts.UserAgent)
	if ua == "" {
		ua = version.UserAgent()
	}
	return &Client{
		apiKey:    key,
		baseURL:   baseURL,
		userAgent: ua,
		http:      doer,
		schema:    src,
		cache:     opts.Cache,
		cacheTTL:  opts.CacheTTL,
		debugOut:  opts.DebugOut,
	}, nil
}

// BaseURL returns the normalized API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Schema returns the schema new queries are validated against.
func (c *Client) Schema() *schema.Schema {
	s := c.schema.Current()
	if s == nil {
		return schema.Default()
	}
	return s
}

// URL returns the absolute request URL of req.
func (c *Client) URL(req Request) string {
	return c.baseURL + string(req.Resource.Normalize()) + querystring.Build(req.Params)
}

// Do executes a materialized request and decodes the body.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	var out Response
	if err := c.DoInto(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DoInto executes req and decodes the JSON body into out.
func (c *Client) DoInto(ctx context.Context, req Request, out any) error {
	body, err := c.DoRaw(ctx, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("lpdb: decode %s response: %w", req.Resource, err)
	}
	return nil
}

// DoRaw executes req and returns the undecoded body of a 2xx response.
// Non-2xx responses are returned as *APIError.
func (c *Client) DoRaw(ctx context.Context, req Request) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	reqURL := c.URL(req)
	key := cache.Key(string(req.Resource.Normalize()), querystring.Build(req.Params))
	if c.cache != nil {
		body, ok, err := c.cache.Get(ctx, key)
		switch {
		case err != nil:
			c.debugf("debug cache_error op=get key=%s err=%v", key, err)
		case ok:
			c.debugf("debug cache_hit key=%s", key)
			return body, nil
		}
	}

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		if err := c.cache.Set(ctx, key, body, c.cacheTTL); err != nil {
			c.debugf("debug cache_error op=set key=%s err=%v", key, err)
		}
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("lpdb: GET %s: %w", reqURL, err)
	}
	req.Header.Set("Authorization", "Apikey "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	c.debugf("debug upstream_request method=%s url=%s", http.MethodGet, reqURL)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lpdb: GET %s: %w", reqURL, err)
	}
	defer resp.Body.Close() //nolint:errcheck
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("lpdb: GET %s: read body: %w", reqURL, err)
	}
	c.debugf("debug upstream_response method=%s url=%s status=%d body=%s", http.MethodGet, reqURL, resp.StatusCode, strings.TrimSpace(string(body)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var data any
		if err := json.Unmarshal(body, &data); err != nil {
			data = nil
		}
		return nil, newAPIError(resp.StatusCode, data)
	}
	return body, nil
}

func (c *Client) debugf(format string, args ...any) {
	if c.debugOut == nil {
		return
	}
	_, _ = fmt.Fprintf(c.debugOut, format+"\n", args...)
}
