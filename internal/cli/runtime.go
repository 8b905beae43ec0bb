package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/r9s-ai/lpdb-go/pkg/cache"
	"github.com/r9s-ai/lpdb-go/pkg/cache/memory"
	rediscache "github.com/r9s-ai/lpdb-go/pkg/cache/redis"
	"github.com/r9s-ai/lpdb-go/pkg/config"
	"github.com/r9s-ai/lpdb-go/pkg/httpclient"
	"github.com/r9s-ai/lpdb-go/pkg/lpdb"
	"github.com/r9s-ai/lpdb-go/pkg/schema"
)

// dryRunAPIKey stands in for a missing key when no request is sent.
const dryRunAPIKey = "dry-run"

// runtime bundles a client with the resources it owns.
type runtime struct {
	client   *lpdb.Client
	registry *schema.Registry
	cache    cache.Cache
}

func (r *runtime) Close() error {
	if r == nil || r.cache == nil {
		return nil
	}
	return r.cache.Close()
}

// openSchema returns a registry seeded from cfg.Schema.File, or from the
// built-in schema when no file is configured.
func openSchema(cfg *config.Config) (*schema.Registry, error) {
	path := strings.TrimSpace(cfg.Schema.File)
	if path == "" {
		return schema.NewRegistry(nil), nil
	}
	s, err := schema.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load schema %q: %w", path, err)
	}
	return schema.NewRegistry(s), nil
}

func openCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		c, err := rediscache.Dial(ctx, cfg.Cache.Redis.Addr, cfg.Cache.Redis.KeyPrefix)
		if err != nil {
			return nil, fmt.Errorf("open redis cache: %w", err)
		}
		return c, nil
	default:
		c, err := memory.New(cfg.Cache.MaxItems)
		if err != nil {
			return nil, fmt.Errorf("open memory cache: %w", err)
		}
		return c, nil
	}
}

// openRuntime builds a client from cfg. The API key is only required when
// requireKey is set so dry runs work without credentials.
func (g *globalOptions) openRuntime(ctx context.Context, cfg *config.Config, debugOut io.Writer, requireKey bool) (*runtime, error) {
	reg, err := openSchema(cfg)
	if err != nil {
		return nil, err
	}
	c, err := openCache(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var doer httpclient.HTTPDoer = httpclient.New(cfg.Timeout())
	if g.httpClient != nil {
		doer = g.httpClient
	}
	key := cfg.API.Key
	if key == "" && !requireKey {
		key = dryRunAPIKey
	}
	opts := lpdb.Options{
		APIKey:     key,
		BaseURL:    cfg.API.BaseURL,
		HTTPClient: doer,
		Schema:     reg,
		Cache:      c,
		CacheTTL:   cfg.CacheTTL(),
		UserAgent:  cfg.API.UserAgent,
	}
	if cfg.Logging.Debug {
		opts.DebugOut = debugOut
	}
	client, err := lpdb.New(opts)
	if err != nil {
		if c != nil {
			_ = c.Close()
		}
		return nil, err
	}
	return &runtime{client: client, registry: reg, cache: c}, nil
}
