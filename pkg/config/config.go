// Package config loads lpdb client and playground settings from YAML and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

type APIConfig struct {
	Key       string `yaml:"key"`
	BaseURL   string `yaml:"base_url"`
	TimeoutMs int    `yaml:"timeout_ms"`
	UserAgent string `yaml:"user_agent"`
}

type SchemaConfig struct {
	// File optionally replaces the built-in LPDB v3 schema.
	File       string `yaml:"file"`
	AutoReload struct {
		Enabled    bool `yaml:"enabled"`
		DebounceMs int  `yaml:"debounce_ms"`
	} `yaml:"auto_reload"`
}

type CacheConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Backend  string `yaml:"backend"`
	TTLMs    int    `yaml:"ttl_ms"`
	MaxItems int    `yaml:"max_items"`
	Redis    struct {
		Addr      string `yaml:"addr"`
		KeyPrefix string `yaml:"key_prefix"`
	} `yaml:"redis"`
}

type ServerConfig struct {
	Listen         string `yaml:"listen"`
	ReadTimeoutMs  int    `yaml:"read_timeout_ms"`
	WriteTimeoutMs int    `yaml:"write_timeout_ms"`
}

type LoggingConfig struct {
	Debug                 bool   `yaml:"debug"`
	AccessLog             bool   `yaml:"access_log"`
	AccessLogPath         string `yaml:"access_log_path"`
	AccessLogFormat       string `yaml:"access_log_format"`
	AccessLogFormatPreset string `yaml:"access_log_format_preset"`

	accessLogSet bool `yaml:"-"`
}

func (c *LoggingConfig) UnmarshalYAML(value *yaml.Node) error {
	type rawLogging LoggingConfig
	var raw rawLogging
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*c = LoggingConfig(raw)
	if value.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		if strings.TrimSpace(value.Content[i].Value) == "access_log" {
			c.accessLogSet = true
		}
	}
	return nil
}

type Config struct {
	API     APIConfig     `yaml:"api"`
	Schema  SchemaConfig  `yaml:"schema"`
	Cache   CacheConfig   `yaml:"cache"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// Timeout returns the outbound request timeout; zero means unbounded.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutMs) * time.Millisecond
}

// CacheTTL returns the response cache entry lifetime.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLMs) * time.Millisecond
}

// SchemaDebounce returns the schema auto-reload debounce window.
func (c *Config) SchemaDebounce() time.Duration {
	return time.Duration(c.Schema.AutoReload.DebounceMs) * time.Millisecond
}

func Load(path string) (*Config, error) {
	// #nosec G304 -- path is provided by trusted config/flag.
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// LoadIfExists is Load, except that a missing file yields the defaults with
// environment overrides applied.
func LoadIfExists(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return Parse(nil)
	}
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Parse(nil)
	}
	return cfg, err
}

// Parse decodes a YAML document, then applies defaults, env overrides and
// validation in that order.
func Parse(b []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.API.TimeoutMs == 0 {
		cfg.API.TimeoutMs = 30000
	}
	if cfg.Schema.AutoReload.DebounceMs <= 0 {
		cfg.Schema.AutoReload.DebounceMs = 300
	}
	if strings.TrimSpace(cfg.Cache.Backend) == "" {
		cfg.Cache.Backend = CacheBackendMemory
	}
	if cfg.Cache.TTLMs == 0 {
		cfg.Cache.TTLMs = 300000
	}
	if cfg.Cache.MaxItems <= 0 {
		cfg.Cache.MaxItems = 1024
	}
	if strings.TrimSpace(cfg.Cache.Redis.Addr) == "" {
		cfg.Cache.Redis.Addr = "127.0.0.1:6379"
	}
	if strings.TrimSpace(cfg.Server.Listen) == "" {
		cfg.Server.Listen = ":3310"
	}
	if cfg.Server.ReadTimeoutMs <= 0 {
		cfg.Server.ReadTimeoutMs = 60000
	}
	if cfg.Server.WriteTimeoutMs <= 0 {
		cfg.Server.WriteTimeoutMs = 60000
	}
	// default true unless explicitly disabled
	if !cfg.Logging.accessLogSet {
		cfg.Logging.AccessLog = true
	}
}

func applyEnvOverrides(cfg *Config) {
	applyEnvAPIOverrides(cfg)
	applyEnvSchemaCacheOverrides(cfg)
	applyEnvServerLoggingOverrides(cfg)
}

func applyEnvAPIOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("LPDB_API_KEY")); v != "" {
		cfg.API.Key = v
	} else if v := strings.TrimSpace(os.Getenv("LIQUIPEDIA_API_KEY")); v != "" {
		cfg.API.Key = v
	}
	if v := strings.TrimSpace(os.Getenv("LPDB_BASE_URL")); v != "" {
		cfg.API.BaseURL = v
	}
	if n, ok := envInt("LPDB_TIMEOUT_MS"); ok {
		cfg.API.TimeoutMs = n
	}
	if v := strings.TrimSpace(os.Getenv("LPDB_USER_AGENT")); v != "" {
		cfg.API.UserAgent = v
	}
}

func applyEnvSchemaCacheOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("LPDB_SCHEMA_FILE")); v != "" {
		cfg.Schema.File = v
	}
	cfg.Schema.AutoReload.Enabled = envBool("LPDB_SCHEMA_AUTO_RELOAD_ENABLED", cfg.Schema.AutoReload.Enabled)
	if n, ok := envInt("LPDB_SCHEMA_AUTO_RELOAD_DEBOUNCE_MS"); ok {
		cfg.Schema.AutoReload.DebounceMs = n
	}
	cfg.Cache.Enabled = envBool("LPDB_CACHE_ENABLED", cfg.Cache.Enabled)
	if v := strings.TrimSpace(os.Getenv("LPDB_CACHE_BACKEND")); v != "" {
		cfg.Cache.Backend = v
	}
	if n, ok := envInt("LPDB_CACHE_TTL_MS"); ok {
		cfg.Cache.TTLMs = n
	}
	if v := strings.TrimSpace(os.Getenv("LPDB_REDIS_ADDR")); v != "" {
		cfg.Cache.Redis.Addr = v
	}
}

func applyEnvServerLoggingOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("LPDB_LISTEN")); v != "" {
		cfg.Server.Listen = v
	}
	cfg.Logging.Debug = envBool("LPDB_DEBUG", cfg.Logging.Debug)
	cfg.Logging.AccessLog = envBool("LPDB_ACCESS_LOG", cfg.Logging.AccessLog)
	if v := strings.TrimSpace(os.Getenv("LPDB_ACCESS_LOG_PATH")); v != "" {
		cfg.Logging.AccessLogPath = v
	}
	if v := os.Getenv("LPDB_ACCESS_LOG_FORMAT"); strings.TrimSpace(v) != "" {
		cfg.Logging.AccessLogFormat = v
	}
	if v := strings.TrimSpace(os.Getenv("LPDB_ACCESS_LOG_FORMAT_PRESET")); v != "" {
		cfg.Logging.AccessLogFormatPreset = v
	}
}

func validate(cfg *Config) error {
	if v := strings.TrimSpace(cfg.API.BaseURL); v != "" && !strings.HasPrefix(v, "http://") && !strings.HasPrefix(v, "https://") {
		return fmt.Errorf("api.base_url must be an http(s) URL, got %q", v)
	}
	if cfg.API.TimeoutMs < 0 {
		return errors.New("api.timeout_ms must be >= 0")
	}
	if cfg.Schema.AutoReload.Enabled && strings.TrimSpace(cfg.Schema.File) == "" {
		return errors.New("schema.file is required when schema.auto_reload.enabled=true")
	}
	if cfg.Schema.AutoReload.Enabled && cfg.Schema.AutoReload.DebounceMs <= 0 {
		return errors.New("schema.auto_reload.debounce_ms must be > 0 when schema.auto_reload.enabled=true")
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Cache.Backend)) {
	case CacheBackendMemory, CacheBackendRedis:
		cfg.Cache.Backend = strings.ToLower(strings.TrimSpace(cfg.Cache.Backend))
	default:
		return fmt.Errorf("cache.backend must be %q or %q, got %q", CacheBackendMemory, CacheBackendRedis, cfg.Cache.Backend)
	}
	if cfg.Cache.TTLMs < 0 {
		return errors.New("cache.ttl_ms must be >= 0")
	}
	return nil
}

func envInt(name string) (int, bool) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envBool(name string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}
