package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, "LPDB_") || name == "LIQUIPEDIA_API_KEY" {
			t.Setenv(name, "")
		}
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lpdb.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeConfig(t, "api:\n  key: file-key\n"))
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if cfg.API.Key != "file-key" {
		t.Fatalf("api.key=%q", cfg.API.Key)
	}
	if cfg.Timeout() != 30*time.Second {
		t.Fatalf("timeout=%v", cfg.Timeout())
	}
	if cfg.Cache.Backend != CacheBackendMemory || cfg.CacheTTL() != 5*time.Minute || cfg.Cache.MaxItems != 1024 {
		t.Fatalf("unexpected cache defaults: %+v", cfg.Cache)
	}
	if cfg.Server.Listen != ":3310" {
		t.Fatalf("listen=%q", cfg.Server.Listen)
	}
	if !cfg.Logging.AccessLog {
		t.Fatalf("access_log should default to true")
	}
	if cfg.SchemaDebounce() != 300*time.Millisecond {
		t.Fatalf("debounce=%v", cfg.SchemaDebounce())
	}
}

func TestLoad_AccessLogExplicitFalse(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeConfig(t, "logging:\n  access_log: false\n"))
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if cfg.Logging.AccessLog {
		t.Fatalf("explicit access_log=false must be kept")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LPDB_API_KEY", "env-key")
	t.Setenv("LPDB_BASE_URL", "http://127.0.0.1:9999/api/v3")
	t.Setenv("LPDB_TIMEOUT_MS", "1500")
	t.Setenv("LPDB_CACHE_ENABLED", "yes")
	t.Setenv("LPDB_CACHE_BACKEND", "REDIS")
	t.Setenv("LPDB_REDIS_ADDR", "redis:6379")
	t.Setenv("LPDB_LISTEN", ":8080")
	t.Setenv("LPDB_DEBUG", "1")

	cfg, err := Load(writeConfig(t, "api:\n  key: file-key\n"))
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if cfg.API.Key != "env-key" || cfg.API.BaseURL != "http://127.0.0.1:9999/api/v3" {
		t.Fatalf("unexpected api: %+v", cfg.API)
	}
	if cfg.Timeout() != 1500*time.Millisecond {
		t.Fatalf("timeout=%v", cfg.Timeout())
	}
	if !cfg.Cache.Enabled || cfg.Cache.Backend != CacheBackendRedis || cfg.Cache.Redis.Addr != "redis:6379" {
		t.Fatalf("unexpected cache: %+v", cfg.Cache)
	}
	if cfg.Server.Listen != ":8080" || !cfg.Logging.Debug {
		t.Fatalf("unexpected server/logging: %+v %+v", cfg.Server, cfg.Logging)
	}
}

func TestLoad_LiquipediaKeyFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("LIQUIPEDIA_API_KEY", "legacy-key")
	cfg, err := LoadIfExists(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadIfExists err=%v", err)
	}
	if cfg.API.Key != "legacy-key" {
		t.Fatalf("api.key=%q", cfg.API.Key)
	}

	t.Setenv("LPDB_API_KEY", "primary")
	cfg, err = LoadIfExists("")
	if err != nil {
		t.Fatalf("LoadIfExists err=%v", err)
	}
	if cfg.API.Key != "primary" {
		t.Fatalf("LPDB_API_KEY should win, got %q", cfg.API.Key)
	}
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name string
		body string
	}{
		{name: "bad yaml", body: "api: ["},
		{name: "bad base url", body: "api:\n  base_url: ftp://x\n"},
		{name: "negative timeout", body: "api:\n  timeout_ms: -1\n"},
		{name: "auto reload without file", body: "schema:\n  auto_reload:\n    enabled: true\n"},
		{name: "unknown cache backend", body: "cache:\n  backend: memcached\n"},
		{name: "negative ttl", body: "cache:\n  ttl_ms: -5\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.body)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("Load must fail for a missing file")
	}
}

func TestEnvBool(t *testing.T) {
	t.Setenv("LPDB_TEST_BOOL", "off")
	if envBool("LPDB_TEST_BOOL", true) {
		t.Fatalf("off should be false")
	}
	t.Setenv("LPDB_TEST_BOOL", "maybe")
	if !envBool("LPDB_TEST_BOOL", true) {
		t.Fatalf("unparseable value should keep default")
	}
}
