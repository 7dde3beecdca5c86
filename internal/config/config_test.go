package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("http:\n  port: 8080\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Storage.DataDir != "data" {
		t.Errorf("data_dir = %q, want data", cfg.Storage.DataDir)
	}
	if cfg.Storage.Extension != ".json" {
		t.Errorf("extension = %q, want .json", cfg.Storage.Extension)
	}
	if cfg.Storage.LoadConcurrency != 4 {
		t.Errorf("load_concurrency = %d, want 4", cfg.Storage.LoadConcurrency)
	}
	if cfg.Storage.CacheTTLSec != 0 {
		t.Errorf("cache_ttl_sec = %d, want 0", cfg.Storage.CacheTTLSec)
	}
	if cfg.Query.DefaultLimit != 10 || cfg.Query.MaxLimit != 200 || cfg.Query.MaxIDs != 20 {
		t.Errorf("query defaults = %+v", cfg.Query)
	}
	if cfg.HTTP.ReadTimeoutSec != 10 || cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("http defaults = %+v", cfg.HTTP)
	}
}

func TestParse_EnvExpansion(t *testing.T) {
	t.Setenv("CORPDEX_DATA_DIR", "/srv/fixtures")
	yml := `
http:
  port: ${CORPDEX_PORT:-9090}
storage:
  data_dir: ${CORPDEX_DATA_DIR}
`
	cfg, err := Parse([]byte(yml))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("port = %d, want default 9090", cfg.HTTP.Port)
	}
	if cfg.Storage.DataDir != "/srv/fixtures" {
		t.Errorf("data_dir = %q", cfg.Storage.DataDir)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		c := Config{HTTP: HTTPConfig{Port: 8080}}
		c.ApplyDefaults()
		return c
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"port too high", func(c *Config) { c.HTTP.Port = 70000 }, "http.port must be between 1 and 65535, got 70000"},
		{"negative port", func(c *Config) { c.HTTP.Port = -1 }, "http.port must be between 1 and 65535, got -1"},
		{"extension without dot", func(c *Config) { c.Storage.Extension = "json" },
			`storage.extension must start with ".", got "json"`},
		{"negative ttl", func(c *Config) { c.Storage.CacheTTLSec = -5 }, "storage.cache_ttl_sec must not be negative, got -5"},
		{"default above max", func(c *Config) { c.Query.DefaultLimit = 500 },
			"query.default_limit (500) must not exceed query.max_limit (200)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %q", tt.wantErr)
			}
			if err.Error() != tt.wantErr {
				t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	if err := os.WriteFile(path, []byte("http:\n  port: 3001\nquery:\n  max_ids: 5\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 3001 || cfg.Query.MaxIDs != 5 {
		t.Errorf("cfg = %+v", cfg)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if got := GetEnv(); got != "local" {
		t.Errorf("GetEnv() = %q, want local", got)
	}
	t.Setenv("ENV", "prod")
	if got := GetEnv(); got != "prod" {
		t.Errorf("GetEnv() = %q, want prod", got)
	}
}

func TestLoad_LocalConfig(t *testing.T) {
	cfg, err := Load("local")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Query.MaxLimit != 200 {
		t.Errorf("max_limit = %d, want 200", cfg.Query.MaxLimit)
	}
}
