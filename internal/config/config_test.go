package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	yaml := `
instance:
  id: test-haltwatch
feed:
  url: https://example.com/rss.aspx?feed=tradehalts
  timeout: 5s
market_data:
  api_key: test-key
poller:
  interval: 30s
state:
  backend: file
  path: /tmp/haltwatch_state.json
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Instance.ID != "test-haltwatch" {
		t.Errorf("Instance.ID = %q, want %q", cfg.Instance.ID, "test-haltwatch")
	}
	if cfg.Feed.URL != "https://example.com/rss.aspx?feed=tradehalts" {
		t.Errorf("Feed.URL = %q, want %q", cfg.Feed.URL, "https://example.com/rss.aspx?feed=tradehalts")
	}
	if cfg.Feed.Timeout != 5*time.Second {
		t.Errorf("Feed.Timeout = %v, want %v", cfg.Feed.Timeout, 5*time.Second)
	}
	if cfg.Poller.Interval != 30*time.Second {
		t.Errorf("Poller.Interval = %v, want %v", cfg.Poller.Interval, 30*time.Second)
	}
	if cfg.State.Path != "/tmp/haltwatch_state.json" {
		t.Errorf("State.Path = %q, want %q", cfg.State.Path, "/tmp/haltwatch_state.json")
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_FMP_API_KEY", "secret123")

	yaml := `
instance:
  id: test-haltwatch
market_data:
  api_key: ${TEST_FMP_API_KEY}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Market.APIKey != "secret123" {
		t.Errorf("Market.APIKey = %q, want %q", cfg.Market.APIKey, "secret123")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	path := writeTempFile(t, "instance:\n  id: test\n")

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	if cfg.Feed.URL != DefaultFeedURL {
		t.Errorf("Feed.URL = %q, want default %q", cfg.Feed.URL, DefaultFeedURL)
	}
	if cfg.Feed.Timeout != DefaultHTTPTimeout {
		t.Errorf("Feed.Timeout = %v, want default %v", cfg.Feed.Timeout, DefaultHTTPTimeout)
	}
	if cfg.Poller.Interval != DefaultPollInterval {
		t.Errorf("Poller.Interval = %v, want default %v", cfg.Poller.Interval, DefaultPollInterval)
	}
	if cfg.Poller.SeenTTL != DefaultSeenTTL {
		t.Errorf("Poller.SeenTTL = %v, want default %v", cfg.Poller.SeenTTL, DefaultSeenTTL)
	}
	if cfg.State.Backend != "file" {
		t.Errorf("State.Backend = %q, want %q", cfg.State.Backend, "file")
	}
	if cfg.State.Path == "" {
		t.Error("State.Path default not applied")
	}
	if cfg.News.MaxHeadlines != DefaultMaxHeadlines {
		t.Errorf("News.MaxHeadlines = %d, want default %d", cfg.News.MaxHeadlines, DefaultMaxHeadlines)
	}
	if cfg.Metrics.Port != DefaultMetricsPort {
		t.Errorf("Metrics.Port = %d, want default %d", cfg.Metrics.Port, DefaultMetricsPort)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid defaults",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing instance id",
			mutate:  func(c *Config) { c.Instance.ID = "" },
			wantErr: true,
		},
		{
			name:    "missing feed url",
			mutate:  func(c *Config) { c.Feed.URL = "" },
			wantErr: true,
		},
		{
			name:    "zero poll interval",
			mutate:  func(c *Config) { c.Poller.Interval = 0 },
			wantErr: true,
		},
		{
			name:    "unknown state backend",
			mutate:  func(c *Config) { c.State.Backend = "redis" },
			wantErr: true,
		},
		{
			name: "postgres backend missing host",
			mutate: func(c *Config) {
				c.State.Backend = "postgres"
				c.State.Postgres.Name = "haltwatch"
				c.State.Postgres.User = "hw"
				c.State.Postgres.Password = "pw"
			},
			wantErr: true,
		},
		{
			name: "postgres backend complete",
			mutate: func(c *Config) {
				c.State.Backend = "postgres"
				c.State.Postgres.Host = "localhost"
				c.State.Postgres.Name = "haltwatch"
				c.State.Postgres.User = "hw"
				c.State.Postgres.Password = "pw"
			},
			wantErr: false,
		},
		{
			name:    "metrics port out of range",
			mutate:  func(c *Config) { c.Metrics.Port = 70000 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Instance: InstanceConfig{ID: "test"}}
			cfg.applyDefaults()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}
