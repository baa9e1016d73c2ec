package config

import "time"

// Config is the root configuration for a haltwatch instance.
type Config struct {
	Instance InstanceConfig `yaml:"instance"`
	Feed     FeedConfig     `yaml:"feed"`
	Market   MarketConfig   `yaml:"market_data"`
	News     NewsConfig     `yaml:"news"`
	Poller   PollerConfig   `yaml:"poller"`
	State    StateConfig    `yaml:"state"`
	Notify   NotifyConfig   `yaml:"notify"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// InstanceConfig identifies this haltwatch instance.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// FeedConfig holds the trade-halts feed settings.
type FeedConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// MarketConfig holds the quote-lookup API settings.
// APIKey may be given inline or via ${FMP_API_KEY} env expansion; an empty
// key disables quote enrichment rather than failing.
type MarketConfig struct {
	URL     string        `yaml:"url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

// NewsConfig holds the news-search feed settings.
type NewsConfig struct {
	URL          string        `yaml:"url"` // search URL template, %s = query
	Timeout      time.Duration `yaml:"timeout"`
	MaxHeadlines int           `yaml:"max_headlines"`
}

// PollerConfig holds the poll-loop settings.
type PollerConfig struct {
	Interval time.Duration `yaml:"interval"`
	SeenTTL  time.Duration `yaml:"seen_ttl"` // how long dedup keys are retained
}

// StateConfig selects and configures the durable state backend.
type StateConfig struct {
	Backend  string   `yaml:"backend"` // "file" or "postgres"
	Path     string   `yaml:"path"`    // file backend: state file path
	Postgres DBConfig `yaml:"postgres"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// NotifyConfig holds notification delivery settings.
type NotifyConfig struct {
	Desktop bool `yaml:"desktop"` // deliver desktop notifications
}

// LoggingConfig holds log destination and rotation settings.
type LoggingConfig struct {
	File       string `yaml:"file"` // empty means stdout only
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Level      string `yaml:"level"` // debug, info, warn, error
}

// MetricsConfig holds the health/metrics HTTP server settings.
type MetricsConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}
