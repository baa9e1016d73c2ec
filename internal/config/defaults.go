package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values for optional configuration fields.
const (
	DefaultFeedURL      = "https://www.nasdaqtrader.com/rss.aspx?feed=tradehalts"
	DefaultQuoteURL     = "https://financialmodelingprep.com/api/v3"
	DefaultNewsURL      = "https://news.google.com/rss/search?q=%s&hl=en-US&gl=US&ceid=US:en"
	DefaultHTTPTimeout  = 20 * time.Second
	DefaultMaxHeadlines = 3
	DefaultPollInterval = 60 * time.Second
	DefaultSeenTTL      = 7 * 24 * time.Hour
	DefaultStateBackend = "file"
	DefaultStateFile    = ".haltwatch_state.json"
	DefaultDBPort       = 5432
	DefaultDBSSLMode    = "prefer"
	DefaultMaxConns     = 4
	DefaultMinConns     = 1
	DefaultLogMaxSizeMB = 10
	DefaultLogBackups   = 3
	DefaultLogAgeDays   = 7
	DefaultLogLevel     = "info"
	DefaultMetricsPort  = 9090
	DefaultMetricsPath  = "/metrics"
)

func (c *Config) applyDefaults() {
	if c.Instance.ID == "" {
		c.Instance.ID = "haltwatch"
	}

	// Feed defaults
	if c.Feed.URL == "" {
		c.Feed.URL = DefaultFeedURL
	}
	if c.Feed.Timeout == 0 {
		c.Feed.Timeout = DefaultHTTPTimeout
	}

	// Enrichment defaults
	if c.Market.URL == "" {
		c.Market.URL = DefaultQuoteURL
	}
	if c.Market.Timeout == 0 {
		c.Market.Timeout = DefaultHTTPTimeout
	}
	if c.News.URL == "" {
		c.News.URL = DefaultNewsURL
	}
	if c.News.Timeout == 0 {
		c.News.Timeout = DefaultHTTPTimeout
	}
	if c.News.MaxHeadlines == 0 {
		c.News.MaxHeadlines = DefaultMaxHeadlines
	}

	// Poller defaults
	if c.Poller.Interval == 0 {
		c.Poller.Interval = DefaultPollInterval
	}
	if c.Poller.SeenTTL == 0 {
		c.Poller.SeenTTL = DefaultSeenTTL
	}

	// State defaults
	if c.State.Backend == "" {
		c.State.Backend = DefaultStateBackend
	}
	if c.State.Path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		c.State.Path = filepath.Join(home, DefaultStateFile)
	}
	applyDBDefaults(&c.State.Postgres)

	// Logging defaults
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = DefaultLogMaxSizeMB
	}
	if c.Logging.MaxBackups == 0 {
		c.Logging.MaxBackups = DefaultLogBackups
	}
	if c.Logging.MaxAgeDays == 0 {
		c.Logging.MaxAgeDays = DefaultLogAgeDays
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}

	// Metrics defaults
	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
