package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if c.Feed.URL == "" {
		return errors.New("feed.url is required")
	}
	if c.Feed.Timeout <= 0 {
		return errors.New("feed.timeout must be positive")
	}

	if c.Poller.Interval <= 0 {
		return errors.New("poller.interval must be positive")
	}
	if c.Poller.SeenTTL <= 0 {
		return errors.New("poller.seen_ttl must be positive")
	}

	if c.News.MaxHeadlines < 1 {
		return errors.New("news.max_headlines must be >= 1")
	}

	switch c.State.Backend {
	case "file":
		if c.State.Path == "" {
			return errors.New("state.path is required for the file backend")
		}
	case "postgres":
		if err := c.State.Postgres.validate("state.postgres"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("state.backend must be \"file\" or \"postgres\", got %q", c.State.Backend)
	}

	if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 1 and 65535, got %d", c.Metrics.Port)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
