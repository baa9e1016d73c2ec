package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mwhitt/haltwatch/internal/config"
)

const stateTableDDL = `
CREATE TABLE IF NOT EXISTS haltwatch_state (
    id         int PRIMARY KEY CHECK (id = 1),
    data       jsonb NOT NULL,
    updated_at timestamptz NOT NULL DEFAULT now()
)`

// PostgresStore persists state as a single JSONB row, for deployments where
// the process has no stable local disk.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresStore connects to Postgres and ensures the state table exists.
func NewPostgresStore(ctx context.Context, cfg config.DBConfig, logger *slog.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	pool, err := connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if _, err := pool.Exec(ctx, stateTableDDL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}

	return &PostgresStore{pool: pool, logger: logger}, nil
}

// Load reads the state row. A missing row or undecodable payload yields an
// empty state; only infrastructure errors are returned.
func (p *PostgresStore) Load(ctx context.Context) (*State, error) {
	var data []byte
	err := p.pool.QueryRow(ctx, `SELECT data FROM haltwatch_state WHERE id = 1`).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load state row: %w", err)
	}

	st := New()
	if err := json.Unmarshal(data, st); err != nil {
		p.logger.Warn("failed to decode state row, starting fresh", "error", err)
		return New(), nil
	}
	return st, nil
}

// Save upserts the state row.
func (p *PostgresStore) Save(ctx context.Context, s *State) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO haltwatch_state (id, data, updated_at)
		VALUES (1, $1, now())
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		data,
	)
	if err != nil {
		return fmt.Errorf("upsert state row: %w", err)
	}
	return nil
}

// Ping verifies the connection is healthy.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close closes the connection pool.
func (p *PostgresStore) Close() {
	p.pool.Close()
}

// connect creates a connection pool from config.
func connect(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(buildConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// buildConnString builds a PostgreSQL connection string from config.
func buildConnString(cfg config.DBConfig) string {
	// URL-encode password to handle special characters
	escapedPassword := url.QueryEscape(cfg.Password)

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "prefer"
	}

	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		escapedPassword,
		cfg.Host,
		cfg.Port,
		cfg.Name,
		sslMode,
	)
}
