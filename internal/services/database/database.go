// Package database provides the Postgres-backed audit trail for refill checks.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB holds the database connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// New creates a new database connection from a URL string.
func New(ctx context.Context, databaseURL string) (*DB, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// A Lambda container serves one request at a time
	poolConfig.MaxConns = 4
	poolConfig.MinConns = 0
	poolConfig.MaxConnLifetime = 1 * time.Hour
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the database connection pool.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// HealthCheck verifies database connectivity.
func (db *DB) HealthCheck(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

const schema = `
CREATE TABLE IF NOT EXISTS refill_checks (
	id          UUID PRIMARY KEY,
	email       TEXT NOT NULL,
	shop_domain TEXT NOT NULL DEFAULT '',
	status_code INTEGER NOT NULL,
	eligible    BOOLEAN NOT NULL,
	reason      TEXT NOT NULL DEFAULT '',
	customer_id BIGINT,
	error       TEXT NOT NULL DEFAULT '',
	checked_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_refill_checks_email ON refill_checks (email, checked_at DESC);`

// EnsureSchema creates the refill_checks table if it does not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
