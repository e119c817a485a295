// Package repository stores client accounts in PostgreSQL.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolOptions tunes the pgx connection pool. Zero fields keep pgx defaults,
// except ConnectTimeout which falls back to DefaultConnectTimeout.
type PoolOptions struct {
	MaxConns        int32
	MinConns        int32
	MaxConnIdleTime time.Duration
	ConnectTimeout  time.Duration
}

// DefaultConnectTimeout bounds the startup ping.
const DefaultConnectTimeout = 5 * time.Second

// DefaultPoolOptions matches the sizing the service has run with so far.
func DefaultPoolOptions() PoolOptions {
	return PoolOptions{
		MaxConns:        10,
		MinConns:        2,
		MaxConnIdleTime: 5 * time.Minute,
		ConnectTimeout:  DefaultConnectTimeout,
	}
}

func (o PoolOptions) apply(cfg *pgxpool.Config) {
	if o.MaxConns > 0 {
		cfg.MaxConns = o.MaxConns
	}
	if o.MinConns > 0 && o.MinConns <= cfg.MaxConns {
		cfg.MinConns = o.MinConns
	}
	if o.MaxConnIdleTime > 0 {
		cfg.MaxConnIdleTime = o.MaxConnIdleTime
	}
}

// Repository is the client store backed by a pgx pool.
type Repository struct {
	pool *pgxpool.Pool
}

// New parses databaseURL, opens a pool and pings it once before returning.
func New(ctx context.Context, databaseURL string, opts PoolOptions) (*Repository, error) {
	if databaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}

	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	opts.apply(cfg)

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}

	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return NewFromPool(pool), nil
}

// NewFromPool wraps an already configured pool. The repository takes
// ownership and closes it on Close.
func NewFromPool(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Ping is used by the readiness probe.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *Repository) Close() {
	r.pool.Close()
}

// Pool exposes the pool to integration helpers.
func (r *Repository) Pool() *pgxpool.Pool {
	return r.pool
}
