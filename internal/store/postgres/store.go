// Package postgres provides a Postgres-backed lead store.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/davidshroff27/leadscout/internal/store"
)

// Config controls the Postgres connection pool used for lead rows.
type Config struct {
	DSN             string
	MaxConns        int32
	MaxConnLifetime time.Duration
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, batch *pgx.Batch) pgx.BatchResults
	Close()
}

// Store writes search runs and leads into Postgres.
type Store struct {
	pool querier
}

// NewStore creates a Postgres-backed Store using the provided config.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("store.dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Store{pool: pool}, nil
}

// NewStoreWithPool constructs a Store from an existing pool (primarily for testing).
func NewStoreWithPool(pool querier) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// SaveRun inserts the run row and batches one insert per lead.
func (s *Store) SaveRun(ctx context.Context, run store.SearchRun, leads []store.Lead) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("lead store is not configured")
	}
	if run.ID == "" {
		return fmt.Errorf("run id is required")
	}

	const runQuery = `
INSERT INTO search_runs (
	id,
	user_id,
	business_type,
	city,
	pages,
	requested_at
) VALUES ($1,$2,$3,$4,$5,$6)`

	if _, err := s.pool.Exec(ctx, runQuery,
		run.ID, run.UserID, run.BusinessType, run.City, run.Pages, run.RequestedAt,
	); err != nil {
		return fmt.Errorf("insert search run: %w", err)
	}

	if len(leads) == 0 {
		return nil
	}

	const leadQuery = `
INSERT INTO leads (
	run_id,
	name,
	address,
	phone,
	website
) VALUES ($1,$2,$3,$4,$5)`

	batch := &pgx.Batch{}
	for _, lead := range leads {
		batch.Queue(leadQuery, run.ID, lead.Name, lead.Address, lead.Phone, lead.Website)
	}
	results := s.pool.SendBatch(ctx, batch)
	defer results.Close() //nolint:errcheck

	for range leads {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert lead: %w", err)
		}
	}
	return nil
}
