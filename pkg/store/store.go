// Package store appends smoke-run records to an existing PostgreSQL
// table. The schema is owned externally; this package only ever inserts.
package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tverkroost/envcheck/internal/logger"
)

// DefaultTable is the table records are written to unless configured
// otherwise.
const DefaultTable = "smoke_runs"

// Record is one probe outcome of a smoke run.
type Record struct {
	Model    string
	Probe    string
	Passed   bool
	Duration time.Duration
	Response string
	Created  time.Time
}

// Store writes records through a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a store for the database at dsn and verifies connectivity.
func New(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	return &Store{pool: pool}, nil
}

// RecordSmokeRun inserts one row per record into table. Append-only.
func (s *Store) RecordSmokeRun(ctx context.Context, table string, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	query, args, err := buildInsert(table, records)
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}

	log := logger.FromContext(ctx)
	log.DebugContext(ctx, "Recording smoke run", "table", table, "records", len(records))

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert smoke records: %w", err)
	}
	return nil
}

// Close releases the underlying pool.
func (s *Store) Close() {
	s.pool.Close()
}

// buildInsert renders the multi-row insert statement for records.
func buildInsert(table string, records []Record) (string, []any, error) {
	b := sq.Insert(table).
		Columns("model", "probe", "passed", "duration_ms", "response", "created_at").
		PlaceholderFormat(sq.Dollar)

	for _, r := range records {
		b = b.Values(r.Model, r.Probe, r.Passed, r.Duration.Milliseconds(), r.Response, r.Created)
	}
	return b.ToSql()
}
