// Package history keeps a log of sync runs in Postgres.
//
// The store is optional. A nil *Store accepts every call and records
// nothing, so callers never need to check whether history is configured.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pokevault/catalog-api/internal/seed"
)

const schema = `
CREATE TABLE IF NOT EXISTS sync_runs (
    id          BIGSERIAL PRIMARY KEY,
    started_at  TIMESTAMPTZ NOT NULL,
    trigger     TEXT NOT NULL,
    phase       TEXT NOT NULL,
    success     BOOLEAN NOT NULL,
    stats       JSONB,
    error       TEXT,
    duration_ms BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS sync_runs_started_at_idx ON sync_runs (started_at DESC);
`

// Store wraps pgxpool.Pool with the sync_runs queries.
type Store struct {
	pool *pgxpool.Pool
}

// New creates and validates a pool. Prepared statements are registered on
// every new connection, so the schema must exist first; New creates it.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	if err := EnsureSchema(ctx, databaseURL); err != nil {
		return nil, err
	}

	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolCfg.MaxConns = 4
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// EnsureSchema creates the sync_runs table when missing.
func EnsureSchema(ctx context.Context, databaseURL string) error {
	conn, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("connect for schema: %w", err)
	}
	defer conn.Close(ctx)
	if _, err := conn.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create sync_runs: %w", err)
	}
	return nil
}

func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		"health_check": "SELECT 1",

		"insert_sync_run": `INSERT INTO sync_runs (started_at, trigger, phase, success, stats, error, duration_ms)
			VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)`,
		"list_sync_runs": `SELECT started_at, trigger, phase, success, stats, COALESCE(error, ''), duration_ms
			FROM sync_runs ORDER BY started_at DESC, id DESC LIMIT $1`,
		"prune_sync_runs": "DELETE FROM sync_runs WHERE started_at < $1",
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}

// Close releases the pool.
func (s *Store) Close() {
	if s != nil {
		s.pool.Close()
	}
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (s *Store) HealthCheck(ctx context.Context) error {
	if s == nil {
		return nil
	}
	var n int
	return s.pool.QueryRow(ctx, "health_check").Scan(&n)
}

// Record inserts one finished run.
func (s *Store) Record(ctx context.Context, run seed.RunRecord) error {
	if s == nil {
		return nil
	}
	var stats []byte
	if run.Stats != nil {
		var err error
		if stats, err = json.Marshal(run.Stats); err != nil {
			return fmt.Errorf("encode stats: %w", err)
		}
	}
	_, err := s.pool.Exec(ctx, "insert_sync_run",
		run.Timestamp, run.Trigger, string(run.Phase), run.Success, stats, run.Error, run.DurationMS)
	if err != nil {
		return fmt.Errorf("insert sync run: %w", err)
	}
	return nil
}

// List returns the most recent runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]seed.RunRecord, error) {
	out := []seed.RunRecord{}
	if s == nil {
		return out, nil
	}
	if limit < 1 {
		limit = 20
	}

	rows, err := s.pool.Query(ctx, "list_sync_runs", limit)
	if err != nil {
		return nil, fmt.Errorf("list sync runs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			run   seed.RunRecord
			phase string
			stats []byte
		)
		if err := rows.Scan(&run.Timestamp, &run.Trigger, &phase, &run.Success, &stats, &run.Error, &run.DurationMS); err != nil {
			return nil, fmt.Errorf("scan sync run: %w", err)
		}
		run.Phase = seed.Phase(phase)
		run.Timestamp = run.Timestamp.UTC()
		if len(stats) > 0 {
			var st seed.Stats
			if err := json.Unmarshal(stats, &st); err != nil {
				return nil, fmt.Errorf("decode stats: %w", err)
			}
			run.Stats = &st
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

// Latest returns the most recent run, or nil when none is recorded.
func (s *Store) Latest(ctx context.Context) (*seed.RunRecord, error) {
	runs, err := s.List(ctx, 1)
	if err != nil || len(runs) == 0 {
		return nil, err
	}
	return &runs[0], nil
}

// Prune deletes runs older than the cutoff and reports how many went.
func (s *Store) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	if s == nil {
		return 0, nil
	}
	tag, err := s.pool.Exec(ctx, "prune_sync_runs", olderThan)
	if err != nil {
		return 0, fmt.Errorf("prune sync runs: %w", err)
	}
	return tag.RowsAffected(), nil
}
