// Package db provides PostgreSQL access for the jobs table: schema
// bootstrap, keyset reads, all-or-nothing batch status updates, and
// insert-only deduplicated ingestion.
package db

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/jonathan/job-tracker/internal/errs"
)

// DB wraps a PostgreSQL connection pool.
type DB struct {
	pool      *pgxpool.Pool
	log       *zap.SugaredLogger
	bootstrap sync.Once
}

// Open establishes a connection pool and verifies connectivity. If logger is
// nil the store operates silently.
func Open(ctx context.Context, databaseURL string, logger *zap.SugaredLogger) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if logger != nil {
		logger.Infow("Database connected")
	}

	return &DB{pool: pool, log: logger}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

const createJobsTable = `
CREATE TABLE IF NOT EXISTS jobs (
	id                BIGSERIAL PRIMARY KEY,
	url               TEXT NOT NULL UNIQUE,
	title             TEXT,
	company           TEXT,
	location          TEXT,
	source            TEXT,
	status            TEXT NOT NULL DEFAULT 'new'
		CHECK (status IN ('new','shortlist','reviewed','reject','resume_written','applied','ghosted')),
	captured_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at        TIMESTAMPTZ,
	resume_pdf_path   TEXT,
	resume_written_at TIMESTAMPTZ,
	run_id            UUID,
	attempt_count     INTEGER NOT NULL DEFAULT 0,
	last_error        TEXT
)`

const createStatusIndex = `
CREATE INDEX IF NOT EXISTS jobs_status_idx ON jobs (status)`

// EnsureSchema creates the jobs table and its status index when absent.
// Safe to call repeatedly.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, createJobsTable); err != nil {
		return errs.Wrap(errs.KindStorage, err, "failed to create jobs table")
	}
	if _, err := db.pool.Exec(ctx, createStatusIndex); err != nil {
		return errs.Wrap(errs.KindStorage, err, "failed to create status index")
	}
	if db.log != nil {
		db.log.Debugw("Schema ensured", "table", "jobs")
	}
	return nil
}

// ensureSchemaOnce bootstraps the schema on first use of the pool.
func (db *DB) ensureSchemaOnce(ctx context.Context) error {
	var err error
	db.bootstrap.Do(func() {
		err = db.EnsureSchema(ctx)
	})
	return err
}

// CheckAuditColumn preflights the audit column every mutation stamps. A
// missing column is a fatal schema error, never a per-item failure.
func (db *DB) CheckAuditColumn(ctx context.Context) error {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM information_schema.columns
			WHERE table_name = 'jobs' AND column_name = 'updated_at'
		)`,
	).Scan(&exists)
	if err != nil {
		return errs.Wrap(errs.KindStorage, err, "failed to preflight jobs schema")
	}
	if !exists {
		return errs.New(errs.KindInternal, "jobs table is missing the updated_at column")
	}
	return nil
}
