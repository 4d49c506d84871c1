package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/jonathan/job-tracker/internal/errs"
	"github.com/jonathan/job-tracker/internal/status"
)

// MaxBatchSize caps a single batch status update.
const MaxBatchSize = 100

// BatchWriter executes status mutations on one exclusively owned pool
// connection. Each call runs in its own transaction, so a caller can chain a
// finalize write and a fallback write without reacquiring the connection.
type BatchWriter struct {
	conn *pgxpool.Conn
	log  *zap.SugaredLogger
}

// AcquireBatchWriter preflights the jobs schema and pins one connection.
// Callers must Release it.
func (db *DB) AcquireBatchWriter(ctx context.Context) (*BatchWriter, error) {
	if err := db.ensureSchemaOnce(ctx); err != nil {
		return nil, err
	}
	if err := db.CheckAuditColumn(ctx); err != nil {
		return nil, err
	}
	conn, err := db.pool.Acquire(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.KindStorage, err, "failed to acquire connection")
	}
	return &BatchWriter{conn: conn, log: db.log}, nil
}

// Release returns the connection to the pool.
func (w *BatchWriter) Release() {
	if w.conn != nil {
		w.conn.Release()
		w.conn = nil
	}
}

// validateBatchShape rejects malformed batches before any storage access.
func validateBatchShape(updates []StatusUpdate) error {
	if len(updates) > MaxBatchSize {
		return errs.Newf(errs.KindValidation, "batch of %d exceeds maximum size of %d", len(updates), MaxBatchSize)
	}
	seen := make(map[int64]struct{}, len(updates))
	for _, u := range updates {
		if _, dup := seen[u.ID]; dup {
			return errs.Newf(errs.KindValidation, "batch contains duplicate id %d", u.ID)
		}
		seen[u.ID] = struct{}{}
	}
	return nil
}

// Apply updates every row in one transaction, stamping all of them with one
// shared timestamp so the batch is identifiable as a unit. Any per-item
// validation or existence failure rolls back the whole batch; the itemized
// result then reports every entry as failed with its specific reason.
func (w *BatchWriter) Apply(ctx context.Context, updates []StatusUpdate) (*BatchResult, error) {
	if err := validateBatchShape(updates); err != nil {
		return nil, err
	}

	result := &BatchResult{Results: make([]ItemResult, len(updates))}
	if len(updates) == 0 {
		return result, nil
	}

	tx, err := w.conn.Begin(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.KindStorage, err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	failed := false
	for i, u := range updates {
		result.Results[i] = ItemResult{ID: u.ID, OK: true}

		if !u.Status.Valid() {
			result.Results[i] = ItemResult{ID: u.ID, Reason: fmt.Sprintf("invalid status %q", u.Status)}
			failed = true
			continue
		}

		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM jobs WHERE id = $1)`, u.ID,
		).Scan(&exists); err != nil {
			return nil, errs.Wrap(errs.KindStorage, err, "failed to check job existence")
		}
		if !exists {
			result.Results[i] = ItemResult{ID: u.ID, Reason: fmt.Sprintf("job %d does not exist", u.ID)}
			failed = true
		}
	}

	if failed {
		// Rollback happens in the deferred call; items that passed their own
		// checks still fail because the batch is all-or-nothing.
		for i := range result.Results {
			if result.Results[i].OK {
				result.Results[i] = ItemResult{ID: result.Results[i].ID, Reason: "batch rolled back"}
			}
		}
		result.FailedCount = len(updates)
		return result, nil
	}

	now := time.Now().UTC()
	for _, u := range updates {
		if _, err := tx.Exec(ctx,
			`UPDATE jobs SET status = $1, updated_at = $2 WHERE id = $3`,
			string(u.Status), now, u.ID,
		); err != nil {
			return nil, errs.Wrap(errs.KindStorage, err, "failed to update job status")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errs.Wrap(errs.KindStorage, err, "failed to commit batch")
	}

	result.UpdatedCount = len(updates)
	if w.log != nil {
		w.log.Infow("Batch status update committed", "count", len(updates), "stamped_at", now)
	}
	return result, nil
}

// SetStatus updates a single row's status and audit timestamp in its own
// transaction.
func (w *BatchWriter) SetStatus(ctx context.Context, id int64, st status.Status, now time.Time) error {
	if !st.Valid() {
		return errs.Newf(errs.KindValidation, "invalid status %q", st)
	}
	return w.exec(ctx, "failed to set status",
		`UPDATE jobs SET status = $1, updated_at = $2 WHERE id = $3`,
		string(st), now, id)
}

// FinalizeResume records a successful entry into resume_written: artifact
// reference, milestone, audit stamp, attempt counter, and a cleared error.
func (w *BatchWriter) FinalizeResume(ctx context.Context, id int64, pdfPath string, now time.Time) error {
	return w.exec(ctx, "failed to finalize resume",
		`UPDATE jobs
		 SET status = $1, resume_pdf_path = $2, resume_written_at = $3,
		     updated_at = $3, attempt_count = attempt_count + 1, last_error = NULL
		 WHERE id = $4`,
		string(status.ResumeWritten), pdfPath, now, id)
}

// Fallback is the compensating write issued when the tracker rewrite fails
// after the database transition already committed: the row returns to a
// retryable milestone and the failure is recorded.
func (w *BatchWriter) Fallback(ctx context.Context, id int64, to status.Status, reason string, now time.Time) error {
	return w.exec(ctx, "failed to apply fallback",
		`UPDATE jobs SET status = $1, updated_at = $2, last_error = $3 WHERE id = $4`,
		string(to), now, errs.Sanitize(reason), id)
}

func (w *BatchWriter) exec(ctx context.Context, failMsg, sql string, args ...any) error {
	tx, err := w.conn.Begin(ctx)
	if err != nil {
		return errs.Wrap(errs.KindStorage, err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return errs.Wrap(errs.KindStorage, err, failMsg)
	}
	if tag.RowsAffected() == 0 {
		return errs.Newf(errs.KindNotFound, "job not found")
	}
	if err := tx.Commit(ctx); err != nil {
		return errs.Wrap(errs.KindStorage, err, failMsg)
	}
	return nil
}
