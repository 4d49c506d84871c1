package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-tracker/internal/cursor"
	"github.com/jonathan/job-tracker/internal/errs"
	"github.com/jonathan/job-tracker/internal/status"
)

const jobColumns = `id, url, title, company, location, source, status,
	captured_at, updated_at, resume_pdf_path, resume_written_at,
	run_id, attempt_count, last_error`

func scanJob(row pgx.Row) (*Job, error) {
	var j Job
	var st string
	err := row.Scan(&j.ID, &j.URL, &j.Title, &j.Company, &j.Location, &j.Source,
		&st, &j.CapturedAt, &j.UpdatedAt, &j.ResumePDFPath, &j.ResumeWrittenAt,
		&j.RunID, &j.AttemptCount, &j.LastError)
	if err != nil {
		return nil, err
	}
	j.Status = status.Status(st)
	return &j, nil
}

// GetJob retrieves a job by id. Returns nil when no row exists.
func (db *DB) GetJob(ctx context.Context, id int64) (*Job, error) {
	job, err := scanJob(db.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, errs.Wrap(errs.KindStorage, err, "failed to get job")
	}
	return job, nil
}

// ListNew fetches up to fetch rows with status = new in strictly descending
// (captured_at, id) order. When before is set it is a strict upper boundary
// on that ordering, so a scan resumes exactly after the last returned row.
func (db *DB) ListNew(ctx context.Context, fetch int, before *cursor.Cursor) ([]Job, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if before != nil {
		rows, err = db.pool.Query(ctx,
			`SELECT `+jobColumns+` FROM jobs
			 WHERE status = 'new'
			   AND (captured_at, id) < ($1::timestamptz, $2::bigint)
			 ORDER BY captured_at DESC, id DESC
			 LIMIT $3`,
			before.CapturedAt, before.ID, fetch)
	} else {
		rows, err = db.pool.Query(ctx,
			`SELECT `+jobColumns+` FROM jobs
			 WHERE status = 'new'
			 ORDER BY captured_at DESC, id DESC
			 LIMIT $1`,
			fetch)
	}
	if err != nil {
		return nil, errs.Wrap(errs.KindStorage, err, "failed to list new jobs")
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, errs.Wrap(errs.KindStorage, err, "failed to scan job row")
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.KindStorage, err, "failed to read job rows")
	}
	return jobs, nil
}
