package db

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonathan/job-tracker/internal/errs"
	"github.com/jonathan/job-tracker/internal/status"
)

// InsertBatch ingests scraped records with insert-only dedup keyed on url.
// A unique-key conflict counts as a duplicate and leaves the existing row
// completely untouched. The status argument is validated once before any row
// is attempted; an empty record list is a valid no-op.
func (db *DB) InsertBatch(ctx context.Context, records []IngestRecord, st status.Status, runID uuid.UUID) (*IngestResult, error) {
	if !st.Valid() {
		return nil, errs.Newf(errs.KindValidation, "invalid ingest status %q", st)
	}

	result := &IngestResult{}
	if len(records) == 0 {
		return result, nil
	}

	if err := db.ensureSchemaOnce(ctx); err != nil {
		return nil, err
	}

	for _, rec := range records {
		if rec.URL == "" {
			return nil, errs.New(errs.KindValidation, "ingest record is missing url")
		}

		tag, err := db.pool.Exec(ctx,
			`INSERT INTO jobs (url, title, company, location, source, status, run_id)
			 VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), $6, $7)
			 ON CONFLICT (url) DO NOTHING`,
			rec.URL, rec.Title, rec.Company, rec.Location, rec.Source, string(st), runID)
		if err != nil {
			return nil, errs.Wrap(errs.KindStorage, err, "failed to insert job")
		}

		if tag.RowsAffected() == 1 {
			result.InsertedCount++
		} else {
			result.DuplicateCount++
		}
	}

	if db.log != nil {
		db.log.Infow("Ingest batch finished",
			"run_id", runID,
			"inserted", result.InsertedCount,
			"duplicates", result.DuplicateCount,
		)
	}
	return result, nil
}
