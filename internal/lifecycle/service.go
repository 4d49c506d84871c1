// Package lifecycle composes the record store, tracker store, guardrail
// validator, and transition policy into the operations the CLI and HTTP
// boundary expose: paginated reads, batch status updates, guarded tracker
// transitions, and idempotent ingest.
package lifecycle

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/job-tracker/internal/cursor"
	"github.com/jonathan/job-tracker/internal/db"
	"github.com/jonathan/job-tracker/internal/errs"
	"github.com/jonathan/job-tracker/internal/status"
)

// DefaultPageLimit applies when a caller omits the page size.
const DefaultPageLimit = 50

// MaxPageLimit caps a single page.
const MaxPageLimit = 100

// Service owns the composed lifecycle operations. Every operation is a
// synchronous call that fully completes, including storage sync, before
// returning; there are no background workers.
type Service struct {
	db       *db.DB
	vaultDir string
	log      *zap.SugaredLogger
}

// New builds a Service. vaultDir is the root against which relative tracker
// and resume paths resolve.
func New(database *db.DB, vaultDir string, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{db: database, vaultDir: vaultDir, log: logger}
}

// Page is one page of the status = new scan.
type Page struct {
	Jobs       []db.Job `json:"jobs"`
	HasMore    bool     `json:"has_more"`
	NextCursor *string  `json:"next_cursor"`
}

// ListNew returns one page of jobs awaiting triage, newest first. An empty
// cursorToken means the first page. The next cursor is produced only when
// more rows remain.
func (s *Service) ListNew(ctx context.Context, limit int, cursorToken string) (*Page, error) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	var before *cursor.Cursor
	if cursorToken != "" {
		c, err := cursor.Decode(cursorToken)
		if err != nil {
			return nil, errs.Wrap(errs.KindValidation, err, "bad cursor")
		}
		before = c
	}

	rows, err := s.db.ListNew(ctx, limit+1, before)
	if err != nil {
		return nil, err
	}

	page := &Page{HasMore: len(rows) > limit}
	if page.HasMore {
		rows = rows[:limit]
	}
	if rows == nil {
		// An empty page serializes as an empty array, not null.
		rows = []db.Job{}
	}
	page.Jobs = rows

	if page.HasMore && len(rows) > 0 {
		last := rows[len(rows)-1]
		token := cursor.Encode(cursor.Cursor{CapturedAt: last.CapturedAt, ID: last.ID})
		page.NextCursor = &token
	}
	return page, nil
}

// ApplyBatch runs one all-or-nothing batch status update.
func (s *Service) ApplyBatch(ctx context.Context, updates []db.StatusUpdate) (*db.BatchResult, error) {
	writer, err := s.db.AcquireBatchWriter(ctx)
	if err != nil {
		return nil, err
	}
	defer writer.Release()

	return writer.Apply(ctx, updates)
}

// Ingest inserts scraped records under a fresh run id.
func (s *Service) Ingest(ctx context.Context, records []db.IngestRecord, st status.Status) (*db.IngestResult, uuid.UUID, error) {
	runID := uuid.New()
	result, err := s.db.InsertBatch(ctx, records, st, runID)
	if err != nil {
		return nil, uuid.Nil, err
	}
	return result, runID, nil
}
