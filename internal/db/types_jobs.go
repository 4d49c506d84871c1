package db

import (
	"time"

	"github.com/jonathan/job-tracker/internal/status"
)

// Job is one row of the jobs table. Rows are created by ingest, mutated by
// batch status updates or the finalize/fallback pair, and never deleted.
type Job struct {
	ID              int64          `json:"id"`
	URL             string         `json:"url"`
	Title           *string        `json:"title,omitempty"`
	Company         *string        `json:"company,omitempty"`
	Location        *string        `json:"location,omitempty"`
	Source          *string        `json:"source,omitempty"`
	Status          status.Status  `json:"status"`
	CapturedAt      time.Time      `json:"captured_at"`
	UpdatedAt       *time.Time     `json:"updated_at,omitempty"`
	ResumePDFPath   *string        `json:"resume_pdf_path,omitempty"`
	ResumeWrittenAt *time.Time     `json:"resume_written_at,omitempty"`
	RunID           *string        `json:"run_id,omitempty"`
	AttemptCount    int            `json:"attempt_count"`
	LastError       *string        `json:"last_error,omitempty"`
}

// IngestRecord is one raw scraped job handed to the ingest writer. The
// scraper itself is an external collaborator; records arrive already
// structured.
type IngestRecord struct {
	URL      string `json:"url"`
	Title    string `json:"title,omitempty"`
	Company  string `json:"company,omitempty"`
	Location string `json:"location,omitempty"`
	Source   string `json:"source,omitempty"`
}

// StatusUpdate is one item of a batch status update request.
type StatusUpdate struct {
	ID     int64         `json:"id"`
	Status status.Status `json:"status"`
}

// ItemResult reports the fate of a single batch item.
type ItemResult struct {
	ID     int64  `json:"id"`
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

// BatchResult summarizes a batch status update. Partial success never
// happens: either every item updated or every item is itemized as failed.
type BatchResult struct {
	UpdatedCount int          `json:"updated_count"`
	FailedCount  int          `json:"failed_count"`
	Results      []ItemResult `json:"results"`
}

// IngestResult summarizes an ingest batch.
type IngestResult struct {
	InsertedCount  int `json:"inserted_count"`
	DuplicateCount int `json:"duplicate_count"`
}
