//go:build integration

package db

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/jonathan/job-tracker/internal/cursor"
	"github.com/jonathan/job-tracker/internal/status"
)

func TestIntegration_ListNew_KeysetPagination(t *testing.T) {
	database := getTestDB(t)
	defer database.Close()
	ctx := context.Background()

	runID := uuid.New()
	defer cleanupRun(t, database, runID)
	ingestTestJobs(t, database, runID, 51)

	// First page: ask for one extra row to detect more pages, the caller's
	// contract for a page of 50.
	page, err := database.ListNew(ctx, 51, nil)
	if err != nil {
		t.Fatalf("ListNew failed: %v", err)
	}
	if len(page) < 51 {
		t.Fatalf("fetched %d rows, need at least 51 seeded", len(page))
	}
	page = page[:51]

	// Strictly descending (captured_at, id).
	for i := 1; i < len(page); i++ {
		prev, cur := page[i-1], page[i]
		if cur.CapturedAt.After(prev.CapturedAt) {
			t.Fatalf("rows out of order at %d: %v after %v", i, cur.CapturedAt, prev.CapturedAt)
		}
		if cur.CapturedAt.Equal(prev.CapturedAt) && cur.ID >= prev.ID {
			t.Fatalf("id tiebreak violated at %d: %d >= %d", i, cur.ID, prev.ID)
		}
	}

	// Resume from the 50th row; the next page must start at the 51st.
	last := page[49]
	next, err := database.ListNew(ctx, 1, &cursor.Cursor{CapturedAt: last.CapturedAt, ID: last.ID})
	if err != nil {
		t.Fatalf("ListNew with cursor failed: %v", err)
	}
	if len(next) != 1 {
		t.Fatalf("next page has %d rows, want 1", len(next))
	}
	if next[0].ID != page[50].ID {
		t.Errorf("cursor resumed at id %d, want %d", next[0].ID, page[50].ID)
	}
}

func TestIntegration_GetJob(t *testing.T) {
	database := getTestDB(t)
	defer database.Close()
	ctx := context.Background()

	runID := uuid.New()
	defer cleanupRun(t, database, runID)
	ids := ingestTestJobs(t, database, runID, 1)

	job, err := database.GetJob(ctx, ids[0])
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if job == nil || job.Status != status.New {
		t.Errorf("job = %+v, want fresh new row", job)
	}

	absent, err := database.GetJob(ctx, -1)
	if err != nil {
		t.Fatalf("GetJob(-1) errored: %v", err)
	}
	if absent != nil {
		t.Error("GetJob(-1) should return nil for a missing row")
	}
}
