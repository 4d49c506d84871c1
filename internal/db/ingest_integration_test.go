//go:build integration

package db

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/jonathan/job-tracker/internal/status"
)

func TestIntegration_InsertBatch_Idempotent(t *testing.T) {
	database := getTestDB(t)
	defer database.Close()
	ctx := context.Background()

	runID := uuid.New()
	defer cleanupRun(t, database, runID)

	records := []IngestRecord{
		{URL: testURL("idempotent"), Title: "Platform Engineer", Company: "Acme", Source: "greenhouse"},
		{URL: testURL("idempotent"), Title: "SRE", Company: "Umbrella", Source: "lever"},
		{URL: testURL("idempotent"), Title: "Backend Engineer", Company: "Initech", Source: "ashby"},
	}

	first, err := database.InsertBatch(ctx, records, status.New, runID)
	if err != nil {
		t.Fatalf("first InsertBatch failed: %v", err)
	}
	if first.InsertedCount != len(records) || first.DuplicateCount != 0 {
		t.Fatalf("first run = %+v, want all inserted", first)
	}

	// Re-running the same URLs must insert nothing and mutate nothing.
	second, err := database.InsertBatch(ctx, records, status.New, uuid.New())
	if err != nil {
		t.Fatalf("second InsertBatch failed: %v", err)
	}
	if second.InsertedCount != 0 || second.DuplicateCount != len(records) {
		t.Errorf("second run = %+v, want all duplicates", second)
	}

	// Original rows keep their first run_id; the conflict did not merge fields.
	var count int
	err = database.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM jobs WHERE run_id = $1`, runID).Scan(&count)
	if err != nil {
		t.Fatal(err)
	}
	if count != len(records) {
		t.Errorf("rows under original run_id = %d, want %d", count, len(records))
	}
}

func TestIntegration_InsertBatch_EmptyAndInvalid(t *testing.T) {
	database := getTestDB(t)
	defer database.Close()
	ctx := context.Background()

	res, err := database.InsertBatch(ctx, nil, status.New, uuid.New())
	if err != nil {
		t.Fatalf("empty batch should be a no-op, got %v", err)
	}
	if res.InsertedCount != 0 || res.DuplicateCount != 0 {
		t.Errorf("empty batch = %+v, want (0,0)", res)
	}

	if _, err := database.InsertBatch(ctx, nil, status.Status("bogus"), uuid.New()); err == nil {
		t.Error("invalid status should be rejected before any row is attempted")
	}
}
