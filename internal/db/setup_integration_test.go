//go:build integration

package db

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
)

// getTestDB connects to the database named by TEST_DATABASE_URL and ensures
// the schema. Integration tests are skipped when the variable is unset.
func getTestDB(t *testing.T) *DB {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	database, err := Open(context.Background(), url, nil)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := database.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("Failed to ensure schema: %v", err)
	}
	return database
}

// testURL produces a unique job URL so runs never collide.
func testURL(prefix string) string {
	return fmt.Sprintf("https://boards.greenhouse.io/%s/jobs/%s", prefix, uuid.New().String())
}

// cleanupRun deletes every row a test ingested under runID.
func cleanupRun(t *testing.T, database *DB, runID uuid.UUID) {
	t.Helper()
	if _, err := database.pool.Exec(context.Background(),
		`DELETE FROM jobs WHERE run_id = $1`, runID); err != nil {
		t.Errorf("Failed to clean up test rows: %v", err)
	}
}
