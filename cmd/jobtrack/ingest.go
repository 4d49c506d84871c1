package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/db"
	"github.com/jonathan/job-tracker/internal/schemas"
	"github.com/jonathan/job-tracker/internal/status"
)

var (
	ingestFile   string
	ingestStatus string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest scraped jobs from a JSON file",
	Long:  "Ingest a JSON array of scraped job records. Records whose URL is already known are skipped, so re-running the same file is safe.",
	RunE:  runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestFile, "file", "f", "", "Path to JSON file with scraped records (required)")
	ingestCmd.Flags().StringVar(&ingestStatus, "status", "new", "Status assigned to inserted rows")

	ingestCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	st, err := status.Parse(ingestStatus)
	if err != nil {
		return err
	}

	payload, err := os.ReadFile(ingestFile)
	if err != nil {
		return fmt.Errorf("failed to read records file: %w", err)
	}
	if err := schemas.ValidateIngestRecords(payload); err != nil {
		return err
	}

	var records []db.IngestRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return fmt.Errorf("failed to parse records file: %w", err)
	}

	ctx := cmd.Context()
	svc, database, _, err := openService(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	result, runID, err := svc.Ingest(ctx, records, st)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Run %s: %d inserted, %d duplicates skipped\n",
		runID, result.InsertedCount, result.DuplicateCount)
	return nil
}
