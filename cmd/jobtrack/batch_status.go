package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/db"
	"github.com/jonathan/job-tracker/internal/status"
)

var batchStatusValue string

var batchStatusCmd = &cobra.Command{
	Use:   "batch-status <job-id>...",
	Short: "Set the status of several jobs at once",
	Long: `Set every listed job to the same status in one transaction. The batch
is all or nothing: if any item fails, no row changes and each item is
reported with its reason.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatchStatus,
}

func init() {
	batchStatusCmd.Flags().StringVar(&batchStatusValue, "status", "", "Status to set on every listed job (required)")
	batchStatusCmd.MarkFlagRequired("status")
	rootCmd.AddCommand(batchStatusCmd)
}

func runBatchStatus(cmd *cobra.Command, args []string) error {
	st, err := status.Parse(batchStatusValue)
	if err != nil {
		return err
	}

	updates := make([]db.StatusUpdate, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid job id %q", arg)
		}
		updates = append(updates, db.StatusUpdate{ID: id, Status: st})
	}

	ctx := cmd.Context()
	svc, database, _, err := openService(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	result, err := svc.ApplyBatch(ctx, updates)
	if err != nil {
		return err
	}

	if result.FailedCount > 0 {
		fmt.Fprintf(os.Stdout, "Batch rolled back, no rows changed:\n")
		for _, item := range result.Results {
			if !item.OK {
				fmt.Fprintf(os.Stdout, "  %d: %s\n", item.ID, item.Reason)
			}
		}
		return fmt.Errorf("%d of %d items failed", result.FailedCount, len(result.Results))
	}

	fmt.Fprintf(os.Stdout, "Updated %d jobs to %s\n", result.UpdatedCount, st)
	return nil
}
