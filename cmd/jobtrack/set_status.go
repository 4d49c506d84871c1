package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/lifecycle"
	"github.com/jonathan/job-tracker/internal/status"
)

var (
	setStatusTarget string
	setStatusForce  bool
)

var setStatusCmd = &cobra.Command{
	Use:   "set-status <tracker-file>",
	Short: "Move a job to a new status via its tracker file",
	Long: `Move the job behind a tracker file to a new status. The database row
moves first; the tracker file is rewritten to match. Transitions the policy
does not permit are reported as blocked rather than applied; --force
overrides the policy and records a warning.`,
	Args: cobra.ExactArgs(1),
	RunE: runSetStatus,
}

func init() {
	setStatusCmd.Flags().StringVar(&setStatusTarget, "target", "", `Target status, e.g. "Resume Written" or "Applied" (required)`)
	setStatusCmd.Flags().BoolVar(&setStatusForce, "force", false, "Bypass the transition policy")

	setStatusCmd.MarkFlagRequired("target")

	rootCmd.AddCommand(setStatusCmd)
}

func runSetStatus(cmd *cobra.Command, args []string) error {
	target, err := status.ParseTracker(setStatusTarget)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	svc, database, _, err := openService(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	outcome, err := svc.UpdateTrackerStatus(ctx, lifecycle.TrackerUpdate{
		TrackerPath: args[0],
		Target:      target,
		Force:       setStatusForce,
	})
	if err != nil {
		return err
	}

	if outcome.Blocked {
		fmt.Fprintf(os.Stdout, "Blocked: %s\n", outcome.Reason)
		return nil
	}
	for _, warning := range outcome.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
	}
	if outcome.Noop {
		fmt.Fprintf(os.Stdout, "Job %d already at %s, nothing to do\n", outcome.JobID, outcome.Status)
		return nil
	}
	fmt.Fprintf(os.Stdout, "Job %d moved to %s\n", outcome.JobID, outcome.Status)
	return nil
}
