package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	shortlistTracker string
	shortlistResume  string
)

var shortlistCmd = &cobra.Command{
	Use:   "shortlist <job-id>",
	Short: "Shortlist a job and create its tracker file",
	Long: `Move a job to the shortlist status and create its Markdown tracker
file in the vault. A job gets exactly one tracker; shortlisting a job whose
tracker already exists fails without touching the row.`,
	Args: cobra.ExactArgs(1),
	RunE: runShortlist,
}

func init() {
	shortlistCmd.Flags().StringVar(&shortlistTracker, "tracker", "", "Tracker file path, relative to the vault (required)")
	shortlistCmd.Flags().StringVar(&shortlistResume, "resume", "", "Resume reference to record in the tracker frontmatter")

	shortlistCmd.MarkFlagRequired("tracker")

	rootCmd.AddCommand(shortlistCmd)
}

func runShortlist(cmd *cobra.Command, args []string) error {
	jobID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || jobID <= 0 {
		return fmt.Errorf("invalid job id %q", args[0])
	}

	ctx := cmd.Context()
	svc, database, _, err := openService(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	job, err := svc.Shortlist(ctx, jobID, shortlistTracker, shortlistResume)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Job %d shortlisted, tracker created at %s\n", job.ID, shortlistTracker)
	return nil
}
