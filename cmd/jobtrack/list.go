package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/lifecycle"
)

var (
	listLimit  int
	listCursor string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List jobs awaiting triage",
	Long:  "List jobs still in the new state, newest first. Pass the printed cursor back with --cursor to fetch the next page.",
	RunE:  runList,
}

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", lifecycle.DefaultPageLimit, "Page size")
	listCmd.Flags().StringVar(&listCursor, "cursor", "", "Cursor from a previous page")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	svc, database, _, err := openService(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	page, err := svc.ListNew(ctx, listLimit, listCursor)
	if err != nil {
		return err
	}

	for _, job := range page.Jobs {
		title := "(untitled)"
		if job.Title != nil && *job.Title != "" {
			title = *job.Title
		}
		company := ""
		if job.Company != nil {
			company = *job.Company
		}
		fmt.Fprintf(os.Stdout, "%8d  %-19s  %-24s  %s\n",
			job.ID, job.CapturedAt.Format("2006-01-02 15:04:05"), company, title)
	}

	if page.HasMore && page.NextCursor != nil {
		fmt.Fprintf(os.Stdout, "\nMore rows remain. Next page:\n  jobtrack list --cursor %s\n", *page.NextCursor)
	}
	return nil
}
