// Package main provides the entry point for the job tracker CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jobtrack",
	Short: "Job application lifecycle tracker",
	Long:  "jobtrack tracks job applications through their lifecycle, keeping a PostgreSQL table as the source of truth and per-job Markdown tracker files as a human-facing projection.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
