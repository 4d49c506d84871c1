package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/guardrail"
	"github.com/jonathan/job-tracker/internal/status"
	"github.com/jonathan/job-tracker/internal/tracker"
)

var verifyConcurrency int

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Audit resume artifacts across the vault",
	Long: `Walk every tracker file in the vault and re-run the resume artifact
checks on trackers that claim Resume Written or a later stage. Reports
trackers whose artifacts have gone missing or stale since the transition.`,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().IntVar(&verifyConcurrency, "concurrency", 8, "Number of trackers checked in parallel")
	rootCmd.AddCommand(verifyCmd)
}

type verifyFinding struct {
	path   string
	reason string
}

func runVerify(cmd *cobra.Command, _ []string) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var paths []string
	err = filepath.WalkDir(cfg.VaultDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".md") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk vault: %w", err)
	}

	var (
		mu       sync.Mutex
		findings []verifyFinding
		checked  int
	)

	g, _ := errgroup.WithContext(cmd.Context())
	g.SetLimit(verifyConcurrency)

	for _, path := range paths {
		g.Go(func() error {
			reason, skipped := verifyTracker(path)
			mu.Lock()
			defer mu.Unlock()
			if !skipped {
				checked++
			}
			if reason != "" {
				findings = append(findings, verifyFinding{path: path, reason: reason})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	sort.Slice(findings, func(i, j int) bool { return findings[i].path < findings[j].path })

	for _, f := range findings {
		rel, err := filepath.Rel(cfg.VaultDir, f.path)
		if err != nil {
			rel = f.path
		}
		fmt.Fprintf(os.Stdout, "%s: %s\n", rel, f.reason)
	}
	fmt.Fprintf(os.Stdout, "Checked %d trackers, %d findings\n", checked, len(findings))

	if len(findings) > 0 {
		return fmt.Errorf("%d trackers failed verification", len(findings))
	}
	return nil
}

// verifyTracker re-checks one tracker file. Trackers before the Resume
// Written stage are skipped. A non-empty reason is a finding.
func verifyTracker(path string) (reason string, skipped bool) {
	doc, err := tracker.Load(path)
	if err != nil {
		return "unreadable tracker: " + err.Error(), false
	}

	raw, ok := doc.Get(tracker.KeyStatus)
	if !ok {
		return "tracker has no " + tracker.KeyStatus, false
	}
	st, err := status.ParseTracker(raw)
	if err != nil {
		return err.Error(), false
	}
	switch st {
	case status.TrackerReviewed, status.TrackerRejected, status.TrackerGhosted:
		return "", true
	}

	ref, ok := doc.Get(tracker.KeyResumePath)
	if !ok {
		return "tracker has no " + tracker.KeyResumePath, false
	}
	pdf, err := guardrail.ResolveResumeRef(ref)
	if err != nil {
		return "tracker has an empty " + tracker.KeyResumePath, false
	}
	if !filepath.IsAbs(pdf) {
		pdf = filepath.Join(filepath.Dir(path), pdf)
	}

	if res := guardrail.ValidateResumeArtifacts(pdf, guardrail.SourcePath(pdf)); !res.OK {
		return res.Reason, false
	}
	return "", false
}
