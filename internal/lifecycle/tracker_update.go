package lifecycle

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jonathan/job-tracker/internal/errs"
	"github.com/jonathan/job-tracker/internal/guardrail"
	"github.com/jonathan/job-tracker/internal/status"
	"github.com/jonathan/job-tracker/internal/tracker"
)

// TrackerUpdate is a request to move one job, addressed by its tracker file,
// to a new human-facing status.
type TrackerUpdate struct {
	// TrackerPath locates the tracker document, absolute or relative to the
	// vault directory.
	TrackerPath string
	// Target is the tracker status to move to.
	Target status.TrackerStatus
	// Force bypasses the transition policy, carrying a warning.
	Force bool
}

// TrackerOutcome reports a tracker update. Blocked is an outcome, not an
// error: the request was well-formed but the policy or the guardrails
// refused it, for the recorded reason.
type TrackerOutcome struct {
	JobID    int64    `json:"job_id"`
	Status   string   `json:"status"`
	Noop     bool     `json:"noop"`
	Blocked  bool     `json:"blocked"`
	Reason   string   `json:"reason,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// UpdateTrackerStatus applies one status transition across both stores. The
// database row is the source of truth and moves first; the tracker file is a
// projection rewritten afterwards. The two writes are not covered by one
// transaction: when the file rewrite fails after the row committed, a
// compensating write returns the row to a retryable milestone and records
// the failure in last_error.
func (s *Service) UpdateTrackerStatus(ctx context.Context, req TrackerUpdate) (*TrackerOutcome, error) {
	path := req.TrackerPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.vaultDir, path)
	}

	doc, err := tracker.Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Newf(errs.KindNotFound, "tracker %s not found", filepath.Base(path))
		}
		return nil, errs.Wrap(errs.KindValidation, err, "failed to load tracker")
	}

	idRaw, ok := doc.Get(tracker.KeyJobDBID)
	if !ok {
		return nil, errs.Newf(errs.KindValidation, "tracker %s has no %s", filepath.Base(path), tracker.KeyJobDBID)
	}
	jobID, err := strconv.ParseInt(idRaw, 10, 64)
	if err != nil {
		return nil, errs.Newf(errs.KindValidation, "tracker %s has malformed %s %q", filepath.Base(path), tracker.KeyJobDBID, idRaw)
	}

	job, err := s.db.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, errs.Newf(errs.KindNotFound, "job %d not found", jobID)
	}

	milestone := req.Target.Milestone()
	decision := status.Decide(job.Status, milestone, req.Force)
	outcome := &TrackerOutcome{
		JobID:    jobID,
		Status:   string(req.Target),
		Noop:     decision.IsNoop,
		Warnings: decision.Warnings,
	}

	if !decision.Allowed {
		outcome.Blocked = true
		outcome.Reason = decision.Reason
		return outcome, nil
	}

	var resumePDF string
	if milestone == status.ResumeWritten && !decision.IsNoop {
		pdf, blockReason := s.resolveResumeArtifacts(doc, path)
		if blockReason != "" {
			outcome.Blocked = true
			outcome.Reason = blockReason
			return outcome, nil
		}
		resumePDF = pdf
	}

	// Database first. A no-op milestone (e.g. Applied -> Interview) skips
	// the row write entirely; the tracker projection still syncs below.
	if !decision.IsNoop {
		writer, err := s.db.AcquireBatchWriter(ctx)
		if err != nil {
			return nil, err
		}
		defer writer.Release()

		now := time.Now().UTC()
		if milestone == status.ResumeWritten {
			err = writer.FinalizeResume(ctx, jobID, resumePDF, now)
		} else {
			err = writer.SetStatus(ctx, jobID, milestone, now)
		}
		if err != nil {
			return nil, err
		}

		if err := tracker.UpdateStatus(path, req.Target); err != nil {
			// The row already committed; compensate instead of leaving the
			// stores pointing at different milestones.
			fallbackTo := job.Status
			if milestone == status.ResumeWritten {
				fallbackTo = status.Reviewed
			}
			if fbErr := writer.Fallback(ctx, jobID, fallbackTo, err.Error(), time.Now().UTC()); fbErr != nil {
				s.log.Errorw("Compensating fallback failed; stores have diverged",
					"job_id", jobID, "error", fbErr)
				return nil, fbErr
			}
			return nil, errs.Wrap(errs.KindStorage, err, "tracker rewrite failed, job returned to "+string(fallbackTo))
		}

		s.log.Infow("Tracker status updated",
			"job_id", jobID,
			"from", job.Status,
			"to", req.Target,
			"forced", req.Force,
		)
		return outcome, nil
	}

	// Milestone unchanged; rewrite the projection only when it differs.
	if current, _ := doc.Get(tracker.KeyStatus); current != string(req.Target) {
		if err := tracker.UpdateStatus(path, req.Target); err != nil {
			return nil, errs.Wrap(errs.KindStorage, err, "tracker rewrite failed")
		}
		outcome.Noop = false
	}
	return outcome, nil
}

// resolveResumeArtifacts locates the resume PDF referenced by the tracker and
// runs the guardrail gate. A non-empty second return is the blocking reason.
func (s *Service) resolveResumeArtifacts(doc *tracker.Document, trackerPath string) (string, string) {
	ref, ok := doc.Get(tracker.KeyResumePath)
	if !ok {
		return "", "tracker has no " + tracker.KeyResumePath
	}
	pdf, err := guardrail.ResolveResumeRef(ref)
	if err != nil {
		return "", "tracker has an empty " + tracker.KeyResumePath
	}

	resolved := pdf
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(filepath.Dir(trackerPath), resolved)
	}

	if res := guardrail.ValidateResumeArtifacts(resolved, guardrail.SourcePath(resolved)); !res.OK {
		return "", res.Reason
	}
	return pdf, ""
}
