package lifecycle

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/job-tracker/internal/db"
	"github.com/jonathan/job-tracker/internal/errs"
	"github.com/jonathan/job-tracker/internal/status"
	"github.com/jonathan/job-tracker/internal/tracker"
)

// Shortlist moves a job into the shortlist milestone and creates its tracker
// file. One tracker per job, created exactly once; an existing file fails the
// call before the row is touched.
func (s *Service) Shortlist(ctx context.Context, jobID int64, trackerPath, resumePath string) (*db.Job, error) {
	path := trackerPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.vaultDir, path)
	}
	if _, err := os.Stat(path); err == nil {
		return nil, errs.Newf(errs.KindValidation, "tracker %s already exists", filepath.Base(path))
	}

	job, err := s.db.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, errs.Newf(errs.KindNotFound, "job %d not found", jobID)
	}

	writer, err := s.db.AcquireBatchWriter(ctx)
	if err != nil {
		return nil, err
	}
	defer writer.Release()

	now := time.Now().UTC()
	if err := writer.SetStatus(ctx, jobID, status.Shortlist, now); err != nil {
		return nil, err
	}

	doc := tracker.NewDocument(jobID, job.URL, status.TrackerReviewed, resumePath, now.Format("2006-01-02"))
	if err := tracker.Create(path, doc); err != nil {
		if fbErr := writer.Fallback(ctx, jobID, job.Status, err.Error(), time.Now().UTC()); fbErr != nil {
			s.log.Errorw("Compensating fallback failed; stores have diverged",
				"job_id", jobID, "error", fbErr)
			return nil, fbErr
		}
		return nil, errs.Wrap(errs.KindStorage, err, "tracker creation failed, job returned to "+string(job.Status))
	}

	s.log.Infow("Job shortlisted", "job_id", jobID, "tracker", filepath.Base(path))
	return s.db.GetJob(ctx, jobID)
}
