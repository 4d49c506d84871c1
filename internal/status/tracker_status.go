package status

import "fmt"

// TrackerStatus is the capitalized, human-facing status written into tracker
// frontmatter. It is a display projection of the canonical status plus the
// post-application stages (Interview, Offer) that the jobs table does not track.
type TrackerStatus string

const (
	TrackerReviewed      TrackerStatus = "Reviewed"
	TrackerResumeWritten TrackerStatus = "Resume Written"
	TrackerApplied       TrackerStatus = "Applied"
	TrackerInterview     TrackerStatus = "Interview"
	TrackerOffer         TrackerStatus = "Offer"
	TrackerRejected      TrackerStatus = "Rejected"
	TrackerGhosted       TrackerStatus = "Ghosted"
)

// ParseTracker converts a raw frontmatter value into a tracker status.
func ParseTracker(raw string) (TrackerStatus, error) {
	t := TrackerStatus(raw)
	switch t {
	case TrackerReviewed, TrackerResumeWritten, TrackerApplied,
		TrackerInterview, TrackerOffer, TrackerRejected, TrackerGhosted:
		return t, nil
	}
	return "", fmt.Errorf("unknown tracker status %q", raw)
}

// Milestone returns the canonical status backing a tracker status. Interview
// and Offer are post-application stages: the jobs table stays at applied.
func (t TrackerStatus) Milestone() Status {
	switch t {
	case TrackerReviewed:
		return Reviewed
	case TrackerResumeWritten:
		return ResumeWritten
	case TrackerApplied, TrackerInterview, TrackerOffer:
		return Applied
	case TrackerRejected:
		return Reject
	case TrackerGhosted:
		return Ghosted
	}
	return ""
}

// Projection returns the tracker status displayed for a canonical status.
// new and shortlist have no tracker projection (the tracker file is created
// when a job is shortlisted, with an explicit initial status).
func (s Status) Projection() (TrackerStatus, bool) {
	switch s {
	case Reviewed:
		return TrackerReviewed, true
	case ResumeWritten:
		return TrackerResumeWritten, true
	case Applied:
		return TrackerApplied, true
	case Reject:
		return TrackerRejected, true
	case Ghosted:
		return TrackerGhosted, true
	}
	return "", false
}
