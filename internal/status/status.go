// Package status defines the canonical job lifecycle statuses, the
// human-facing tracker projection, and the transition policy between them.
package status

import "fmt"

// Status is a canonical job record milestone as persisted in the jobs table.
type Status string

// Canonical lifecycle milestones. reject and ghosted are terminal outcomes.
const (
	New           Status = "new"
	Shortlist     Status = "shortlist"
	Reviewed      Status = "reviewed"
	Reject        Status = "reject"
	ResumeWritten Status = "resume_written"
	Applied       Status = "applied"
	Ghosted       Status = "ghosted"
)

// All returns every valid canonical status, in lifecycle order.
func All() []Status {
	return []Status{New, Shortlist, Reviewed, Reject, ResumeWritten, Applied, Ghosted}
}

// Valid reports whether s is one of the canonical statuses.
func (s Status) Valid() bool {
	switch s {
	case New, Shortlist, Reviewed, Reject, ResumeWritten, Applied, Ghosted:
		return true
	}
	return false
}

// Terminal reports whether s is a terminal outcome reachable from any state.
func (s Status) Terminal() bool {
	return s == Reject || s == Ghosted
}

// Parse converts a raw string into a canonical status. "rejected" is accepted
// as an alias of reject since tracker files use the past-tense spelling.
func Parse(raw string) (Status, error) {
	if raw == "rejected" {
		return Reject, nil
	}
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown status %q", raw)
	}
	return s, nil
}
