package status

import "fmt"

// Decision is the verdict of the transition policy. It carries no side
// effects; callers decide what to do with it.
type Decision struct {
	Allowed  bool
	IsNoop   bool
	Warnings []string
	Reason   string
}

// forwardEdges are the only non-terminal transitions permitted without force.
var forwardEdges = map[Status]Status{
	Reviewed:      ResumeWritten,
	ResumeWritten: Applied,
}

// Decide evaluates whether moving a job from current to target is permitted.
// Same-status requests are allowed no-ops. Terminal outcomes are reachable
// from any state. Everything else is blocked unless force is set, in which
// case the transition is allowed with a warning describing the bypass.
func Decide(current, target Status, force bool) Decision {
	if target == current {
		return Decision{Allowed: true, IsNoop: true}
	}

	if forwardEdges[current] == target {
		return Decision{Allowed: true}
	}

	if target.Terminal() {
		return Decision{Allowed: true}
	}

	if force {
		return Decision{
			Allowed: true,
			Warnings: []string{
				fmt.Sprintf("policy bypassed: %s -> %s is not a permitted transition", current, target),
			},
		}
	}

	return Decision{
		Reason: fmt.Sprintf("transition %s -> %s is not permitted", current, target),
	}
}
