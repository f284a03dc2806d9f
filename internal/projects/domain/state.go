package domain

import "time"

// Status is the lifecycle state of a project.
type Status string

const (
	StatusPending         Status = "pending"
	StatusGenerating      Status = "generating"
	StatusReviewing       Status = "reviewing"
	StatusPendingApproval Status = "pending_approval"
	StatusApproved        Status = "approved"
	StatusRejected        Status = "rejected"
	StatusFailed          Status = "failed"
)

// allowedTransitions is the project state graph. A status maps to the set
// of statuses it may move to; terminal statuses map to an empty set.
var allowedTransitions = map[Status]map[Status]struct{}{
	StatusPending: {
		StatusGenerating: {},
		StatusFailed:     {},
	},
	StatusGenerating: {
		StatusReviewing: {},
		StatusFailed:    {},
	},
	StatusReviewing: {
		StatusPendingApproval: {},
		StatusGenerating:      {},
		StatusFailed:          {},
	},
	StatusPendingApproval: {
		StatusApproved: {},
		StatusRejected: {},
	},
	StatusApproved: {},
	StatusRejected: {},
	StatusFailed:   {},
}

// ValidStatus reports whether s is a known project status.
func ValidStatus(s Status) bool {
	_, ok := allowedTransitions[s]
	return ok
}

// IsTerminal reports whether no further transitions are possible from s.
func (s Status) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// CanTransition reports whether the edge from -> to exists in the state graph.
func CanTransition(from, to Status) bool {
	_, ok := allowedTransitions[from][to]
	return ok
}

// Transition moves the project to the target status, refreshing UpdatedAt.
// An edge not present in the state graph returns *InvalidTransitionError
// and leaves the project untouched.
func Transition(p *Project, to Status) error {
	if !CanTransition(p.Status, to) {
		return &InvalidTransitionError{From: p.Status, To: to}
	}
	p.Status = to
	p.UpdatedAt = time.Now().UTC()
	return nil
}
