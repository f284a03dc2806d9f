package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no project exists for the given id.
	ErrNotFound = errors.New("project not found")

	// ErrInvalidState is returned when an operation is attempted against a
	// project whose current status does not permit it, e.g. approving a
	// project that is not pending approval.
	ErrInvalidState = errors.New("operation not allowed in current project status")

	// ErrConcurrentModification is returned when a versioned write loses a
	// race against another writer of the same project record.
	ErrConcurrentModification = errors.New("project was modified concurrently")

	// ErrPipelineActive is returned when a second pipeline run is requested
	// for a project that already has one in flight.
	ErrPipelineActive = errors.New("pipeline already running for project")
)

// InvalidTransitionError identifies a state-machine edge that does not exist.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition: %s -> %s", e.From, e.To)
}
