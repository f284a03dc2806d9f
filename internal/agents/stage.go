// Package agents defines the pluggable agent-stage capability and the two
// built-in stages of the design pipeline: a design generator and a design
// reviewer. Stages are pure with respect to the project record; they return
// artifacts and never touch persisted state.
package agents

import (
	"context"
	"time"

	"github.com/ShoaibShoukat2/AIAgents/internal/projects/domain"
)

// Input is the context handed to a stage invocation: the project's
// requirements plus everything earlier stages produced.
type Input struct {
	Requirements string
	Artifacts    []domain.Artifact
}

// Stage is a single pluggable unit of the pipeline. Implementations must
// honor ctx cancellation and deadlines; a stage that overruns its budget is
// treated as failed by the pipeline runner.
type Stage interface {
	// Kind identifies the artifact kind this stage produces.
	Kind() domain.ArtifactKind

	// Execute transforms the input into a new artifact.
	Execute(ctx context.Context, in Input) (domain.Artifact, error)
}

// simulate blocks for d to model agent latency, returning early with the
// context error if the invocation is cancelled or times out.
func simulate(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
