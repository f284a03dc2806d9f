// Package pipeline drives one project through the agent stages: generation,
// review, and the hand-off to human approval. The runner owns every status
// transition between pending and pending_approval/failed and persists the
// project after each one, so a crash mid-run leaves the record inspectable
// at its last committed state.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ShoaibShoukat2/AIAgents/internal/agents"
	"github.com/ShoaibShoukat2/AIAgents/internal/projects/domain"
)

// ErrStageTimeout marks a stage invocation that exceeded its execution budget.
var ErrStageTimeout = errors.New("stage timed out")

// Store is the slice of the project store the runner needs.
type Store interface {
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
}

// Notifier receives project snapshots after every committed status change.
type Notifier interface {
	PublishStatusChange(ctx context.Context, p *domain.Project)
}

// Config bounds stage execution and the retry policy.
type Config struct {
	// StageTimeout is the execution budget for a single stage invocation.
	StageTimeout time.Duration

	// StageAttempts is the total number of attempts per stage invocation
	// before the run fails (first attempt included).
	StageAttempts int

	// MaxRevisions is how many failing review verdicts are sent back to
	// generation before the run fails.
	MaxRevisions int
}

func (c Config) withDefaults() Config {
	if c.StageTimeout <= 0 {
		c.StageTimeout = 60 * time.Second
	}
	if c.StageAttempts <= 0 {
		c.StageAttempts = 3
	}
	if c.MaxRevisions < 0 {
		c.MaxRevisions = 0
	}
	return c
}

// Runner executes the stage pipeline for one project at a time. Runs for
// different projects are independent; the orchestrator guarantees at most
// one live run per project id.
type Runner struct {
	store     Store
	generator agents.Stage
	reviewer  agents.Stage
	notifier  Notifier
	cfg       Config
}

// NewRunner wires a runner from its collaborators. notifier may be nil.
func NewRunner(store Store, generator, reviewer agents.Stage, notifier Notifier, cfg Config) *Runner {
	return &Runner{
		store:     store,
		generator: generator,
		reviewer:  reviewer,
		notifier:  notifier,
		cfg:       cfg.withDefaults(),
	}
}

// Run drives the project from pending to pending_approval, or to failed when
// the retry and revision budgets are exhausted. The project must currently be
// pending; anything else returns ErrInvalidState.
func (r *Runner) Run(ctx context.Context, projectID string) error {
	p, err := r.store.GetByID(ctx, projectID)
	if err != nil {
		return fmt.Errorf("load project: %w", err)
	}
	if p.Status != domain.StatusPending {
		return fmt.Errorf("project %s is %s: %w", p.ID, p.Status, domain.ErrInvalidState)
	}

	if err := r.advance(ctx, p, domain.StatusGenerating); err != nil {
		return err
	}

	revisions := 0
	for {
		design, err := r.executeStage(ctx, r.generator, p)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return r.fail(ctx, p, err)
		}
		p.Artifacts = append(p.Artifacts, design)
		if err := r.advance(ctx, p, domain.StatusReviewing); err != nil {
			return err
		}

		// Cooperative cancellation point between stages.
		if err := ctx.Err(); err != nil {
			return err
		}

		review, err := r.executeStage(ctx, r.reviewer, p)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return r.fail(ctx, p, err)
		}
		p.Artifacts = append(p.Artifacts, review)

		if review.Review != nil && review.Review.Passed {
			return r.advance(ctx, p, domain.StatusPendingApproval)
		}

		if revisions >= r.cfg.MaxRevisions {
			return r.fail(ctx, p, fmt.Errorf("review rejected design after %d revision(s)", revisions))
		}
		revisions++
		log.Printf("[info] operation=pipeline_run project=%s review failed, revision %d/%d", p.ID, revisions, r.cfg.MaxRevisions)

		if err := r.advance(ctx, p, domain.StatusGenerating); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// executeStage invokes one stage under its timeout, retrying on error until
// the attempt budget runs out. The parent context aborting stops retries.
func (r *Runner) executeStage(ctx context.Context, stage agents.Stage, p *domain.Project) (domain.Artifact, error) {
	in := agents.Input{
		Requirements: p.Requirements,
		Artifacts:    p.Artifacts,
	}

	var lastErr error
	for attempt := 1; attempt <= r.cfg.StageAttempts; attempt++ {
		sctx, cancel := context.WithTimeout(ctx, r.cfg.StageTimeout)
		artifact, err := stage.Execute(sctx, in)
		cancel()
		if err == nil {
			return artifact, nil
		}
		if ctx.Err() != nil {
			return domain.Artifact{}, ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w after %s", ErrStageTimeout, r.cfg.StageTimeout)
		}
		lastErr = err
		log.Printf("[warn] operation=pipeline_stage project=%s stage=%s attempt=%d/%d error=%v",
			p.ID, stage.Kind(), attempt, r.cfg.StageAttempts, err)
	}
	return domain.Artifact{}, fmt.Errorf("stage %s failed after %d attempt(s): %w", stage.Kind(), r.cfg.StageAttempts, lastErr)
}

// advance transitions the project and persists it. Version conflicts bubble
// up; under the single-writer invariant they indicate an operator action
// (e.g. the stale-run sweeper) won the record, so the run stops.
func (r *Runner) advance(ctx context.Context, p *domain.Project, to domain.Status) error {
	if err := domain.Transition(p, to); err != nil {
		return err
	}
	if err := r.store.Update(ctx, p); err != nil {
		return fmt.Errorf("persist %s: %w", to, err)
	}
	r.notify(ctx, p)
	return nil
}

// fail records the cause on the project and moves it to failed. Artifacts
// already committed are kept; the failing stage contributes none.
func (r *Runner) fail(ctx context.Context, p *domain.Project, cause error) error {
	p.FailureReason = cause.Error()
	if err := domain.Transition(p, domain.StatusFailed); err != nil {
		return err
	}
	if err := r.store.Update(ctx, p); err != nil {
		return fmt.Errorf("persist failed status: %w", err)
	}
	r.notify(ctx, p)
	log.Printf("[error] operation=pipeline_run project=%s status=failed error=%v", p.ID, cause)
	return cause
}

func (r *Runner) notify(ctx context.Context, p *domain.Project) {
	if r.notifier != nil {
		r.notifier.PublishStatusChange(ctx, p)
	}
}
