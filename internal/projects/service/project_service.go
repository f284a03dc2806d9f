package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ShoaibShoukat2/AIAgents/internal/projects/domain"
)

// defaultApprover is recorded on approvals until real user identities exist.
const defaultApprover = "Human Reviewer"

// ProjectStore is the persistence surface the orchestrator needs.
type ProjectStore interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, limit, offset int) ([]domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (map[domain.Status]int, error)
}

// Runner executes the stage pipeline for one project.
type Runner interface {
	Run(ctx context.Context, projectID string) error
}

// Notifier receives project snapshots after committed status changes.
type Notifier interface {
	PublishStatusChange(ctx context.Context, p *domain.Project)
}

// ProjectService is the pipeline orchestrator: it accepts new projects,
// dispatches their pipeline runs out of band, serves reads, and hosts the
// human approval gate.
type ProjectService struct {
	store      ProjectStore
	runner     Runner
	notifier   Notifier
	runTimeout time.Duration

	// inflight holds the ids of projects with a live pipeline run. It is the
	// single-writer guard: one run per project at a time.
	inflight sync.Map
}

// New wires the orchestrator. notifier may be nil. runTimeout bounds one
// whole pipeline run; zero means one hour.
func New(store ProjectStore, runner Runner, notifier Notifier, runTimeout time.Duration) *ProjectService {
	if runTimeout <= 0 {
		runTimeout = time.Hour
	}
	return &ProjectService{
		store:      store,
		runner:     runner,
		notifier:   notifier,
		runTimeout: runTimeout,
	}
}

// Submit durably creates a project in pending and dispatches its pipeline
// run in the background, returning as soon as the record is persisted.
func (s *ProjectService) Submit(ctx context.Context, name, requirements string) (*domain.Project, error) {
	name = strings.TrimSpace(name)
	requirements = strings.TrimSpace(requirements)
	if name == "" {
		return nil, fmt.Errorf("name required")
	}
	if requirements == "" {
		return nil, fmt.Errorf("requirements required")
	}

	p := &domain.Project{
		Name:         name,
		Requirements: requirements,
		Status:       domain.StatusPending,
	}
	if err := s.store.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	if err := s.dispatch(p.ID); err != nil {
		// A duplicate dispatch for a freshly created id cannot happen in
		// practice; surface it rather than swallow it.
		return nil, err
	}
	return p, nil
}

// dispatch starts the pipeline run for the project unless one is already in
// flight. The run is decoupled from the caller's request context.
func (s *ProjectService) dispatch(projectID string) error {
	if _, loaded := s.inflight.LoadOrStore(projectID, struct{}{}); loaded {
		return domain.ErrPipelineActive
	}

	go func() {
		defer s.inflight.Delete(projectID)

		ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
		defer cancel()

		logger := NewLogger(ctx)
		logger.LogInfof("pipeline_dispatch", "starting run for project=%s", projectID)
		if err := s.runner.Run(ctx, projectID); err != nil {
			logger.LogErrorf("pipeline_dispatch", "project=%s run ended with error=%v", projectID, err)
		}
	}()
	return nil
}

// Running reports whether a pipeline run is currently in flight for the id.
func (s *ProjectService) Running(projectID string) bool {
	_, ok := s.inflight.Load(projectID)
	return ok
}

// Get returns the latest committed snapshot of a project.
func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	return s.store.GetByID(ctx, id)
}

// List returns projects newest first. limit <= 0 defaults to 100.
func (s *ProjectService) List(ctx context.Context, limit, offset int) ([]domain.Project, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.List(ctx, limit, offset)
}

// Approve is the human approval gate. The project must be pending_approval;
// the decision and optional feedback are recorded exactly once and the
// matching terminal transition fires. A write race resolves to exactly one
// winner; the loser observes ErrInvalidState.
func (s *ProjectService) Approve(ctx context.Context, id string, approved bool, feedback string) (*domain.Project, error) {
	for {
		p, err := s.store.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if p.Status != domain.StatusPendingApproval {
			return p, fmt.Errorf("project is %s: %w", p.Status, domain.ErrInvalidState)
		}

		p.Approval = &domain.Approval{
			Approved:  approved,
			Feedback:  feedback,
			Approver:  defaultApprover,
			Timestamp: time.Now().UTC(),
		}
		target := domain.StatusRejected
		if approved {
			target = domain.StatusApproved
		}
		if err := domain.Transition(p, target); err != nil {
			return p, err
		}

		err = s.store.Update(ctx, p)
		if err == nil {
			if s.notifier != nil {
				s.notifier.PublishStatusChange(ctx, p)
			}
			return p, nil
		}
		if errors.Is(err, domain.ErrConcurrentModification) {
			// Someone else won the record; re-read and report the real state.
			continue
		}
		return nil, err
	}
}

// Regenerate restarts the pipeline for a project that is not mid-run: the
// status returns to pending and a fresh artifact history begins. Projects
// with a live run are rejected with ErrPipelineActive.
func (s *ProjectService) Regenerate(ctx context.Context, id string) (*domain.Project, error) {
	if s.Running(id) {
		return nil, domain.ErrPipelineActive
	}

	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status == domain.StatusGenerating || p.Status == domain.StatusReviewing {
		// Mid-pipeline without a live run means a stalled record; the
		// sweeper owns it until it is marked failed.
		return p, fmt.Errorf("project is %s: %w", p.Status, domain.ErrInvalidState)
	}

	// Out-of-band reset, not a state-machine edge: regeneration starts a new
	// run with a clean history, mirroring a fresh submission.
	p.Status = domain.StatusPending
	p.Artifacts = nil
	p.Approval = nil
	p.FailureReason = ""
	p.UpdatedAt = time.Now().UTC()

	if err := s.store.Update(ctx, p); err != nil {
		return nil, err
	}
	if err := s.dispatch(p.ID); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a project that has no live pipeline run.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if s.Running(id) {
		return domain.ErrPipelineActive
	}
	return s.store.Delete(ctx, id)
}

// Stats summarizes the project population for the dashboard.
type Stats struct {
	TotalProjects   int                   `json:"total_projects"`
	PendingApproval int                   `json:"pending_approval"`
	Approved        int                   `json:"approved"`
	Rejected        int                   `json:"rejected"`
	ByStatus        map[domain.Status]int `json:"by_status"`
	Timestamp       time.Time             `json:"timestamp"`
}

// GetStats aggregates project counts by status.
func (s *ProjectService) GetStats(ctx context.Context) (*Stats, error) {
	counts, err := s.store.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count projects: %w", err)
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	return &Stats{
		TotalProjects:   total,
		PendingApproval: counts[domain.StatusPendingApproval],
		Approved:        counts[domain.StatusApproved],
		Rejected:        counts[domain.StatusRejected],
		ByStatus:        counts,
		Timestamp:       time.Now().UTC(),
	}, nil
}
