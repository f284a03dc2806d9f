package cronjob

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ShoaibShoukat2/AIAgents/internal/projects/domain"
)

// Store is the slice of the project store the sweeper needs.
type Store interface {
	ListStale(ctx context.Context, before time.Time) ([]domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
}

// Scheduler periodically fails projects stuck mid-pipeline, e.g. after a
// crash between stages. A live runner always wins the version fence, so the
// sweeper can never clobber an active run.
type Scheduler struct {
	store      Store
	staleAfter time.Duration
	c          *cron.Cron
}

// NewScheduler creates a sweeper that fails generating/reviewing projects
// untouched for longer than staleAfter.
func NewScheduler(store Store, staleAfter time.Duration) *Scheduler {
	if staleAfter <= 0 {
		staleAfter = 15 * time.Minute
	}
	return &Scheduler{store: store, staleAfter: staleAfter}
}

// Start initializes the cron task (every minute).
func (s *Scheduler) Start() {
	s.c = cron.New(cron.WithSeconds())

	_, err := s.c.AddFunc("0 * * * * *", s.sweep)
	if err != nil {
		log.Printf("Failed to create cron job: %v", err)
		return
	}

	log.Printf("Stale-run sweeper started (cutoff %s)", s.staleAfter)
	s.c.Start()
}

// Stop halts the cron scheduler.
func (s *Scheduler) Stop() {
	if s.c != nil {
		s.c.Stop()
	}
}

func (s *Scheduler) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().UTC().Add(-s.staleAfter)
	stale, err := s.store.ListStale(ctx, cutoff)
	if err != nil {
		log.Printf("[error] operation=stale_sweep error=%v", err)
		return
	}

	for i := range stale {
		p := &stale[i]
		p.FailureReason = fmt.Sprintf("pipeline stalled in %s for more than %s", p.Status, s.staleAfter)
		if err := domain.Transition(p, domain.StatusFailed); err != nil {
			continue
		}
		// A version conflict means a live runner got there first; skip.
		if err := s.store.Update(ctx, p); err != nil {
			continue
		}
		log.Printf("[warn] operation=stale_sweep project=%s marked failed", p.ID)
	}
}
