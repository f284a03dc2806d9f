package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShoaibShoukat2/AIAgents/internal/agents"
	"github.com/ShoaibShoukat2/AIAgents/internal/pipeline"
	"github.com/ShoaibShoukat2/AIAgents/internal/projects/domain"
	"github.com/ShoaibShoukat2/AIAgents/internal/projects/repository"
	"github.com/ShoaibShoukat2/AIAgents/internal/projects/service"
)

// newService wires an orchestrator against the in-memory store with the
// built-in agents at zero latency.
func newService(t *testing.T) (*service.ProjectService, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	runner := pipeline.NewRunner(store, agents.NewDesigner(0), agents.NewReviewer(0), nil, pipeline.Config{})
	return service.New(store, runner, nil, time.Minute), store
}

// blockingRunner holds a pipeline run open until released, for exercising
// the single-active-run guard.
type blockingRunner struct {
	started chan struct{}
	release chan struct{}
}

func (r *blockingRunner) Run(ctx context.Context, projectID string) error {
	close(r.started)
	select {
	case <-r.release:
	case <-ctx.Done():
	}
	return nil
}

func waitForStatus(t *testing.T, store *repository.MemoryStore, id string, want domain.Status) *domain.Project {
	t.Helper()
	var got *domain.Project
	require.Eventually(t, func() bool {
		p, err := store.GetByID(context.Background(), id)
		if err != nil {
			return false
		}
		got = p
		return p.Status == want
	}, 5*time.Second, 10*time.Millisecond, "project never reached %s", want)
	return got
}

func TestProjectService_SubmitRunsPipeline(t *testing.T) {
	svc, store := newService(t)

	p, err := svc.Submit(context.Background(), "Test Project", "Modern landing page design")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, p.Status)
	assert.NotEmpty(t, p.ID)

	got := waitForStatus(t, store, p.ID, domain.StatusPendingApproval)
	require.Len(t, got.Artifacts, 2)
	assert.Equal(t, domain.ArtifactDesign, got.Artifacts[0].Kind)
	assert.Equal(t, domain.ArtifactReview, got.Artifacts[1].Kind)
}

func TestProjectService_SubmitValidation(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Submit(context.Background(), "", "reqs")
	require.Error(t, err)

	_, err = svc.Submit(context.Background(), "name", "   ")
	require.Error(t, err)
}

func TestProjectService_GetSnapshotIsStable(t *testing.T) {
	svc, store := newService(t)

	p, err := svc.Submit(context.Background(), "Test Project", "Modern landing page design")
	require.NoError(t, err)
	waitForStatus(t, store, p.ID, domain.StatusPendingApproval)

	first, err := svc.Get(context.Background(), p.ID)
	require.NoError(t, err)
	second, err := svc.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second, "reads without mutation must be identical")
}

func TestProjectService_Approve(t *testing.T) {
	svc, store := newService(t)

	p, err := svc.Submit(context.Background(), "Test Project", "Modern landing page design")
	require.NoError(t, err)
	waitForStatus(t, store, p.ID, domain.StatusPendingApproval)

	approved, err := svc.Approve(context.Background(), p.ID, true, "Excellent design!")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, approved.Status)
	require.NotNil(t, approved.Approval)
	assert.Equal(t, "Excellent design!", approved.Approval.Feedback)
	assert.True(t, approved.Approval.Approved)

	// Approving twice must fail, not silently succeed.
	_, err = svc.Approve(context.Background(), p.ID, true, "again")
	require.ErrorIs(t, err, domain.ErrInvalidState)

	got, err := store.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, got.Status)
	assert.Equal(t, "Excellent design!", got.Approval.Feedback)
}

func TestProjectService_Reject(t *testing.T) {
	svc, store := newService(t)

	p, err := svc.Submit(context.Background(), "Test Project", "Modern landing page design")
	require.NoError(t, err)
	waitForStatus(t, store, p.ID, domain.StatusPendingApproval)

	rejected, err := svc.Approve(context.Background(), p.ID, false, "Not what we need")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, rejected.Status)
}

func TestProjectService_ApproveWrongState(t *testing.T) {
	svc, store := newService(t)

	p := &domain.Project{Name: "p", Requirements: "r", Status: domain.StatusGenerating}
	require.NoError(t, store.Create(context.Background(), p))

	current, err := svc.Approve(context.Background(), p.ID, true, "")
	require.ErrorIs(t, err, domain.ErrInvalidState)
	require.NotNil(t, current)
	assert.Equal(t, domain.StatusGenerating, current.Status)

	got, err := store.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusGenerating, got.Status, "status unchanged after rejected approval")
	assert.Nil(t, got.Approval)
}

func TestProjectService_ApproveNotFound(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Approve(context.Background(), "missing", true, "")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProjectService_ConcurrentApprovals(t *testing.T) {
	svc, store := newService(t)

	p, err := svc.Submit(context.Background(), "Test Project", "Modern landing page design")
	require.NoError(t, err)
	waitForStatus(t, store, p.ID, domain.StatusPendingApproval)

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	start := make(chan struct{})

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = svc.Approve(context.Background(), p.ID, i%2 == 0, "race")
		}(i)
	}
	close(start)
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			require.ErrorIs(t, err, domain.ErrInvalidState)
		}
	}
	assert.Equal(t, 1, wins, "exactly one approval must win")

	got, err := store.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, got.Status.IsTerminal())
}

func TestProjectService_SingleActiveRun(t *testing.T) {
	store := repository.NewMemoryStore()
	runner := &blockingRunner{started: make(chan struct{}), release: make(chan struct{})}
	svc := service.New(store, runner, nil, time.Minute)

	p, err := svc.Submit(context.Background(), "Test Project", "reqs")
	require.NoError(t, err)
	<-runner.started

	assert.True(t, svc.Running(p.ID))
	_, err = svc.Regenerate(context.Background(), p.ID)
	require.ErrorIs(t, err, domain.ErrPipelineActive)
	require.ErrorIs(t, svc.Delete(context.Background(), p.ID), domain.ErrPipelineActive)

	close(runner.release)
	require.Eventually(t, func() bool { return !svc.Running(p.ID) }, 2*time.Second, 10*time.Millisecond)
}

func TestProjectService_Regenerate(t *testing.T) {
	svc, store := newService(t)

	p, err := svc.Submit(context.Background(), "Test Project", "Modern landing page design")
	require.NoError(t, err)
	waitForStatus(t, store, p.ID, domain.StatusPendingApproval)

	_, err = svc.Approve(context.Background(), p.ID, false, "start over")
	require.NoError(t, err)

	_, err = svc.Regenerate(context.Background(), p.ID)
	require.NoError(t, err)

	got := waitForStatus(t, store, p.ID, domain.StatusPendingApproval)
	assert.Nil(t, got.Approval, "regeneration starts a fresh history")
	assert.Len(t, got.Artifacts, 2)
}

func TestProjectService_DeleteAndStats(t *testing.T) {
	svc, store := newService(t)

	p, err := svc.Submit(context.Background(), "Test Project", "Modern landing page design")
	require.NoError(t, err)
	waitForStatus(t, store, p.ID, domain.StatusPendingApproval)

	stats, err := svc.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalProjects)
	assert.Equal(t, 1, stats.PendingApproval)

	require.NoError(t, svc.Delete(context.Background(), p.ID))
	require.ErrorIs(t, svc.Delete(context.Background(), p.ID), domain.ErrNotFound)

	stats, err = svc.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalProjects)
}

func TestProjectService_List(t *testing.T) {
	svc, store := newService(t)

	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		p := &domain.Project{
			ID:        []string{"a", "b", "c"}[i],
			Name:      "p",
			Status:    domain.StatusPending,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, store.Create(context.Background(), p))
	}

	items, err := svc.List(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "c", items[0].ID)
}
