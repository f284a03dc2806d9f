package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ShoaibShoukat2/AIAgents/internal/projects/domain"
)

// MemoryStore is an in-process project store with the same versioned write
// fencing as the Postgres repository. It backs local runs without a database
// and the package tests.
type MemoryStore struct {
	mu       sync.RWMutex
	projects map[string]*domain.Project
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{projects: make(map[string]*domain.Project)}
}

// Create inserts a new project, assigning id, timestamps and version when absent.
func (s *MemoryStore) Create(_ context.Context, p *domain.Project) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}
	if p.Version == 0 {
		p.Version = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[p.ID] = p.Clone()
	return nil
}

// GetByID returns a snapshot of the project.
func (s *MemoryStore) GetByID(_ context.Context, id string) (*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p.Clone(), nil
}

// List returns project snapshots newest first.
func (s *MemoryStore) List(_ context.Context, limit, offset int) ([]domain.Project, error) {
	s.mu.RLock()
	all := make([]*domain.Project, 0, len(s.projects))
	for _, p := range s.projects {
		all = append(all, p)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return []domain.Project{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}

	out := make([]domain.Project, 0, len(all))
	for _, p := range all {
		out = append(out, *p.Clone())
	}
	return out, nil
}

// Update persists the project if the caller still holds the current version,
// bumping p.Version on success. A stale version returns
// ErrConcurrentModification.
func (s *MemoryStore) Update(_ context.Context, p *domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.projects[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.Version != p.Version {
		return domain.ErrConcurrentModification
	}
	p.Version++
	s.projects[p.ID] = p.Clone()
	return nil
}

// Delete removes a project.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.projects, id)
	return nil
}

// CountByStatus returns the number of projects per status.
func (s *MemoryStore) CountByStatus(_ context.Context) (map[domain.Status]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[domain.Status]int)
	for _, p := range s.projects {
		counts[p.Status]++
	}
	return counts, nil
}

// ListStale returns projects stuck in generating or reviewing whose last
// write is older than the cutoff.
func (s *MemoryStore) ListStale(_ context.Context, before time.Time) ([]domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Project
	for _, p := range s.projects {
		if (p.Status == domain.StatusGenerating || p.Status == domain.StatusReviewing) && p.UpdatedAt.Before(before) {
			out = append(out, *p.Clone())
		}
	}
	return out, nil
}
