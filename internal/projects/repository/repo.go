package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ShoaibShoukat2/AIAgents/internal/projects/domain"
)

// schema is the single durable structure the service needs: one row per
// project, document-style payloads in JSONB, and a version counter for
// optimistic concurrency.
const schema = `
CREATE TABLE IF NOT EXISTS projects (
    id             TEXT PRIMARY KEY,
    name           TEXT NOT NULL,
    requirements   TEXT NOT NULL,
    status         TEXT NOT NULL,
    artifacts      JSONB NOT NULL DEFAULT '[]',
    approval       JSONB,
    failure_reason TEXT NOT NULL DEFAULT '',
    version        BIGINT NOT NULL DEFAULT 1,
    created_at     TIMESTAMPTZ NOT NULL,
    updated_at     TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_projects_status ON projects (status);
CREATE INDEX IF NOT EXISTS idx_projects_created_at ON projects (created_at DESC);
`

// ProjectRepository provides Postgres persistence for projects.
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// EnsureSchema creates the projects table and indexes if they do not exist.
func (r *ProjectRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Create inserts a new project. A missing id, timestamps or version are
// assigned here so callers can pass a minimally filled record.
func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
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

	artifacts, approval, err := marshalPayloads(p)
	if err != nil {
		return err
	}

	const q = `
INSERT INTO projects (id, name, requirements, status, artifacts, approval, failure_reason, version, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
`
	_, err = r.db.ExecContext(ctx, q,
		p.ID, p.Name, p.Requirements, string(p.Status),
		artifacts, approval, p.FailureReason, p.Version, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

// GetByID retrieves a project by id.
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	const q = `
SELECT id, name, requirements, status, artifacts, approval, failure_reason, version, created_at, updated_at
FROM projects
WHERE id = $1;
`
	return scanProject(r.db.QueryRowContext(ctx, q, id))
}

// List returns projects newest first.
func (r *ProjectRepository) List(ctx context.Context, limit, offset int) ([]domain.Project, error) {
	const q = `
SELECT id, name, requirements, status, artifacts, approval, failure_reason, version, created_at, updated_at
FROM projects
ORDER BY created_at DESC
LIMIT $1 OFFSET $2;
`
	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update persists the mutable fields of a project, fenced on the version the
// caller read. Losing the fence returns ErrConcurrentModification (or
// ErrNotFound if the row is gone); winning it bumps p.Version.
func (r *ProjectRepository) Update(ctx context.Context, p *domain.Project) error {
	artifacts, approval, err := marshalPayloads(p)
	if err != nil {
		return err
	}

	const q = `
UPDATE projects
SET status = $3, artifacts = $4, approval = $5, failure_reason = $6, version = version + 1, updated_at = $7
WHERE id = $1 AND version = $2;
`
	res, err := r.db.ExecContext(ctx, q,
		p.ID, p.Version, string(p.Status), artifacts, approval, p.FailureReason, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if affected == 0 {
		// Disambiguate a lost fence from a deleted row.
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM projects WHERE id = $1);`, p.ID).Scan(&exists); err != nil {
			return fmt.Errorf("update project: %w", err)
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrConcurrentModification
	}
	p.Version++
	return nil
}

// Delete removes a project.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountByStatus returns the number of projects per status.
func (r *ProjectRepository) CountByStatus(ctx context.Context) (map[domain.Status]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM projects GROUP BY status;`)
	if err != nil {
		return nil, fmt.Errorf("count projects: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.Status]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[domain.Status(status)] = n
	}
	return counts, rows.Err()
}

// ListStale returns projects stuck mid-pipeline whose last write is older
// than the cutoff. Used by the stale-run sweeper.
func (r *ProjectRepository) ListStale(ctx context.Context, before time.Time) ([]domain.Project, error) {
	const q = `
SELECT id, name, requirements, status, artifacts, approval, failure_reason, version, created_at, updated_at
FROM projects
WHERE status IN ($1, $2) AND updated_at < $3;
`
	rows, err := r.db.QueryContext(ctx, q,
		string(domain.StatusGenerating), string(domain.StatusReviewing), before,
	)
	if err != nil {
		return nil, fmt.Errorf("list stale projects: %w", err)
	}
	defer rows.Close()

	var out []domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// scanner abstracts *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProject(sc scanner) (*domain.Project, error) {
	var (
		p         domain.Project
		status    string
		artifacts []byte
		approval  []byte
	)
	err := sc.Scan(
		&p.ID, &p.Name, &p.Requirements, &status,
		&artifacts, &approval, &p.FailureReason, &p.Version, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan project: %w", err)
	}
	p.Status = domain.Status(status)

	if len(artifacts) > 0 {
		if err := json.Unmarshal(artifacts, &p.Artifacts); err != nil {
			return nil, fmt.Errorf("unmarshal artifacts: %w", err)
		}
	}
	if len(approval) > 0 {
		p.Approval = &domain.Approval{}
		if err := json.Unmarshal(approval, p.Approval); err != nil {
			return nil, fmt.Errorf("unmarshal approval: %w", err)
		}
	}
	return &p, nil
}

func marshalPayloads(p *domain.Project) (artifacts []byte, approval any, err error) {
	if p.Artifacts == nil {
		artifacts = []byte("[]")
	} else if artifacts, err = json.Marshal(p.Artifacts); err != nil {
		return nil, nil, fmt.Errorf("marshal artifacts: %w", err)
	}
	if p.Approval == nil {
		return artifacts, nil, nil
	}
	b, err := json.Marshal(p.Approval)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal approval: %w", err)
	}
	return artifacts, b, nil
}
