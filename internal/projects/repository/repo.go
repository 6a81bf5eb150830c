package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/GoSim-25-26J-441/build-trigger/internal/projects/domain"
)

// RowQuerier is the read surface of *pgxpool.Pool used by ProjectRepository.
type RowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ProjectRepository reads projects from Postgres
type ProjectRepository struct {
	db RowQuerier
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db RowQuerier) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Get returns a non-deleted project by its public ID.
func (r *ProjectRepository) Get(ctx context.Context, publicID string) (*domain.Project, error) {
	if publicID == "" {
		return nil, domain.ErrNotFound
	}

	const q = `
select public_id, user_firebase_uid, name, created_at, updated_at
from projects
where public_id = $1 and deleted_at is null;
`
	var p domain.Project
	err := r.db.QueryRow(ctx, q, publicID).
		Scan(&p.ID, &p.OwnerUID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get project %s: %w", publicID, err)
	}
	return &p, nil
}
