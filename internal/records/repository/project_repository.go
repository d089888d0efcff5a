// Package repository implements libSQL persistence for varkeep records.
// Repositories join an ambient transaction when one is carried in the
// context, otherwise they run against the shared connection.
package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/varkeep/varkeep/internal/database"
	apperrors "github.com/varkeep/varkeep/internal/errors"
	recordsDomain "github.com/varkeep/varkeep/internal/records/domain"
)

// ProjectRepository implements Project persistence for libSQL.
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new Project repository instance.
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a new project.
func (r *ProjectRepository) Create(ctx context.Context, project *recordsDomain.Project) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO projects (id, name, description, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		project.ID.String(),
		project.Name,
		nullableString(project.Description),
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return recordsDomain.ErrDuplicateName
		}
		return apperrors.Wrap(err, "failed to create project")
	}
	return nil
}

// GetByName retrieves a project by its unique name.
func (r *ProjectRepository) GetByName(ctx context.Context, name string) (*recordsDomain.Project, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, name, description, created_at, updated_at
			  FROM projects
			  WHERE name = ?`

	var (
		project     recordsDomain.Project
		id          string
		description sql.NullString
	)
	err := querier.QueryRowContext(ctx, query, name).Scan(
		&id,
		&project.Name,
		&description,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, recordsDomain.ErrProjectNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get project by name")
	}

	project.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse project id")
	}
	project.Description = description.String
	return &project, nil
}

// List returns all projects ordered by name.
func (r *ProjectRepository) List(ctx context.Context) ([]*recordsDomain.Project, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, name, description, created_at, updated_at
			  FROM projects
			  ORDER BY name`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list projects")
	}
	defer rows.Close()

	var projects []*recordsDomain.Project
	for rows.Next() {
		var (
			project     recordsDomain.Project
			id          string
			description sql.NullString
		)
		if err := rows.Scan(&id, &project.Name, &description, &project.CreatedAt, &project.UpdatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan project")
		}
		project.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to parse project id")
		}
		project.Description = description.String
		projects = append(projects, &project)
	}
	return projects, rows.Err()
}

// Update persists name and description changes.
func (r *ProjectRepository) Update(ctx context.Context, project *recordsDomain.Project) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE projects
			  SET name = ?, description = ?, updated_at = ?
			  WHERE id = ?`

	res, err := querier.ExecContext(
		ctx,
		query,
		project.Name,
		nullableString(project.Description),
		time.Now().UTC(),
		project.ID.String(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return recordsDomain.ErrDuplicateName
		}
		return apperrors.Wrap(err, "failed to update project")
	}
	return checkRowsAffected(res, recordsDomain.ErrProjectNotFound)
}

// Delete removes a project. Environments and variables cascade at the
// database level.
func (r *ProjectRepository) Delete(ctx context.Context, projectID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	res, err := querier.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, projectID.String())
	if err != nil {
		return apperrors.Wrap(err, "failed to delete project")
	}
	return checkRowsAffected(res, recordsDomain.ErrProjectNotFound)
}

// --- helpers shared across record repositories ---

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func checkRowsAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read rows affected")
	}
	if n == 0 {
		return notFound
	}
	return nil
}
