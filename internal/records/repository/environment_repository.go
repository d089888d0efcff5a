package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/varkeep/varkeep/internal/database"
	apperrors "github.com/varkeep/varkeep/internal/errors"
	recordsDomain "github.com/varkeep/varkeep/internal/records/domain"
)

// EnvironmentRepository implements Environment persistence for libSQL.
type EnvironmentRepository struct {
	db *sql.DB
}

// NewEnvironmentRepository creates a new Environment repository instance.
func NewEnvironmentRepository(db *sql.DB) *EnvironmentRepository {
	return &EnvironmentRepository{db: db}
}

// Create inserts a new environment.
func (r *EnvironmentRepository) Create(ctx context.Context, environment *recordsDomain.Environment) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO environments (id, project_id, name, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		environment.ID.String(),
		environment.ProjectID.String(),
		environment.Name,
		environment.CreatedAt,
		environment.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return recordsDomain.ErrDuplicateName
		}
		return apperrors.Wrap(err, "failed to create environment")
	}
	return nil
}

// GetByName retrieves an environment by name within a project.
func (r *EnvironmentRepository) GetByName(
	ctx context.Context,
	projectID uuid.UUID,
	name string,
) (*recordsDomain.Environment, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, project_id, name, created_at, updated_at
			  FROM environments
			  WHERE project_id = ? AND name = ?`

	var (
		environment recordsDomain.Environment
		id, pid     string
	)
	err := querier.QueryRowContext(ctx, query, projectID.String(), name).Scan(
		&id,
		&pid,
		&environment.Name,
		&environment.CreatedAt,
		&environment.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, recordsDomain.ErrEnvironmentNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get environment by name")
	}

	if environment.ID, err = uuid.Parse(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to parse environment id")
	}
	if environment.ProjectID, err = uuid.Parse(pid); err != nil {
		return nil, apperrors.Wrap(err, "failed to parse project id")
	}
	return &environment, nil
}

// ListByProject returns all environments of a project ordered by name.
func (r *EnvironmentRepository) ListByProject(
	ctx context.Context,
	projectID uuid.UUID,
) ([]*recordsDomain.Environment, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, project_id, name, created_at, updated_at
			  FROM environments
			  WHERE project_id = ?
			  ORDER BY name`

	rows, err := querier.QueryContext(ctx, query, projectID.String())
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list environments")
	}
	defer rows.Close()

	var environments []*recordsDomain.Environment
	for rows.Next() {
		var (
			environment recordsDomain.Environment
			id, pid     string
		)
		if err := rows.Scan(&id, &pid, &environment.Name, &environment.CreatedAt, &environment.UpdatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan environment")
		}
		if environment.ID, err = uuid.Parse(id); err != nil {
			return nil, apperrors.Wrap(err, "failed to parse environment id")
		}
		if environment.ProjectID, err = uuid.Parse(pid); err != nil {
			return nil, apperrors.Wrap(err, "failed to parse project id")
		}
		environments = append(environments, &environment)
	}
	return environments, rows.Err()
}

// Rename updates the environment name.
func (r *EnvironmentRepository) Rename(ctx context.Context, environmentID uuid.UUID, name string) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE environments
			  SET name = ?, updated_at = ?
			  WHERE id = ?`

	res, err := querier.ExecContext(ctx, query, name, time.Now().UTC(), environmentID.String())
	if err != nil {
		if isUniqueViolation(err) {
			return recordsDomain.ErrDuplicateName
		}
		return apperrors.Wrap(err, "failed to rename environment")
	}
	return checkRowsAffected(res, recordsDomain.ErrEnvironmentNotFound)
}

// Delete removes an environment. Variables cascade at the database level.
func (r *EnvironmentRepository) Delete(ctx context.Context, environmentID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	res, err := querier.ExecContext(ctx, `DELETE FROM environments WHERE id = ?`, environmentID.String())
	if err != nil {
		return apperrors.Wrap(err, "failed to delete environment")
	}
	return checkRowsAffected(res, recordsDomain.ErrEnvironmentNotFound)
}
