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

// VariableRepository implements Variable persistence for libSQL. Secret
// variables are stored with a NULL value column; their values live in the
// vault keyed by the variable id.
type VariableRepository struct {
	db *sql.DB
}

// NewVariableRepository creates a new Variable repository instance.
func NewVariableRepository(db *sql.DB) *VariableRepository {
	return &VariableRepository{db: db}
}

// Create inserts a new variable.
func (r *VariableRepository) Create(ctx context.Context, variable *recordsDomain.Variable) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO variables (id, environment_id, key, secret, value, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		variable.ID.String(),
		variable.EnvironmentID.String(),
		variable.Key,
		variable.Secret,
		storedValue(variable),
		variable.CreatedAt,
		variable.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return recordsDomain.ErrDuplicateName
		}
		return apperrors.Wrap(err, "failed to create variable")
	}
	return nil
}

// Update persists value and secret-flag changes for an existing variable.
func (r *VariableRepository) Update(ctx context.Context, variable *recordsDomain.Variable) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE variables
			  SET secret = ?, value = ?, updated_at = ?
			  WHERE id = ?`

	res, err := querier.ExecContext(
		ctx,
		query,
		variable.Secret,
		storedValue(variable),
		time.Now().UTC(),
		variable.ID.String(),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update variable")
	}
	return checkRowsAffected(res, recordsDomain.ErrVariableNotFound)
}

// GetByKey retrieves a variable by key within an environment.
func (r *VariableRepository) GetByKey(
	ctx context.Context,
	environmentID uuid.UUID,
	key string,
) (*recordsDomain.Variable, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, environment_id, key, secret, value, created_at, updated_at
			  FROM variables
			  WHERE environment_id = ? AND key = ?`

	variable, err := scanVariable(querier.QueryRowContext(ctx, query, environmentID.String(), key))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, recordsDomain.ErrVariableNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get variable by key")
	}
	return variable, nil
}

// ListByEnvironment returns all variables of an environment ordered by key.
func (r *VariableRepository) ListByEnvironment(
	ctx context.Context,
	environmentID uuid.UUID,
) ([]*recordsDomain.Variable, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, environment_id, key, secret, value, created_at, updated_at
			  FROM variables
			  WHERE environment_id = ?
			  ORDER BY key`

	rows, err := querier.QueryContext(ctx, query, environmentID.String())
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list variables")
	}
	defer rows.Close()

	var variables []*recordsDomain.Variable
	for rows.Next() {
		variable, err := scanVariable(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan variable")
		}
		variables = append(variables, variable)
	}
	return variables, rows.Err()
}

// ListSecretIDs returns the ids of all secret variables across every
// environment. Used to enumerate vault entries for migration.
func (r *VariableRepository) ListSecretIDs(ctx context.Context) ([]uuid.UUID, error) {
	querier := database.GetTx(ctx, r.db)

	rows, err := querier.QueryContext(ctx, `SELECT id FROM variables WHERE secret = 1`)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list secret variable ids")
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan variable id")
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to parse variable id")
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListSecretIDsByEnvironment returns the ids of secret variables in one
// environment. Used for vault cleanup on cascading deletes.
func (r *VariableRepository) ListSecretIDsByEnvironment(
	ctx context.Context,
	environmentID uuid.UUID,
) ([]uuid.UUID, error) {
	querier := database.GetTx(ctx, r.db)

	rows, err := querier.QueryContext(ctx,
		`SELECT id FROM variables WHERE secret = 1 AND environment_id = ?`,
		environmentID.String(),
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list secret variable ids")
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan variable id")
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to parse variable id")
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Delete removes a variable row.
func (r *VariableRepository) Delete(ctx context.Context, variableID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	res, err := querier.ExecContext(ctx, `DELETE FROM variables WHERE id = ?`, variableID.String())
	if err != nil {
		return apperrors.Wrap(err, "failed to delete variable")
	}
	return checkRowsAffected(res, recordsDomain.ErrVariableNotFound)
}

func storedValue(variable *recordsDomain.Variable) any {
	if variable.Secret {
		return nil
	}
	return variable.Value
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVariable(row rowScanner) (*recordsDomain.Variable, error) {
	var (
		variable recordsDomain.Variable
		id, eid  string
		value    sql.NullString
	)
	err := row.Scan(
		&id,
		&eid,
		&variable.Key,
		&variable.Secret,
		&value,
		&variable.CreatedAt,
		&variable.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if variable.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if variable.EnvironmentID, err = uuid.Parse(eid); err != nil {
		return nil, err
	}
	variable.Value = value.String
	return &variable, nil
}
