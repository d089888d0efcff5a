package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/varkeep/varkeep/internal/database"
	apperrors "github.com/varkeep/varkeep/internal/errors"
	recordsDomain "github.com/varkeep/varkeep/internal/records/domain"
)

func isNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound)
}

// recordUseCase implements the RecordUseCase interface.
type recordUseCase struct {
	txManager    database.TxManager
	projects     ProjectRepository
	environments EnvironmentRepository
	variables    VariableRepository
	vault        Vault
	logger       *slog.Logger
}

// NewRecordUseCase creates a new record management use case.
func NewRecordUseCase(
	txManager database.TxManager,
	projects ProjectRepository,
	environments EnvironmentRepository,
	variables VariableRepository,
	vault Vault,
	logger *slog.Logger,
) RecordUseCase {
	return &recordUseCase{
		txManager:    txManager,
		projects:     projects,
		environments: environments,
		variables:    variables,
		vault:        vault,
		logger:       logger,
	}
}

// CreateProject validates and persists a new project.
func (r *recordUseCase) CreateProject(
	ctx context.Context,
	name, description string,
) (*recordsDomain.Project, error) {
	project := recordsDomain.NewProject(name, description)
	if err := project.Validate(); err != nil {
		return nil, err
	}
	if err := r.projects.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// GetProject retrieves a project by name.
func (r *recordUseCase) GetProject(ctx context.Context, name string) (*recordsDomain.Project, error) {
	return r.projects.GetByName(ctx, name)
}

// ListProjects returns all projects.
func (r *recordUseCase) ListProjects(ctx context.Context) ([]*recordsDomain.Project, error) {
	return r.projects.List(ctx)
}

// UpdateProject replaces the project description.
func (r *recordUseCase) UpdateProject(
	ctx context.Context,
	name, description string,
) (*recordsDomain.Project, error) {
	project, err := r.projects.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	project.Description = description
	if err := project.Validate(); err != nil {
		return nil, err
	}
	if err := r.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// DeleteProject removes the project with all its environments and variables.
// Vault entries of the project's secret variables are deleted best-effort
// after the database delete commits.
func (r *recordUseCase) DeleteProject(ctx context.Context, name string) error {
	project, err := r.projects.GetByName(ctx, name)
	if err != nil {
		return err
	}

	var secretIDs []uuid.UUID
	err = r.txManager.WithTx(ctx, func(txCtx context.Context) error {
		environments, err := r.environments.ListByProject(txCtx, project.ID)
		if err != nil {
			return err
		}
		for _, environment := range environments {
			ids, err := r.variables.ListSecretIDsByEnvironment(txCtx, environment.ID)
			if err != nil {
				return err
			}
			secretIDs = append(secretIDs, ids...)
		}
		return r.projects.Delete(txCtx, project.ID)
	})
	if err != nil {
		return err
	}

	r.cleanupVaultEntries(ctx, secretIDs)
	return nil
}

// CreateEnvironment validates and persists a new environment under the named
// project.
func (r *recordUseCase) CreateEnvironment(
	ctx context.Context,
	projectName, name string,
) (*recordsDomain.Environment, error) {
	project, err := r.projects.GetByName(ctx, projectName)
	if err != nil {
		return nil, err
	}

	environment := recordsDomain.NewEnvironment(project.ID, name)
	if err := environment.Validate(); err != nil {
		return nil, err
	}
	if err := r.environments.Create(ctx, environment); err != nil {
		return nil, err
	}
	return environment, nil
}

// ListEnvironments returns the environments of the named project.
func (r *recordUseCase) ListEnvironments(
	ctx context.Context,
	projectName string,
) ([]*recordsDomain.Environment, error) {
	project, err := r.projects.GetByName(ctx, projectName)
	if err != nil {
		return nil, err
	}
	return r.environments.ListByProject(ctx, project.ID)
}

// RenameEnvironment renames an environment within its project.
func (r *recordUseCase) RenameEnvironment(ctx context.Context, projectName, name, newName string) error {
	environment, err := r.resolveEnvironment(ctx, projectName, name)
	if err != nil {
		return err
	}

	renamed := *environment
	renamed.Name = newName
	if err := renamed.Validate(); err != nil {
		return err
	}
	return r.environments.Rename(ctx, environment.ID, newName)
}

// DeleteEnvironment removes an environment and its variables, cleaning up
// vault entries best-effort after the database delete commits.
func (r *recordUseCase) DeleteEnvironment(ctx context.Context, projectName, name string) error {
	environment, err := r.resolveEnvironment(ctx, projectName, name)
	if err != nil {
		return err
	}

	var secretIDs []uuid.UUID
	err = r.txManager.WithTx(ctx, func(txCtx context.Context) error {
		ids, err := r.variables.ListSecretIDsByEnvironment(txCtx, environment.ID)
		if err != nil {
			return err
		}
		secretIDs = ids
		return r.environments.Delete(txCtx, environment.ID)
	})
	if err != nil {
		return err
	}

	r.cleanupVaultEntries(ctx, secretIDs)
	return nil
}

// SetVariable creates or updates a variable in the named environment. A
// secret value is written to the vault before the database row so a vault
// failure never leaves a secret row pointing at nothing.
func (r *recordUseCase) SetVariable(
	ctx context.Context,
	projectName, environmentName, key, value string,
	secret bool,
) (*recordsDomain.Variable, error) {
	environment, err := r.resolveEnvironment(ctx, projectName, environmentName)
	if err != nil {
		return nil, err
	}

	existing, err := r.variables.GetByKey(ctx, environment.ID, key)
	if err == nil {
		return r.updateVariable(ctx, existing, value, secret)
	}
	if !isNotFound(err) {
		return nil, err
	}

	variable := recordsDomain.NewVariable(environment.ID, key, value, secret)
	if err := variable.Validate(); err != nil {
		return nil, err
	}

	if secret {
		if err := r.vault.Save(ctx, variable.ID, value); err != nil {
			return nil, err
		}
	}
	if err := r.variables.Create(ctx, variable); err != nil {
		if secret {
			r.cleanupVaultEntries(ctx, []uuid.UUID{variable.ID})
		}
		return nil, err
	}
	return variable, nil
}

// updateVariable applies a value change to an existing variable, handling
// transitions between plain and secret storage.
func (r *recordUseCase) updateVariable(
	ctx context.Context,
	variable *recordsDomain.Variable,
	value string,
	secret bool,
) (*recordsDomain.Variable, error) {
	wasSecret := variable.Secret

	variable.Secret = secret
	variable.Value = value
	if err := variable.Validate(); err != nil {
		return nil, err
	}

	if secret {
		if err := r.vault.Save(ctx, variable.ID, value); err != nil {
			return nil, err
		}
	}
	if err := r.variables.Update(ctx, variable); err != nil {
		return nil, err
	}
	if wasSecret && !secret {
		r.cleanupVaultEntries(ctx, []uuid.UUID{variable.ID})
	}
	return variable, nil
}

// GetVariable resolves a variable, fetching secret values from the vault.
func (r *recordUseCase) GetVariable(
	ctx context.Context,
	projectName, environmentName, key string,
) (*recordsDomain.Variable, error) {
	environment, err := r.resolveEnvironment(ctx, projectName, environmentName)
	if err != nil {
		return nil, err
	}

	variable, err := r.variables.GetByKey(ctx, environment.ID, key)
	if err != nil {
		return nil, err
	}

	if variable.Secret {
		value, err := r.vault.Retrieve(ctx, variable.ID)
		if err != nil {
			return nil, err
		}
		variable.Value = value
	}
	return variable, nil
}

// ListVariables lists an environment's variables, optionally resolving
// secret values from the vault.
func (r *recordUseCase) ListVariables(
	ctx context.Context,
	projectName, environmentName string,
	reveal bool,
) ([]*recordsDomain.Variable, error) {
	environment, err := r.resolveEnvironment(ctx, projectName, environmentName)
	if err != nil {
		return nil, err
	}

	variables, err := r.variables.ListByEnvironment(ctx, environment.ID)
	if err != nil {
		return nil, err
	}

	if reveal {
		for _, variable := range variables {
			if !variable.Secret {
				continue
			}
			value, err := r.vault.Retrieve(ctx, variable.ID)
			if err != nil {
				return nil, err
			}
			variable.Value = value
		}
	}
	return variables, nil
}

// DeleteVariable removes a variable row and its vault entry.
func (r *recordUseCase) DeleteVariable(ctx context.Context, projectName, environmentName, key string) error {
	environment, err := r.resolveEnvironment(ctx, projectName, environmentName)
	if err != nil {
		return err
	}

	variable, err := r.variables.GetByKey(ctx, environment.ID, key)
	if err != nil {
		return err
	}

	if err := r.variables.Delete(ctx, variable.ID); err != nil {
		return err
	}
	if variable.Secret {
		r.cleanupVaultEntries(ctx, []uuid.UUID{variable.ID})
	}
	return nil
}

// SecretVariableIDs enumerates the vault ids of every secret variable.
func (r *recordUseCase) SecretVariableIDs(ctx context.Context) ([]uuid.UUID, error) {
	return r.variables.ListSecretIDs(ctx)
}

func (r *recordUseCase) resolveEnvironment(
	ctx context.Context,
	projectName, name string,
) (*recordsDomain.Environment, error) {
	project, err := r.projects.GetByName(ctx, projectName)
	if err != nil {
		return nil, err
	}
	return r.environments.GetByName(ctx, project.ID, name)
}

// cleanupVaultEntries deletes vault entries best-effort. The database is the
// source of truth for which ids exist; a failed vault delete leaves an
// orphaned entry that the next reset clears.
func (r *recordUseCase) cleanupVaultEntries(ctx context.Context, ids []uuid.UUID) {
	for _, id := range ids {
		if err := r.vault.Delete(ctx, id); err != nil {
			r.logger.Warn(
				"failed to delete vault entry",
				slog.String("secret_id", id.String()),
				slog.Any("error", err),
			)
		}
	}
}
