// Package usecase implements business logic orchestration for varkeep
// records. It coordinates repositories and the secret vault so that secret
// variable values only ever live in the vault while record metadata lives in
// the database.
package usecase

import (
	"context"

	"github.com/google/uuid"

	recordsDomain "github.com/varkeep/varkeep/internal/records/domain"
)

// ProjectRepository defines the interface for Project persistence operations.
type ProjectRepository interface {
	Create(ctx context.Context, project *recordsDomain.Project) error
	GetByName(ctx context.Context, name string) (*recordsDomain.Project, error)
	List(ctx context.Context) ([]*recordsDomain.Project, error)
	Update(ctx context.Context, project *recordsDomain.Project) error
	Delete(ctx context.Context, projectID uuid.UUID) error
}

// EnvironmentRepository defines the interface for Environment persistence
// operations.
type EnvironmentRepository interface {
	Create(ctx context.Context, environment *recordsDomain.Environment) error
	GetByName(ctx context.Context, projectID uuid.UUID, name string) (*recordsDomain.Environment, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*recordsDomain.Environment, error)
	Rename(ctx context.Context, environmentID uuid.UUID, name string) error
	Delete(ctx context.Context, environmentID uuid.UUID) error
}

// VariableRepository defines the interface for Variable persistence
// operations.
type VariableRepository interface {
	Create(ctx context.Context, variable *recordsDomain.Variable) error
	Update(ctx context.Context, variable *recordsDomain.Variable) error
	GetByKey(ctx context.Context, environmentID uuid.UUID, key string) (*recordsDomain.Variable, error)
	ListByEnvironment(ctx context.Context, environmentID uuid.UUID) ([]*recordsDomain.Variable, error)
	ListSecretIDs(ctx context.Context) ([]uuid.UUID, error)
	ListSecretIDsByEnvironment(ctx context.Context, environmentID uuid.UUID) ([]uuid.UUID, error)
	Delete(ctx context.Context, variableID uuid.UUID) error
}

// Vault is the secret storage consumed by the record layer. Secret variable
// values are stored under the variable id.
type Vault interface {
	Save(ctx context.Context, id uuid.UUID, value string) error
	Retrieve(ctx context.Context, id uuid.UUID) (string, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// RecordUseCase defines the interface for record management business logic.
type RecordUseCase interface {
	CreateProject(ctx context.Context, name, description string) (*recordsDomain.Project, error)
	GetProject(ctx context.Context, name string) (*recordsDomain.Project, error)
	ListProjects(ctx context.Context) ([]*recordsDomain.Project, error)
	UpdateProject(ctx context.Context, name, description string) (*recordsDomain.Project, error)
	DeleteProject(ctx context.Context, name string) error

	CreateEnvironment(ctx context.Context, projectName, name string) (*recordsDomain.Environment, error)
	ListEnvironments(ctx context.Context, projectName string) ([]*recordsDomain.Environment, error)
	RenameEnvironment(ctx context.Context, projectName, name, newName string) error
	DeleteEnvironment(ctx context.Context, projectName, name string) error

	// SetVariable creates or updates a variable. Secret values are written to
	// the vault before any database row is touched.
	SetVariable(ctx context.Context, projectName, environmentName, key, value string, secret bool) (*recordsDomain.Variable, error)
	// GetVariable resolves the variable; secret values are fetched from the
	// vault into the Value field.
	GetVariable(ctx context.Context, projectName, environmentName, key string) (*recordsDomain.Variable, error)
	// ListVariables lists an environment's variables. With reveal set, secret
	// values are resolved from the vault; otherwise Value stays empty for
	// secret variables.
	ListVariables(ctx context.Context, projectName, environmentName string, reveal bool) ([]*recordsDomain.Variable, error)
	DeleteVariable(ctx context.Context, projectName, environmentName, key string) error

	// SecretVariableIDs enumerates the vault ids of every secret variable.
	SecretVariableIDs(ctx context.Context) ([]uuid.UUID, error)
}
