package usecase

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varkeep/varkeep/internal/database"
	apperrors "github.com/varkeep/varkeep/internal/errors"
	"github.com/varkeep/varkeep/internal/records/repository"
	"github.com/varkeep/varkeep/internal/testutil"
)

// fakeVault is an in-memory Vault with fault injection for save failures.
type fakeVault struct {
	mu      sync.Mutex
	items   map[string]string
	saveErr error
}

func newFakeVault() *fakeVault {
	return &fakeVault{items: make(map[string]string)}
}

func (f *fakeVault) Save(_ context.Context, id uuid.UUID, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.items[id.String()] = value
	return nil
}

func (f *fakeVault) Retrieve(_ context.Context, id uuid.UUID) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.items[id.String()]
	if !ok {
		return "", apperrors.Wrapf(apperrors.ErrNotFound, "item %s", id)
	}
	return value, nil
}

func (f *fakeVault) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id.String())
	return nil
}

func (f *fakeVault) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.items[id.String()]
	return ok, nil
}

func (f *fakeVault) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

func setupRecordUseCase(t *testing.T) (RecordUseCase, *fakeVault) {
	t.Helper()

	db := testutil.SetupDB(t)
	vault := newFakeVault()
	uc := NewRecordUseCase(
		database.NewTxManager(db),
		repository.NewProjectRepository(db),
		repository.NewEnvironmentRepository(db),
		repository.NewVariableRepository(db),
		vault,
		slog.New(slog.DiscardHandler),
	)
	return uc, vault
}

func TestRecordUseCase_Projects(t *testing.T) {
	uc, _ := setupRecordUseCase(t)
	ctx := context.Background()

	t.Run("create, get, list", func(t *testing.T) {
		project, err := uc.CreateProject(ctx, "backend", "api services")
		require.NoError(t, err)

		got, err := uc.GetProject(ctx, "backend")
		require.NoError(t, err)
		assert.Equal(t, project.ID, got.ID)

		projects, err := uc.ListProjects(ctx)
		require.NoError(t, err)
		assert.Len(t, projects, 1)
	})

	t.Run("invalid name is rejected before persistence", func(t *testing.T) {
		_, err := uc.CreateProject(ctx, "Not A Slug", "")
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("update description", func(t *testing.T) {
		project, err := uc.UpdateProject(ctx, "backend", "rewritten")
		require.NoError(t, err)
		assert.Equal(t, "rewritten", project.Description)
	})
}

func TestRecordUseCase_Environments(t *testing.T) {
	uc, _ := setupRecordUseCase(t)
	ctx := context.Background()

	_, err := uc.CreateProject(ctx, "backend", "")
	require.NoError(t, err)

	t.Run("create and list", func(t *testing.T) {
		_, err := uc.CreateEnvironment(ctx, "backend", "production")
		require.NoError(t, err)
		_, err = uc.CreateEnvironment(ctx, "backend", "staging")
		require.NoError(t, err)

		environments, err := uc.ListEnvironments(ctx, "backend")
		require.NoError(t, err)
		assert.Len(t, environments, 2)
	})

	t.Run("create under missing project fails", func(t *testing.T) {
		_, err := uc.CreateEnvironment(ctx, "ghost", "production")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("rename", func(t *testing.T) {
		require.NoError(t, uc.RenameEnvironment(ctx, "backend", "staging", "qa"))

		environments, err := uc.ListEnvironments(ctx, "backend")
		require.NoError(t, err)
		names := []string{environments[0].Name, environments[1].Name}
		assert.Contains(t, names, "qa")
		assert.NotContains(t, names, "staging")
	})
}

func TestRecordUseCase_Variables(t *testing.T) {
	uc, vault := setupRecordUseCase(t)
	ctx := context.Background()

	_, err := uc.CreateProject(ctx, "backend", "")
	require.NoError(t, err)
	_, err = uc.CreateEnvironment(ctx, "backend", "production")
	require.NoError(t, err)

	t.Run("plain variable round-trip", func(t *testing.T) {
		_, err := uc.SetVariable(ctx, "backend", "production", "PORT", "8080", false)
		require.NoError(t, err)

		variable, err := uc.GetVariable(ctx, "backend", "production", "PORT")
		require.NoError(t, err)
		assert.Equal(t, "8080", variable.Value)
		assert.Equal(t, 0, vault.len(), "plain values must not reach the vault")
	})

	t.Run("secret variable stores its value in the vault", func(t *testing.T) {
		created, err := uc.SetVariable(ctx, "backend", "production", "API_KEY", "sk-123", true)
		require.NoError(t, err)

		stored, err := vault.Retrieve(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "sk-123", stored)

		variable, err := uc.GetVariable(ctx, "backend", "production", "API_KEY")
		require.NoError(t, err)
		assert.Equal(t, "sk-123", variable.Value)
	})

	t.Run("vault failure aborts secret creation", func(t *testing.T) {
		vault.saveErr = apperrors.New("keychain locked")
		defer func() { vault.saveErr = nil }()

		_, err := uc.SetVariable(ctx, "backend", "production", "TOKEN", "t-1", true)
		require.Error(t, err)

		_, err = uc.GetVariable(ctx, "backend", "production", "TOKEN")
		assert.ErrorIs(t, err, apperrors.ErrNotFound, "no row may exist after a vault failure")
	})

	t.Run("set existing key updates in place", func(t *testing.T) {
		_, err := uc.SetVariable(ctx, "backend", "production", "PORT", "9090", false)
		require.NoError(t, err)

		variable, err := uc.GetVariable(ctx, "backend", "production", "PORT")
		require.NoError(t, err)
		assert.Equal(t, "9090", variable.Value)
	})

	t.Run("flipping secret to plain removes the vault entry", func(t *testing.T) {
		created, err := uc.SetVariable(ctx, "backend", "production", "API_KEY", "visible", false)
		require.NoError(t, err)

		exists, err := vault.Exists(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, exists)

		variable, err := uc.GetVariable(ctx, "backend", "production", "API_KEY")
		require.NoError(t, err)
		assert.Equal(t, "visible", variable.Value)
	})

	t.Run("list hides secret values unless revealed", func(t *testing.T) {
		_, err := uc.SetVariable(ctx, "backend", "production", "DB_PASS", "hunter2", true)
		require.NoError(t, err)

		variables, err := uc.ListVariables(ctx, "backend", "production", false)
		require.NoError(t, err)
		for _, variable := range variables {
			if variable.Secret {
				assert.Empty(t, variable.Value)
			}
		}

		revealed, err := uc.ListVariables(ctx, "backend", "production", true)
		require.NoError(t, err)
		found := false
		for _, variable := range revealed {
			if variable.Key == "DB_PASS" {
				assert.Equal(t, "hunter2", variable.Value)
				found = true
			}
		}
		assert.True(t, found)
	})

	t.Run("delete removes row and vault entry", func(t *testing.T) {
		created, err := uc.SetVariable(ctx, "backend", "production", "ONE_SHOT", "v", true)
		require.NoError(t, err)

		require.NoError(t, uc.DeleteVariable(ctx, "backend", "production", "ONE_SHOT"))

		exists, err := vault.Exists(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, exists)

		_, err = uc.GetVariable(ctx, "backend", "production", "ONE_SHOT")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("secret variable ids enumerates the vault entries", func(t *testing.T) {
		ids, err := uc.SecretVariableIDs(ctx)
		require.NoError(t, err)
		assert.Len(t, ids, 1) // DB_PASS
	})
}

func TestRecordUseCase_CascadingDeletes(t *testing.T) {
	uc, vault := setupRecordUseCase(t)
	ctx := context.Background()

	_, err := uc.CreateProject(ctx, "backend", "")
	require.NoError(t, err)
	_, err = uc.CreateEnvironment(ctx, "backend", "production")
	require.NoError(t, err)
	_, err = uc.CreateEnvironment(ctx, "backend", "staging")
	require.NoError(t, err)

	_, err = uc.SetVariable(ctx, "backend", "production", "API_KEY", "sk-prod", true)
	require.NoError(t, err)
	_, err = uc.SetVariable(ctx, "backend", "staging", "API_KEY", "sk-stage", true)
	require.NoError(t, err)
	require.Equal(t, 2, vault.len())

	t.Run("environment delete cleans its vault entries", func(t *testing.T) {
		require.NoError(t, uc.DeleteEnvironment(ctx, "backend", "staging"))
		assert.Equal(t, 1, vault.len())
	})

	t.Run("project delete cleans every remaining entry", func(t *testing.T) {
		require.NoError(t, uc.DeleteProject(ctx, "backend"))
		assert.Equal(t, 0, vault.len())

		_, err := uc.GetProject(ctx, "backend")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}
