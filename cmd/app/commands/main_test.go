package commands

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/varkeep/varkeep/internal/database"
	apperrors "github.com/varkeep/varkeep/internal/errors"
	"github.com/varkeep/varkeep/internal/records/repository"
	recordsUsecase "github.com/varkeep/varkeep/internal/records/usecase"
	"github.com/varkeep/varkeep/internal/testutil"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// memoryVault is an in-memory stand-in for the secret vault.
type memoryVault struct {
	mu    sync.Mutex
	items map[string]string
}

func newMemoryVault() *memoryVault {
	return &memoryVault{items: make(map[string]string)}
}

func (v *memoryVault) Save(_ context.Context, id uuid.UUID, value string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.items[id.String()] = value
	return nil
}

func (v *memoryVault) Retrieve(_ context.Context, id uuid.UUID) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	value, ok := v.items[id.String()]
	if !ok {
		return "", apperrors.Wrapf(apperrors.ErrNotFound, "item %s", id)
	}
	return value, nil
}

func (v *memoryVault) Delete(_ context.Context, id uuid.UUID) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.items, id.String())
	return nil
}

func (v *memoryVault) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.items[id.String()]
	return ok, nil
}

// setupRecords builds a record use case over a throwaway database and an
// in-memory vault.
func setupRecords(t *testing.T) recordsUsecase.RecordUseCase {
	t.Helper()

	db := testutil.SetupDB(t)
	return recordsUsecase.NewRecordUseCase(
		database.NewTxManager(db),
		repository.NewProjectRepository(db),
		repository.NewEnvironmentRepository(db),
		repository.NewVariableRepository(db),
		newMemoryVault(),
		testLogger(),
	)
}

func mustCreateProject(t *testing.T, records recordsUsecase.RecordUseCase, name string) {
	t.Helper()
	_, err := records.CreateProject(context.Background(), name, "")
	require.NoError(t, err)
}

func mustCreateEnvironment(t *testing.T, records recordsUsecase.RecordUseCase, project, name string) {
	t.Helper()
	_, err := records.CreateEnvironment(context.Background(), project, name)
	require.NoError(t, err)
}
