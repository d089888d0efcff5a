package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCoordinator implements MigrationCoordinator for command tests.
type fakeCoordinator struct {
	needsReset  bool
	migrated    []uuid.UUID
	migrateErr  error
	resetCalled bool
	resetErr    error
}

func (f *fakeCoordinator) Migrate(_ context.Context, knownIDs []uuid.UUID) error {
	if f.migrateErr != nil {
		return f.migrateErr
	}
	f.migrated = knownIDs
	return nil
}

func (f *fakeCoordinator) NeedsReset() bool { return f.needsReset }

func (f *fakeCoordinator) ResetStorage() error {
	f.resetCalled = true
	return f.resetErr
}

// fakeInspector implements SharedStoreInspector and KeyInspector.
type fakeInspector struct {
	blobPresent bool
	keyPresent  bool
	ids         map[string]struct{}
}

func (f *fakeInspector) BlobExists() (bool, error) { return f.blobPresent, nil }

func (f *fakeInspector) AllIDs(_ context.Context) (map[string]struct{}, error) {
	return f.ids, nil
}

func (f *fakeInspector) HasKey() bool { return f.keyPresent }

func TestRunVaultMigrate(t *testing.T) {
	ctx := context.Background()
	records := setupRecords(t)
	mustCreateProject(t, records, "backend")
	mustCreateEnvironment(t, records, "backend", "production")

	_, err := records.SetVariable(ctx, "backend", "production", "API_KEY", "sk-123", true)
	require.NoError(t, err)

	t.Run("passes all secret ids to the coordinator", func(t *testing.T) {
		coordinator := &fakeCoordinator{}
		var out bytes.Buffer

		err := RunVaultMigrate(ctx, records, coordinator, testLogger(), IOTuple{Writer: &out})
		require.NoError(t, err)
		assert.Len(t, coordinator.migrated, 1)
		assert.Contains(t, out.String(), "Migration finished for 1 secret variable(s)")
	})

	t.Run("refuses to migrate in the legacy state", func(t *testing.T) {
		coordinator := &fakeCoordinator{needsReset: true}
		var out bytes.Buffer

		err := RunVaultMigrate(ctx, records, coordinator, testLogger(), IOTuple{Writer: &out})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "varkeep vault reset")
		assert.Nil(t, coordinator.migrated)
	})
}

func TestRunVaultStatus(t *testing.T) {
	ctx := context.Background()
	records := setupRecords(t)
	mustCreateProject(t, records, "backend")
	mustCreateEnvironment(t, records, "backend", "production")

	_, err := records.SetVariable(ctx, "backend", "production", "API_KEY", "sk-123", true)
	require.NoError(t, err)

	t.Run("healthy state", func(t *testing.T) {
		inspector := &fakeInspector{
			blobPresent: true,
			keyPresent:  true,
			ids:         map[string]struct{}{"a": {}},
		}
		var out bytes.Buffer

		err := RunVaultStatus(ctx, records, &fakeCoordinator{}, inspector, inspector, IOTuple{Writer: &out}, "text")
		require.NoError(t, err)
		assert.Contains(t, out.String(), "State:             ok")
		assert.Contains(t, out.String(), "Shared secrets:    1")
	})

	t.Run("legacy state points at reset", func(t *testing.T) {
		inspector := &fakeInspector{blobPresent: true, keyPresent: false}
		coordinator := &fakeCoordinator{needsReset: true}
		var out bytes.Buffer

		err := RunVaultStatus(ctx, records, coordinator, inspector, inspector, IOTuple{Writer: &out}, "text")
		require.NoError(t, err)
		assert.Contains(t, out.String(), "varkeep vault reset")
	})

	t.Run("json output", func(t *testing.T) {
		inspector := &fakeInspector{blobPresent: true, keyPresent: true, ids: map[string]struct{}{}}
		var out bytes.Buffer

		err := RunVaultStatus(ctx, records, &fakeCoordinator{}, inspector, inspector, IOTuple{Writer: &out}, "json")
		require.NoError(t, err)

		var status map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &status))
		assert.Equal(t, true, status["blob_present"])
		assert.Equal(t, float64(1), status["secret_variables"])
	})
}

func TestRunVaultReset(t *testing.T) {
	t.Run("requires force", func(t *testing.T) {
		coordinator := &fakeCoordinator{}
		var out bytes.Buffer

		err := RunVaultReset(coordinator, testLogger(), IOTuple{Writer: &out}, false)
		require.Error(t, err)
		assert.False(t, coordinator.resetCalled)
	})

	t.Run("forced reset destroys shared storage", func(t *testing.T) {
		coordinator := &fakeCoordinator{}
		var out bytes.Buffer

		err := RunVaultReset(coordinator, testLogger(), IOTuple{Writer: &out}, true)
		require.NoError(t, err)
		assert.True(t, coordinator.resetCalled)
		assert.Contains(t, out.String(), "vault migrate")
	})
}
