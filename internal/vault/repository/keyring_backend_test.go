package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	apperrors "github.com/varkeep/varkeep/internal/errors"
)

func TestKeyringBackend(t *testing.T) {
	// Swap the platform keyring for the in-memory mock provider.
	keyring.MockInit()

	backend := NewKeyringBackend("varkeep-test")
	ctx := context.Background()

	t.Run("save and retrieve", func(t *testing.T) {
		id := uuid.New()
		require.NoError(t, backend.Save(ctx, id, "sk-123"))

		value, err := backend.Retrieve(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "sk-123", value)
	})

	t.Run("save overwrites", func(t *testing.T) {
		id := uuid.New()
		require.NoError(t, backend.Save(ctx, id, "first"))
		require.NoError(t, backend.Save(ctx, id, "second"))

		value, err := backend.Retrieve(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "second", value)
	})

	t.Run("retrieve missing id fails with not found", func(t *testing.T) {
		_, err := backend.Retrieve(ctx, uuid.New())
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		id := uuid.New()
		require.NoError(t, backend.Save(ctx, id, "sk-123"))

		require.NoError(t, backend.Delete(ctx, id))
		require.NoError(t, backend.Delete(ctx, id))

		exists, err := backend.Exists(ctx, id)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("exists", func(t *testing.T) {
		id := uuid.New()

		exists, err := backend.Exists(ctx, id)
		require.NoError(t, err)
		assert.False(t, exists)

		require.NoError(t, backend.Save(ctx, id, "sk-123"))

		exists, err = backend.Exists(ctx, id)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("service names are isolated", func(t *testing.T) {
		other := NewKeyringBackend("varkeep-other")
		id := uuid.New()
		require.NoError(t, backend.Save(ctx, id, "sk-123"))

		exists, err := other.Exists(ctx, id)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
