package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/varkeep/varkeep/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		ServiceName:    "varkeep-test",
		ContainerDir:   filepath.Join(dir, "shared"),
		VaultAlgorithm: "aes-gcm",
		DBPath:         filepath.Join(dir, "varkeep.db"),
		LogLevel:       "error",
	}
}

func TestContainer(t *testing.T) {
	keyring.MockInit()

	t.Run("components are singletons", func(t *testing.T) {
		c := NewContainer(testConfig(t))
		defer func() { require.NoError(t, c.Shutdown(context.Background())) }()

		assert.Same(t, c.Logger(), c.Logger())
		assert.Same(t, c.KeyManager(), c.KeyManager())
		assert.Same(t, c.EnclaveBackend(), c.EnclaveBackend())

		db1, err := c.DB()
		require.NoError(t, err)
		db2, err := c.DB()
		require.NoError(t, err)
		assert.Same(t, db1, db2)
	})

	t.Run("wires the full graph", func(t *testing.T) {
		c := NewContainer(testConfig(t))
		defer func() { require.NoError(t, c.Shutdown(context.Background())) }()

		vault, err := c.VaultUseCase()
		require.NoError(t, err)
		require.NotNil(t, vault)

		migration, err := c.MigrationUseCase()
		require.NoError(t, err)
		require.NotNil(t, migration)

		records, err := c.RecordUseCase()
		require.NoError(t, err)
		require.NotNil(t, records)
	})

	t.Run("invalid algorithm surfaces on first use and sticks", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.VaultAlgorithm = "rot13"
		c := NewContainer(cfg)
		defer func() { require.NoError(t, c.Shutdown(context.Background())) }()

		_, err := c.SharedStore()
		require.Error(t, err)

		_, err2 := c.SharedStore()
		assert.Equal(t, err.Error(), err2.Error())

		_, err = c.VaultUseCase()
		assert.Error(t, err)
	})
}
