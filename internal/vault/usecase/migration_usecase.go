package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	vaultDomain "github.com/varkeep/varkeep/internal/vault/domain"
)

// MigrationUseCase reconciles enclave contents into the shared encrypted
// store and detects and repairs the legacy key-storage state. It is invoked
// on demand by an external orchestrator, typically once per application
// lifecycle.
type MigrationUseCase struct {
	enclave Backend
	shared  SharedStore
	keys    KeyManager
	logger  *slog.Logger
}

// NewMigrationUseCase creates a coordinator over the given backends.
func NewMigrationUseCase(
	enclave Backend,
	shared SharedStore,
	keys KeyManager,
	logger *slog.Logger,
) *MigrationUseCase {
	return &MigrationUseCase{
		enclave: enclave,
		shared:  shared,
		keys:    keys,
		logger:  logger,
	}
}

// Migrate backfills the shared store with the enclave values of the given
// known ids. Ids already present in the shared store are never overwritten.
// Per-item enclave failures are skipped and the remaining ids continue; the
// accumulated batch is written in a single bulk save, avoiding one
// encrypt/decrypt cycle per id.
func (m *MigrationUseCase) Migrate(ctx context.Context, knownIDs []uuid.UUID) error {
	existing, err := m.shared.AllIDs(ctx)
	if err != nil {
		return err
	}

	batch := vaultDomain.SecretMap{}
	for _, id := range knownIDs {
		if _, ok := existing[id.String()]; ok {
			continue
		}

		value, err := m.enclave.Retrieve(ctx, id)
		if err != nil {
			m.logger.Warn(
				"skipping secret during migration",
				slog.String("secret_id", id.String()),
				slog.Any("error", err),
			)
			continue
		}
		batch[id.String()] = value
	}

	if len(batch) == 0 {
		return nil
	}

	if err := m.shared.SaveAll(ctx, batch); err != nil {
		return err
	}

	m.logger.Info("migrated secrets into shared store", slog.Int("count", len(batch)))
	return nil
}

// NeedsReset reports the legacy state: the shared blob exists on disk but no
// key is resolvable from the canonical key location. Such a blob was
// encrypted under a key that lived somewhere else and can no longer be
// decrypted.
func (m *MigrationUseCase) NeedsReset() bool {
	exists, err := m.shared.BlobExists()
	if err != nil {
		m.logger.Warn("failed to check shared blob presence", slog.Any("error", err))
		return false
	}
	return exists && !m.keys.HasKey()
}

// ResetStorage deletes the blob file and the key file unconditionally. This
// accepts data loss for the shared tier only; the enclave backend remains the
// source of truth and Migrate can be re-run afterward to repopulate the
// shared tier. No alternate or legacy key source is probed before deletion.
func (m *MigrationUseCase) ResetStorage() error {
	blobErr := m.shared.RemoveBlob()
	keyErr := m.keys.ResetKey()

	if blobErr != nil {
		return blobErr
	}
	return keyErr
}
