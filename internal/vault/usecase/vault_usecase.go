package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// VaultUseCase composes the enclave backend (primary) and the shared
// encrypted store (secondary mirror) behind the Vault interface.
//
// Writes go to the primary first and are then mirrored into the secondary; a
// secondary-write failure is logged and swallowed, the operation counts as
// successful once the primary write succeeds. Reads try the primary and fall
// back to the secondary on any failure; when both fail, the secondary's error
// is surfaced as the authoritative failure reason. Delete and Exists are
// best-effort across both backends by explicit policy: per-backend errors are
// swallowed so the operation makes forward progress even when one backend is
// unreachable.
type VaultUseCase struct {
	enclave Backend
	shared  SharedStore
	logger  *slog.Logger
}

// NewVaultUseCase creates the vault façade over the given backends.
func NewVaultUseCase(enclave Backend, shared SharedStore, logger *slog.Logger) *VaultUseCase {
	return &VaultUseCase{
		enclave: enclave,
		shared:  shared,
		logger:  logger,
	}
}

// Save writes to the enclave first and mirrors into the shared store.
// There is no secondary-write guarantee.
func (v *VaultUseCase) Save(ctx context.Context, id uuid.UUID, value string) error {
	if err := v.enclave.Save(ctx, id, value); err != nil {
		return err
	}

	if err := v.shared.Save(ctx, id, value); err != nil {
		v.logger.Warn(
			"failed to mirror secret into shared store",
			slog.String("secret_id", id.String()),
			slog.Any("error", err),
		)
	}
	return nil
}

// Retrieve tries the enclave and falls back to the shared store on a miss or
// platform failure.
func (v *VaultUseCase) Retrieve(ctx context.Context, id uuid.UUID) (string, error) {
	value, enclaveErr := v.enclave.Retrieve(ctx, id)
	if enclaveErr == nil {
		return value, nil
	}

	value, sharedErr := v.shared.Retrieve(ctx, id)
	if sharedErr != nil {
		v.logger.Debug(
			"secret unavailable in both backends",
			slog.String("secret_id", id.String()),
			slog.Any("enclave_error", enclaveErr),
			slog.Any("shared_error", sharedErr),
		)
		return "", sharedErr
	}
	return value, nil
}

// Delete attempts deletion on both backends independently, swallowing
// per-backend errors.
func (v *VaultUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	if err := v.enclave.Delete(ctx, id); err != nil {
		v.logger.Warn(
			"failed to delete secret from enclave",
			slog.String("secret_id", id.String()),
			slog.Any("error", err),
		)
	}
	if err := v.shared.Delete(ctx, id); err != nil {
		v.logger.Warn(
			"failed to delete secret from shared store",
			slog.String("secret_id", id.String()),
			slog.Any("error", err),
		)
	}
	return nil
}

// Exists reports whether either backend holds the secret. Per-backend errors
// count as "not present" in that backend.
func (v *VaultUseCase) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	inEnclave, err := v.enclave.Exists(ctx, id)
	if err != nil {
		v.logger.Debug(
			"enclave existence check failed",
			slog.String("secret_id", id.String()),
			slog.Any("error", err),
		)
	}
	if inEnclave {
		return true, nil
	}

	inShared, err := v.shared.Exists(ctx, id)
	if err != nil {
		v.logger.Debug(
			"shared store existence check failed",
			slog.String("secret_id", id.String()),
			slog.Any("error", err),
		)
	}
	return inShared, nil
}
