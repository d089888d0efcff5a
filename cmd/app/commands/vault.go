package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	recordsUsecase "github.com/varkeep/varkeep/internal/records/usecase"
)

// MigrationCoordinator is the vault maintenance surface used by the vault
// commands.
type MigrationCoordinator interface {
	Migrate(ctx context.Context, knownIDs []uuid.UUID) error
	NeedsReset() bool
	ResetStorage() error
}

// SharedStoreInspector exposes the shared store state needed for status
// reporting.
type SharedStoreInspector interface {
	BlobExists() (bool, error)
	AllIDs(ctx context.Context) (map[string]struct{}, error)
}

// KeyInspector reports key file presence.
type KeyInspector interface {
	HasKey() bool
}

// RunVaultMigrate backfills the shared encrypted store with the enclave
// values of every secret variable.
func RunVaultMigrate(
	ctx context.Context,
	records recordsUsecase.RecordUseCase,
	migration MigrationCoordinator,
	logger *slog.Logger,
	out IOTuple,
) error {
	if migration.NeedsReset() {
		return fmt.Errorf(
			"shared store blob exists but its key is missing; run 'varkeep vault reset' first, then migrate again",
		)
	}

	ids, err := records.SecretVariableIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to enumerate secret variables: %w", err)
	}

	if err := migration.Migrate(ctx, ids); err != nil {
		return fmt.Errorf("failed to migrate secrets: %w", err)
	}

	logger.Info("vault migration finished", slog.Int("known_ids", len(ids)))
	fmt.Fprintf(out.Writer, "Migration finished for %d secret variable(s)\n", len(ids))
	return nil
}

// vaultStatus is the render shape of the vault state.
type vaultStatus struct {
	SecretVariables int  `json:"secret_variables" yaml:"secret_variables"`
	BlobPresent     bool `json:"blob_present"     yaml:"blob_present"`
	KeyPresent      bool `json:"key_present"      yaml:"key_present"`
	SharedSecrets   *int `json:"shared_secrets,omitempty" yaml:"shared_secrets,omitempty"`
	NeedsReset      bool `json:"needs_reset"      yaml:"needs_reset"`
}

// RunVaultStatus reports the state of both vault tiers.
func RunVaultStatus(
	ctx context.Context,
	records recordsUsecase.RecordUseCase,
	migration MigrationCoordinator,
	shared SharedStoreInspector,
	keys KeyInspector,
	out IOTuple,
	outputStr string,
) error {
	output, err := ParseOutputFormat(outputStr)
	if err != nil {
		return err
	}

	ids, err := records.SecretVariableIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to enumerate secret variables: %w", err)
	}

	blobPresent, err := shared.BlobExists()
	if err != nil {
		return fmt.Errorf("failed to check shared store blob: %w", err)
	}

	status := vaultStatus{
		SecretVariables: len(ids),
		BlobPresent:     blobPresent,
		KeyPresent:      keys.HasKey(),
		NeedsReset:      migration.NeedsReset(),
	}

	// The shared map is only readable when the store is healthy.
	if !status.NeedsReset {
		if sharedIDs, err := shared.AllIDs(ctx); err == nil {
			count := len(sharedIDs)
			status.SharedSecrets = &count
		}
	}

	return render(out.Writer, output, status, func(w io.Writer) error {
		fmt.Fprintf(w, "Secret variables:  %d\n", status.SecretVariables)
		fmt.Fprintf(w, "Shared blob:       %s\n", presence(status.BlobPresent))
		fmt.Fprintf(w, "Shared key:        %s\n", presence(status.KeyPresent))
		if status.SharedSecrets != nil {
			fmt.Fprintf(w, "Shared secrets:    %d\n", *status.SharedSecrets)
		}
		if status.NeedsReset {
			fmt.Fprintln(w, "State:             legacy blob without key, run 'varkeep vault reset'")
		} else {
			fmt.Fprintln(w, "State:             ok")
		}
		return nil
	})
}

// RunVaultReset destroys the shared store blob and key. The enclave tier is
// untouched; a following migrate repopulates the shared tier from it.
func RunVaultReset(
	migration MigrationCoordinator,
	logger *slog.Logger,
	out IOTuple,
	force bool,
) error {
	if !force {
		return fmt.Errorf(
			"vault reset destroys the shared encrypted store and its key; re-run with --force to confirm",
		)
	}

	if err := migration.ResetStorage(); err != nil {
		return fmt.Errorf("failed to reset vault storage: %w", err)
	}

	logger.Info("vault shared storage reset")
	fmt.Fprintln(out.Writer, "Shared vault storage reset; run 'varkeep vault migrate' to repopulate it")
	return nil
}

func presence(present bool) string {
	if present {
		return "present"
	}
	return "missing"
}
