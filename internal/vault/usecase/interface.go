// Package usecase implements the orchestration layer of the secret vault: the
// façade composing the enclave backend with the shared encrypted store, and
// the migration coordinator reconciling the two.
package usecase

import (
	"context"

	"github.com/google/uuid"

	vaultDomain "github.com/varkeep/varkeep/internal/vault/domain"
)

// Backend is the capability set of a single secret storage backend.
type Backend interface {
	Save(ctx context.Context, id uuid.UUID, value string) error
	Retrieve(ctx context.Context, id uuid.UUID) (string, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// SharedStore is the shared encrypted store as consumed by the façade and the
// migration coordinator: a Backend with bulk and maintenance operations.
type SharedStore interface {
	Backend

	// SaveAll merges the given pairs in a single encrypt/write cycle.
	SaveAll(ctx context.Context, values vaultDomain.SecretMap) error

	// AllIDs returns the set of secret-id strings currently present.
	AllIDs(ctx context.Context) (map[string]struct{}, error)

	// BlobExists reports whether the blob file is present on disk.
	BlobExists() (bool, error)

	// RemoveBlob deletes the blob file and clears the cache.
	RemoveBlob() error
}

// KeyManager is the key lifecycle surface needed for legacy-state detection
// and the destructive reset.
type KeyManager interface {
	HasKey() bool
	ResetKey() error
}

// Vault is the single entry point consumed by the record layer.
type Vault interface {
	Save(ctx context.Context, id uuid.UUID, value string) error
	Retrieve(ctx context.Context, id uuid.UUID) (string, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
