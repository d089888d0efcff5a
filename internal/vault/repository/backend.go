// Package repository implements the storage backends of the secret vault: the
// platform enclave (OS keyring), an in-memory backend for tests and
// platform-less environments, and the shared encrypted store holding the full
// secret map as one authenticated-encrypted blob.
package repository

import (
	"context"

	"github.com/google/uuid"
)

// Backend is the capability set shared by all secret storage backends.
//
// Retrieve fails with ErrNotFound when the id is absent, Save overwrites any
// existing entry for the same id, and Delete is idempotent (deleting an absent
// entry is not an error). The façade composes two Backend implementations via
// an explicit primary/secondary strategy.
type Backend interface {
	// Save stores value under id, overwriting any existing entry.
	Save(ctx context.Context, id uuid.UUID, value string) error

	// Retrieve returns the value stored under id.
	Retrieve(ctx context.Context, id uuid.UUID) (string, error)

	// Delete removes the entry for id. Absent entries are not an error.
	Delete(ctx context.Context, id uuid.UUID) error

	// Exists reports whether an entry for id is present.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
