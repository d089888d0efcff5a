package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/zalando/go-keyring"

	apperrors "github.com/varkeep/varkeep/internal/errors"
)

// KeyringBackend stores each secret as one opaque item in the platform secure
// item store (macOS Keychain, Linux Secret Service, Windows Credential
// Manager). Items are addressed by (service name, account = secret-id string);
// access control is enforced by the platform, which may require an unlocked
// session. Each call is a single platform operation, there is no batching.
type KeyringBackend struct {
	service string
}

// NewKeyringBackend creates a backend storing items under the given service
// name, which identifies the enclave namespace.
func NewKeyringBackend(service string) *KeyringBackend {
	return &KeyringBackend{service: service}
}

// Save stores value under id, overwriting any existing item.
func (b *KeyringBackend) Save(_ context.Context, id uuid.UUID, value string) error {
	if err := keyring.Set(b.service, id.String(), value); err != nil {
		return apperrors.Wrapf(err, "failed to save enclave item %s", id)
	}
	return nil
}

// Retrieve returns the value stored under id, or ErrNotFound when absent.
func (b *KeyringBackend) Retrieve(_ context.Context, id uuid.UUID) (string, error) {
	value, err := keyring.Get(b.service, id.String())
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", apperrors.Wrapf(apperrors.ErrNotFound, "enclave item %s", id)
		}
		return "", apperrors.Wrapf(err, "failed to retrieve enclave item %s", id)
	}
	return value, nil
}

// Delete removes the item for id. Deleting an absent item is not an error.
func (b *KeyringBackend) Delete(_ context.Context, id uuid.UUID) error {
	if err := keyring.Delete(b.service, id.String()); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil
		}
		return apperrors.Wrapf(err, "failed to delete enclave item %s", id)
	}
	return nil
}

// Exists reports whether an item for id is present.
func (b *KeyringBackend) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, err := keyring.Get(b.service, id.String())
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return false, nil
		}
		return false, apperrors.Wrapf(err, "failed to check enclave item %s", id)
	}
	return true, nil
}
