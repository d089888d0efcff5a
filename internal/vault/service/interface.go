// Package service provides the cryptographic services of the secret vault:
// AEAD ciphers over the shared secret blob and the lifecycle of the symmetric
// key persisted in the shared container.
package service

import (
	vaultDomain "github.com/varkeep/varkeep/internal/vault/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg vaultDomain.Algorithm) (AEAD, error)
}

// KeyManager owns the symmetric encryption key's lifecycle at its canonical
// location inside the shared container.
type KeyManager interface {
	// GetOrCreateKey returns the persisted 32-byte key, generating and
	// persisting a fresh one when none is resolvable.
	GetOrCreateKey() ([]byte, error)

	// Key returns the persisted key without creating one.
	// Returns ErrKeyUnavailable when no valid key is resolvable.
	Key() ([]byte, error)

	// HasKey reports whether valid key material exists at the canonical
	// location. Pure existence check, no decryption attempted.
	HasKey() bool

	// ResetKey deletes the persisted key material. It performs no migration of
	// old ciphertext; used only as part of a full reset of the shared tier.
	ResetKey() error
}
