// Package domain defines the core data model for the secret vault: secret
// identifiers, the in-memory secret map, and the combined encoding of the
// persisted encrypted blob.
package domain

import (
	"github.com/google/uuid"
)

// NewSecretID returns a new 128-bit random secret identifier.
// Identifiers are stable for the lifetime of a secret and never reused.
func NewSecretID() uuid.UUID {
	return uuid.New()
}

// SecretMap is the in-memory mapping of secret-id strings to secret values.
//
// It is the only form in which multiple secrets exist unencrypted at the same
// time. Instances are ephemeral: reconstructed by decrypting the persisted
// blob, and discarded or replaced on every mutation. The map must never leave
// the guarded boundary of the shared store.
type SecretMap map[string]string

// Clone returns an independent copy of the map.
func (m SecretMap) Clone() SecretMap {
	clone := make(SecretMap, len(m))
	for id, value := range m {
		clone[id] = value
	}
	return clone
}

// IDs returns the set of secret-id strings present in the map.
func (m SecretMap) IDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(m))
	for id := range m {
		ids[id] = struct{}{}
	}
	return ids
}
