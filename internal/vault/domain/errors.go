package domain

import (
	apperrors "github.com/varkeep/varkeep/internal/errors"
)

// Vault error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors to
// provide context for vault failures. The façade maps them to its fallback
// policy: ErrNotFound is recoverable by falling back to the other backend,
// unavailability errors degrade to enclave-only mode, and cryptographic
// failures propagate to the caller unchanged.
var (
	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is
	// not supported. Supported algorithms: aes-gcm, chacha20-poly1305.
	ErrUnsupportedAlgorithm = apperrors.Wrap(apperrors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates the symmetric key is not exactly 32 bytes.
	ErrInvalidKeySize = apperrors.Wrap(apperrors.ErrInvalidInput, "invalid key size")

	// ErrKeyUnavailable indicates the symmetric key cannot be read from the
	// canonical key location. With a blob present this is the legacy state and
	// requires an explicit, caller-initiated reset.
	ErrKeyUnavailable = apperrors.Wrap(apperrors.ErrUnavailable, "encryption key unavailable")

	// ErrKeyCreationFailed indicates a new symmetric key could not be generated
	// or persisted. Fatal for any shared-tier operation.
	ErrKeyCreationFailed = apperrors.Wrap(apperrors.ErrUnavailable, "encryption key creation failed")

	// ErrEncryptionFailed indicates the secret map could not be encrypted.
	ErrEncryptionFailed = apperrors.New("encryption failed")

	// ErrDecryptionFailed indicates a decryption failure: tampered ciphertext,
	// a truncated file, or the wrong key. Never retried and never silently
	// recovered; the operator must run the reset/migration flow.
	ErrDecryptionFailed = apperrors.New("decryption failed")

	// ErrInvalidData indicates the decrypted payload does not decode to the
	// expected id-to-value mapping.
	ErrInvalidData = apperrors.Wrap(apperrors.ErrInvalidInput, "invalid payload data")
)
