package domain

import (
	apperrors "github.com/varkeep/varkeep/internal/errors"
)

// Combined encoding of the persisted encrypted blob.
//
// The blob is a single self-describing byte sequence:
//
//	[1B format version][1B algorithm tag][1B nonce length][nonce][ciphertext+tag]
//
// The authentication tag is part of the ciphertext produced by the AEAD. The
// blob is always replaced atomically as a whole, never partially updated.

// blobVersion is the current on-disk format version.
const blobVersion byte = 1

// blobHeaderSize is the fixed prefix before the nonce.
const blobHeaderSize = 3

// Algorithm tags used in the blob header.
const (
	blobAlgAESGCM   byte = 1
	blobAlgChaCha20 byte = 2
)

// EncodeBlob packs algorithm, nonce, and ciphertext into the combined encoding.
func EncodeBlob(alg Algorithm, nonce, ciphertext []byte) ([]byte, error) {
	var tag byte
	switch alg {
	case AESGCM:
		tag = blobAlgAESGCM
	case ChaCha20:
		tag = blobAlgChaCha20
	default:
		return nil, apperrors.Wrapf(ErrUnsupportedAlgorithm, "algorithm %q", alg)
	}
	if len(nonce) == 0 || len(nonce) > 255 {
		return nil, apperrors.Wrapf(ErrInvalidData, "nonce length %d", len(nonce))
	}

	blob := make([]byte, 0, blobHeaderSize+len(nonce)+len(ciphertext))
	blob = append(blob, blobVersion, tag, byte(len(nonce)))
	blob = append(blob, nonce...)
	blob = append(blob, ciphertext...)
	return blob, nil
}

// DecodeBlob splits a combined encoding into algorithm, nonce, and ciphertext.
// Returns ErrInvalidData for truncated or malformed blobs and
// ErrUnsupportedAlgorithm for unknown algorithm tags.
func DecodeBlob(blob []byte) (Algorithm, []byte, []byte, error) {
	if len(blob) < blobHeaderSize {
		return "", nil, nil, apperrors.Wrap(ErrInvalidData, "blob too short")
	}
	if blob[0] != blobVersion {
		return "", nil, nil, apperrors.Wrapf(ErrInvalidData, "unknown blob version %d", blob[0])
	}

	var alg Algorithm
	switch blob[1] {
	case blobAlgAESGCM:
		alg = AESGCM
	case blobAlgChaCha20:
		alg = ChaCha20
	default:
		return "", nil, nil, apperrors.Wrapf(ErrUnsupportedAlgorithm, "algorithm tag %d", blob[1])
	}

	nonceLen := int(blob[2])
	if nonceLen == 0 || len(blob) < blobHeaderSize+nonceLen {
		return "", nil, nil, apperrors.Wrap(ErrInvalidData, "truncated nonce")
	}

	nonce := blob[blobHeaderSize : blobHeaderSize+nonceLen]
	ciphertext := blob[blobHeaderSize+nonceLen:]
	return alg, nonce, ciphertext, nil
}
