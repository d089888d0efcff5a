package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeBlob(t *testing.T) {
	nonce := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	ciphertext := []byte("ciphertext-with-tag")

	t.Run("round-trips AES-GCM", func(t *testing.T) {
		blob, err := EncodeBlob(AESGCM, nonce, ciphertext)
		require.NoError(t, err)

		alg, gotNonce, gotCiphertext, err := DecodeBlob(blob)
		require.NoError(t, err)
		assert.Equal(t, AESGCM, alg)
		assert.Equal(t, nonce, gotNonce)
		assert.Equal(t, ciphertext, gotCiphertext)
	})

	t.Run("round-trips ChaCha20-Poly1305", func(t *testing.T) {
		blob, err := EncodeBlob(ChaCha20, nonce, ciphertext)
		require.NoError(t, err)

		alg, gotNonce, gotCiphertext, err := DecodeBlob(blob)
		require.NoError(t, err)
		assert.Equal(t, ChaCha20, alg)
		assert.Equal(t, nonce, gotNonce)
		assert.Equal(t, ciphertext, gotCiphertext)
	})

	t.Run("rejects unknown algorithm", func(t *testing.T) {
		_, err := EncodeBlob(Algorithm("unsupported"), nonce, ciphertext)
		assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
	})

	t.Run("rejects empty nonce", func(t *testing.T) {
		_, err := EncodeBlob(AESGCM, nil, ciphertext)
		assert.ErrorIs(t, err, ErrInvalidData)
	})
}

func TestDecodeBlob(t *testing.T) {
	t.Run("rejects short blob", func(t *testing.T) {
		_, _, _, err := DecodeBlob([]byte{1, 1})
		assert.ErrorIs(t, err, ErrInvalidData)
	})

	t.Run("rejects unknown version", func(t *testing.T) {
		blob, err := EncodeBlob(AESGCM, make([]byte, 12), []byte("ct"))
		require.NoError(t, err)
		blob[0] = 99

		_, _, _, err = DecodeBlob(blob)
		assert.ErrorIs(t, err, ErrInvalidData)
	})

	t.Run("rejects unknown algorithm tag", func(t *testing.T) {
		blob, err := EncodeBlob(AESGCM, make([]byte, 12), []byte("ct"))
		require.NoError(t, err)
		blob[1] = 99

		_, _, _, err = DecodeBlob(blob)
		assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
	})

	t.Run("rejects truncated nonce", func(t *testing.T) {
		blob, err := EncodeBlob(AESGCM, make([]byte, 12), nil)
		require.NoError(t, err)

		_, _, _, err = DecodeBlob(blob[:blobHeaderSize+4])
		assert.ErrorIs(t, err, ErrInvalidData)
	})
}

func TestParseAlgorithm(t *testing.T) {
	alg, err := ParseAlgorithm("aes-gcm")
	require.NoError(t, err)
	assert.Equal(t, AESGCM, alg)

	alg, err = ParseAlgorithm("chacha20-poly1305")
	require.NoError(t, err)
	assert.Equal(t, ChaCha20, alg)

	_, err = ParseAlgorithm("rot13")
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
}

func TestSecretMap_Clone(t *testing.T) {
	original := SecretMap{"a": "1", "b": "2"}
	clone := original.Clone()

	clone["a"] = "changed"
	assert.Equal(t, "1", original["a"])
	assert.Len(t, clone, 2)
}

func TestZero(t *testing.T) {
	b := []byte{1, 2, 3}
	Zero(b)
	assert.Equal(t, []byte{0, 0, 0}, b)

	// Must not panic on nil.
	Zero(nil)
}
