package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/varkeep/varkeep/internal/container"
	apperrors "github.com/varkeep/varkeep/internal/errors"
	"github.com/varkeep/varkeep/internal/fsutil"
	vaultDomain "github.com/varkeep/varkeep/internal/vault/domain"
	vaultService "github.com/varkeep/varkeep/internal/vault/service"
)

// blobFileName is the well-known blob location inside the shared container.
const blobFileName = "secrets.vault"

// SharedStore holds the full secret map as one encrypted blob inside the
// shared container, readable and writable by multiple cooperating processes.
//
// Every read materializes the decrypted map from an in-memory cache, loading
// and decrypting the blob on first access. Every write runs a full
// load-mutate-encode-encrypt cycle and replaces the blob atomically, then
// swaps the cache. All public operations execute under a single mutex, so a
// full cycle is atomic relative to other callers of the same instance.
//
// There is no OS-level locking across processes: concurrent external writers
// race at the file level and last-writer-wins applies. Callers that suspect
// external mutation must ClearCache before trusting in-memory state.
//
// A decryption failure is surfaced as ErrDecryptionFailed and never retried or
// silently recovered; recovery requires an explicit, caller-initiated reset.
type SharedStore struct {
	mu        sync.Mutex
	resolver  container.Resolver
	keys      vaultService.KeyManager
	ciphers   vaultService.AEADManager
	algorithm vaultDomain.Algorithm

	// cache is the decrypted secret map; nil means not loaded yet.
	cache vaultDomain.SecretMap
}

// NewSharedStore creates a SharedStore persisting its blob inside the
// container supplied by resolver, encrypting with the given algorithm under
// the key owned by keys.
func NewSharedStore(
	resolver container.Resolver,
	keys vaultService.KeyManager,
	ciphers vaultService.AEADManager,
	algorithm vaultDomain.Algorithm,
) *SharedStore {
	return &SharedStore{
		resolver:  resolver,
		keys:      keys,
		ciphers:   ciphers,
		algorithm: algorithm,
	}
}

// blobPath resolves the well-known blob location.
func (s *SharedStore) blobPath() (string, error) {
	dir, err := s.resolver.ContainerDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, blobFileName), nil
}

// load returns the decrypted secret map, populating the cache on first use.
// Callers must hold s.mu.
func (s *SharedStore) load() (vaultDomain.SecretMap, error) {
	if s.cache != nil {
		return s.cache, nil
	}

	path, err := s.blobPath()
	if err != nil {
		return nil, err
	}

	blob, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// No blob yet: the shared tier is empty. No key is touched, the
			// key is created lazily on the first write.
			s.cache = vaultDomain.SecretMap{}
			return s.cache, nil
		}
		return nil, apperrors.Wrap(err, "failed to read shared blob")
	}

	// A blob without a resolvable key is the legacy state; never create a
	// fresh key here, it could not decrypt the existing blob and would defeat
	// legacy-state detection.
	key, err := s.keys.Key()
	if err != nil {
		return nil, err
	}

	// A blob that no longer frames correctly is corrupt; report it the same
	// way as a failed authentication so corruption is never masked.
	alg, nonce, ciphertext, err := vaultDomain.DecodeBlob(blob)
	if err != nil {
		return nil, apperrors.Wrap(vaultDomain.ErrDecryptionFailed, err.Error())
	}

	cipher, err := s.ciphers.CreateCipher(key, alg)
	if err != nil {
		return nil, err
	}

	plaintext, err := cipher.Decrypt(ciphertext, nonce, nil)
	if err != nil {
		return nil, apperrors.Wrap(vaultDomain.ErrDecryptionFailed, err.Error())
	}
	defer vaultDomain.Zero(plaintext)

	var secrets vaultDomain.SecretMap
	if err := json.Unmarshal(plaintext, &secrets); err != nil {
		return nil, apperrors.Wrap(vaultDomain.ErrInvalidData, err.Error())
	}
	if secrets == nil {
		secrets = vaultDomain.SecretMap{}
	}

	s.cache = secrets
	return s.cache, nil
}

// persist encrypts the given map under a freshly generated nonce, replaces the
// blob atomically, and swaps the cache. Callers must hold s.mu.
func (s *SharedStore) persist(secrets vaultDomain.SecretMap) error {
	path, err := s.blobPath()
	if err != nil {
		return err
	}

	key, err := s.keys.GetOrCreateKey()
	if err != nil {
		return err
	}

	payload, err := json.Marshal(secrets)
	if err != nil {
		return apperrors.Wrap(vaultDomain.ErrInvalidData, err.Error())
	}
	defer vaultDomain.Zero(payload)

	cipher, err := s.ciphers.CreateCipher(key, s.algorithm)
	if err != nil {
		return err
	}

	ciphertext, nonce, err := cipher.Encrypt(payload, nil)
	if err != nil {
		return apperrors.Wrap(vaultDomain.ErrEncryptionFailed, err.Error())
	}

	blob, err := vaultDomain.EncodeBlob(s.algorithm, nonce, ciphertext)
	if err != nil {
		return err
	}

	if err := fsutil.WriteFileAtomic(path, blob, 0o600); err != nil {
		return apperrors.Wrap(err, "failed to write shared blob")
	}

	s.cache = secrets
	return nil
}

// Save stores value under id, overwriting any existing entry.
func (s *SharedStore) Save(_ context.Context, id uuid.UUID, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	secrets, err := s.load()
	if err != nil {
		return err
	}

	next := secrets.Clone()
	next[id.String()] = value
	return s.persist(next)
}

// Retrieve returns the value stored under id, or ErrNotFound when absent.
func (s *SharedStore) Retrieve(_ context.Context, id uuid.UUID) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	secrets, err := s.load()
	if err != nil {
		return "", err
	}

	value, ok := secrets[id.String()]
	if !ok {
		return "", apperrors.Wrapf(apperrors.ErrNotFound, "shared secret %s", id)
	}
	return value, nil
}

// Delete removes the entry for id. Deleting an absent entry is not an error
// and does not rewrite the blob.
func (s *SharedStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	secrets, err := s.load()
	if err != nil {
		return err
	}

	if _, ok := secrets[id.String()]; !ok {
		return nil
	}

	next := secrets.Clone()
	delete(next, id.String())
	return s.persist(next)
}

// Exists reports whether an entry for id is present.
func (s *SharedStore) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	secrets, err := s.load()
	if err != nil {
		return false, err
	}

	_, ok := secrets[id.String()]
	return ok, nil
}

// SaveAll merges the given id-to-value pairs into the store in a single
// load-encrypt-write cycle. An empty input is a no-op.
func (s *SharedStore) SaveAll(_ context.Context, values vaultDomain.SecretMap) error {
	if len(values) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	secrets, err := s.load()
	if err != nil {
		return err
	}

	next := secrets.Clone()
	for id, value := range values {
		next[id] = value
	}
	return s.persist(next)
}

// AllIDs returns the set of secret-id strings currently present.
func (s *SharedStore) AllIDs(_ context.Context) (map[string]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	secrets, err := s.load()
	if err != nil {
		return nil, err
	}
	return secrets.IDs(), nil
}

// ClearCache forces the next read to re-derive the map from disk. Used after
// external processes may have mutated the blob.
func (s *SharedStore) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = nil
}

// BlobExists reports whether the blob file is present on disk.
func (s *SharedStore) BlobExists() (bool, error) {
	path, err := s.blobPath()
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, apperrors.Wrap(err, "failed to stat shared blob")
	}
	return true, nil
}

// RemoveBlob deletes the blob file and clears the cache. Removing an absent
// blob is not an error.
func (s *SharedStore) RemoveBlob() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.blobPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return apperrors.Wrap(err, "failed to remove shared blob")
	}
	s.cache = nil
	return nil
}
