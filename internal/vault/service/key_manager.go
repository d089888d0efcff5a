package service

import (
	"crypto/rand"
	"os"
	"path/filepath"

	"github.com/varkeep/varkeep/internal/container"
	apperrors "github.com/varkeep/varkeep/internal/errors"
	"github.com/varkeep/varkeep/internal/fsutil"
	vaultDomain "github.com/varkeep/varkeep/internal/vault/domain"
)

// keyFileName is the canonical key location inside the shared container.
const keyFileName = "secrets.key"

// KeyManagerService implements the KeyManager interface over a raw key file.
//
// The key is 32 bytes of raw material persisted at a canonical location inside
// the shared container, created lazily on the first write to the shared tier.
// Exactly one key is active per container; the persisted blob is decryptable
// only with the exact key that produced it.
type KeyManagerService struct {
	resolver container.Resolver
}

// NewKeyManager creates a KeyManagerService storing its key inside the
// container supplied by resolver.
func NewKeyManager(resolver container.Resolver) *KeyManagerService {
	return &KeyManagerService{resolver: resolver}
}

// keyPath resolves the canonical key file location.
func (km *KeyManagerService) keyPath() (string, error) {
	dir, err := km.resolver.ContainerDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, keyFileName), nil
}

// GetOrCreateKey returns the persisted key material, generating and persisting
// a fresh 256-bit key when none is present or the stored material is not
// exactly 32 bytes. The key file is replaced atomically and readable only by
// the owning user.
func (km *KeyManagerService) GetOrCreateKey() ([]byte, error) {
	path, err := km.keyPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil && len(data) == vaultDomain.KeySize:
		return data, nil
	case err != nil && !os.IsNotExist(err):
		return nil, apperrors.Wrap(vaultDomain.ErrKeyUnavailable, err.Error())
	}

	key := make([]byte, vaultDomain.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, apperrors.Wrap(vaultDomain.ErrKeyCreationFailed, err.Error())
	}
	if err := fsutil.WriteFileAtomic(path, key, 0o600); err != nil {
		return nil, apperrors.Wrap(vaultDomain.ErrKeyCreationFailed, err.Error())
	}
	return key, nil
}

// Key returns the persisted key material without creating one.
func (km *KeyManagerService) Key() ([]byte, error) {
	path, err := km.keyPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, vaultDomain.ErrKeyUnavailable
		}
		return nil, apperrors.Wrap(vaultDomain.ErrKeyUnavailable, err.Error())
	}
	if len(data) != vaultDomain.KeySize {
		return nil, apperrors.Wrapf(vaultDomain.ErrKeyUnavailable, "key file holds %d bytes", len(data))
	}
	return data, nil
}

// HasKey reports whether usable key material exists at the canonical location.
// A file of the wrong size does not count as a key.
func (km *KeyManagerService) HasKey() bool {
	path, err := km.keyPath()
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Size() == vaultDomain.KeySize
}

// ResetKey deletes the persisted key material. Deleting an absent key is not
// an error. No migration of old ciphertext is performed.
func (km *KeyManagerService) ResetKey() error {
	path, err := km.keyPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return apperrors.Wrap(err, "failed to remove key file")
	}
	return nil
}
