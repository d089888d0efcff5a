package usecase

import (
	"context"
	"sync"

	"github.com/google/uuid"

	apperrors "github.com/varkeep/varkeep/internal/errors"
	vaultDomain "github.com/varkeep/varkeep/internal/vault/domain"
)

// fakeBackend is an in-memory Backend with per-operation fault injection.
type fakeBackend struct {
	mu    sync.Mutex
	items map[string]string

	saveErr     error
	retrieveErr error
	deleteErr   error
	existsErr   error

	saveCalls   int
	deleteCalls int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{items: make(map[string]string)}
}

func (f *fakeBackend) Save(_ context.Context, id uuid.UUID, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveCalls++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.items[id.String()] = value
	return nil
}

func (f *fakeBackend) Retrieve(_ context.Context, id uuid.UUID) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.retrieveErr != nil {
		return "", f.retrieveErr
	}
	value, ok := f.items[id.String()]
	if !ok {
		return "", apperrors.Wrapf(apperrors.ErrNotFound, "item %s", id)
	}
	return value, nil
}

func (f *fakeBackend) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.items, id.String())
	return nil
}

func (f *fakeBackend) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.items[id.String()]
	return ok, nil
}

func (f *fakeBackend) set(id uuid.UUID, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[id.String()] = value
}

func (f *fakeBackend) get(id uuid.UUID) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.items[id.String()]
	return value, ok
}

// fakeSharedStore extends fakeBackend with the shared-store surface.
type fakeSharedStore struct {
	fakeBackend

	saveAllErr error
	allIDsErr  error
	blobErr    error
	removeErr  error

	saveAllCalls int
	blobPresent  bool
}

func newFakeSharedStore() *fakeSharedStore {
	return &fakeSharedStore{fakeBackend: fakeBackend{items: make(map[string]string)}}
}

func (f *fakeSharedStore) SaveAll(_ context.Context, values vaultDomain.SecretMap) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveAllCalls++
	if f.saveAllErr != nil {
		return f.saveAllErr
	}
	for id, value := range values {
		f.items[id] = value
	}
	return nil
}

func (f *fakeSharedStore) AllIDs(_ context.Context) (map[string]struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.allIDsErr != nil {
		return nil, f.allIDsErr
	}
	ids := make(map[string]struct{}, len(f.items))
	for id := range f.items {
		ids[id] = struct{}{}
	}
	return ids, nil
}

func (f *fakeSharedStore) BlobExists() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.blobErr != nil {
		return false, f.blobErr
	}
	return f.blobPresent, nil
}

func (f *fakeSharedStore) RemoveBlob() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.removeErr != nil {
		return f.removeErr
	}
	f.blobPresent = false
	f.items = make(map[string]string)
	return nil
}

// fakeKeyManager tracks key presence for legacy-state tests.
type fakeKeyManager struct {
	hasKey      bool
	resetErr    error
	resetCalled bool
}

func (f *fakeKeyManager) HasKey() bool { return f.hasKey }

func (f *fakeKeyManager) ResetKey() error {
	f.resetCalled = true
	if f.resetErr != nil {
		return f.resetErr
	}
	f.hasKey = false
	return nil
}
