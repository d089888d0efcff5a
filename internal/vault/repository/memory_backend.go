package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	apperrors "github.com/varkeep/varkeep/internal/errors"
)

// MemoryBackend is an in-process Backend used by tests and by environments
// without a platform secure item store. Contents do not survive the process.
type MemoryBackend struct {
	mu    sync.Mutex
	items map[uuid.UUID]string
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{items: make(map[uuid.UUID]string)}
}

// Save stores value under id, overwriting any existing entry.
func (b *MemoryBackend) Save(_ context.Context, id uuid.UUID, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items[id] = value
	return nil
}

// Retrieve returns the value stored under id, or ErrNotFound when absent.
func (b *MemoryBackend) Retrieve(_ context.Context, id uuid.UUID) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	value, ok := b.items[id]
	if !ok {
		return "", apperrors.Wrapf(apperrors.ErrNotFound, "item %s", id)
	}
	return value, nil
}

// Delete removes the entry for id. Deleting an absent entry is not an error.
func (b *MemoryBackend) Delete(_ context.Context, id uuid.UUID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.items, id)
	return nil
}

// Exists reports whether an entry for id is present.
func (b *MemoryBackend) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.items[id]
	return ok, nil
}

// Len returns the number of stored entries.
func (b *MemoryBackend) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}
