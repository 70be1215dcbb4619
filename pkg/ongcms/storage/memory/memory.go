package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/vereda-ong/vereda-api/pkg/ongcms"
)

// Backend is an in-memory implementation of the ongcms.AttachmentStore
// interface, used in tests and development setups.
type Backend struct {
	mu      sync.RWMutex
	objects map[string]storedObject
}

type storedObject struct {
	data     []byte
	mimeType string
	folder   string
}

// New creates a new in-memory attachment store
func New() *Backend {
	return &Backend{objects: make(map[string]storedObject)}
}

// Upload stores data in memory under a generated key within folder.
func (b *Backend) Upload(ctx context.Context, data []byte, folder, mimeType string) (ongcms.Attachment, error) {
	key := folder + "/" + uuid.NewString()

	b.mu.Lock()
	defer b.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	b.objects[key] = storedObject{data: stored, mimeType: mimeType, folder: folder}

	return ongcms.Attachment{
		URL: fmt.Sprintf("memory://%s", key),
		ID:  key,
	}, nil
}

// Remove deletes an object by key.
func (b *Backend) Remove(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[id]; !exists {
		return errors.New("object not found")
	}
	delete(b.objects, id)
	return nil
}

// Exists reports whether an object is currently stored.
func (b *Backend) Exists(id string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, exists := b.objects[id]
	return exists
}

// Len returns the number of stored objects.
func (b *Backend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.objects)
}
