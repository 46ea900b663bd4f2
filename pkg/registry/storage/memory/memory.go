package memory

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/registrylabs/content-registry/pkg/registry"
)

// Backend is an in-memory implementation of the registry.BlobStore interface
type Backend struct {
	mu              sync.RWMutex
	objects         map[string][]byte
	objectsMimeType map[string]string
}

// New creates a new in-memory storage backend
func New() *Backend {
	return &Backend{
		objects:         make(map[string][]byte),
		objectsMimeType: make(map[string]string),
	}
}

// Upload stores the blob in memory
func (b *Backend) Upload(ctx context.Context, objectKey string, reader io.Reader, mimeType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return &registry.StorageError{Backend: "memory", Key: objectKey, Op: "upload", Err: err}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[objectKey] = data
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	b.objectsMimeType[objectKey] = mimeType
	return nil
}

// Download returns a reader over the stored blob
func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[objectKey]
	if !exists {
		return nil, &registry.StorageError{Backend: "memory", Key: objectKey, Op: "download", Err: errors.New("object not found")}
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

// URL returns a synthetic address for the blob. The memory backend serves
// nothing over HTTP; the value only has to be stable and distinct per key.
func (b *Backend) URL(ctx context.Context, objectKey string) (string, error) {
	return fmt.Sprintf("memory://%s", objectKey), nil
}

// Delete removes the blob. Deleting a missing key is a no-op.
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.objects, objectKey)
	delete(b.objectsMimeType, objectKey)
	return nil
}

// Exists reports whether a blob is stored under the key. Test helper.
func (b *Backend) Exists(objectKey string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, exists := b.objects[objectKey]
	return exists
}

// MimeType returns the stored mime type for a key. Test helper.
func (b *Backend) MimeType(objectKey string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.objectsMimeType[objectKey]
}
