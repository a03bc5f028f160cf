// Package memory provides an in-memory blob storage backend, useful for
// tests and development.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/tendant/content-workflow/pkg/contentworkflow"
)

// Backend is an in-memory implementation of the contentworkflow.BlobStore interface
type Backend struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// New creates a new in-memory storage backend
func New() contentworkflow.BlobStore {
	return &Backend{
		objects: make(map[string][]byte),
	}
}

// Upload stores the reader's bytes under the given object key
func (b *Backend) Upload(ctx context.Context, objectKey string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read upload data: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[objectKey] = data
	return nil
}

// Download returns a reader over the bytes stored under the given object key
func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[objectKey]
	if !exists {
		return nil, fmt.Errorf("object not found: %s", objectKey)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete removes the object stored under the given object key
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[objectKey]; !exists {
		return fmt.Errorf("object not found: %s", objectKey)
	}
	delete(b.objects, objectKey)
	return nil
}

// GetDownloadURL returns a pseudo-URL for the object. Memory objects are not
// addressable over the network; the URL is only useful for logging and tests.
func (b *Backend) GetDownloadURL(ctx context.Context, objectKey string, downloadFilename string) (string, error) {
	return fmt.Sprintf("memory://%s", objectKey), nil
}
