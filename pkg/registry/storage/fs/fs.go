package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/registrylabs/content-registry/pkg/registry"
)

// Backend is a filesystem implementation of the registry.BlobStore interface
type Backend struct {
	baseDir   string
	urlPrefix string
}

// Config options for the filesystem backend
type Config struct {
	BaseDir   string // Base directory for storing files
	URLPrefix string // URL prefix under which BaseDir is served (default: "/uploads")
}

// New creates a new filesystem storage backend
func New(config Config) (*Backend, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}
	if config.URLPrefix == "" {
		config.URLPrefix = "/uploads"
	}

	if err := os.MkdirAll(config.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Backend{
		baseDir:   config.BaseDir,
		urlPrefix: strings.TrimSuffix(config.URLPrefix, "/"),
	}, nil
}

// Upload writes the blob to the filesystem, creating parent directories
// as needed
func (b *Backend) Upload(ctx context.Context, objectKey string, reader io.Reader, mimeType string) error {
	filePath, err := b.resolve(objectKey)
	if err != nil {
		return &registry.StorageError{Backend: "fs", Key: objectKey, Op: "upload", Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return &registry.StorageError{Backend: "fs", Key: objectKey, Op: "upload", Err: err}
	}

	file, err := os.Create(filePath)
	if err != nil {
		return &registry.StorageError{Backend: "fs", Key: objectKey, Op: "upload", Err: err}
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return &registry.StorageError{Backend: "fs", Key: objectKey, Op: "upload", Err: err}
	}

	return nil
}

// Download opens the stored blob for reading
func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	filePath, err := b.resolve(objectKey)
	if err != nil {
		return nil, &registry.StorageError{Backend: "fs", Key: objectKey, Op: "download", Err: err}
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, &registry.StorageError{Backend: "fs", Key: objectKey, Op: "download", Err: err}
	}

	return file, nil
}

// URL returns the path at which the blob is served
func (b *Backend) URL(ctx context.Context, objectKey string) (string, error) {
	return fmt.Sprintf("%s/%s", b.urlPrefix, objectKey), nil
}

// Delete removes the blob. Deleting a missing key is a no-op.
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	filePath, err := b.resolve(objectKey)
	if err != nil {
		return &registry.StorageError{Backend: "fs", Key: objectKey, Op: "delete", Err: err}
	}

	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return &registry.StorageError{Backend: "fs", Key: objectKey, Op: "delete", Err: err}
	}

	return nil
}

// resolve maps an object key onto the base directory, rejecting keys that
// would escape it.
func (b *Backend) resolve(objectKey string) (string, error) {
	filePath := filepath.Join(b.baseDir, filepath.FromSlash(objectKey))
	rel, err := filepath.Rel(b.baseDir, filePath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid object key %q", objectKey)
	}
	return filePath, nil
}
