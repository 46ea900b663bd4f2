package registry

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// BlobStore is the interface to external object storage. Implementations
// live under storage/ (memory, fs, s3) and are interchangeable.
type BlobStore interface {
	// Upload stores the reader's bytes under key with the given MIME type.
	Upload(ctx context.Context, key string, r io.Reader, mimeType string) error

	// Download returns the stored bytes for key.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// URL resolves key to a URL clients can fetch.
	URL(ctx context.Context, key string) (string, error)

	// Delete removes the blob at key. Deleting a key that does not exist is
	// not an error. Deletion is not assumed to be synchronously visible to
	// subsequent reads of the same key.
	Delete(ctx context.Context, key string) error
}

// Repository defines persistence for users and content items. All operations
// are atomic at the single-record level; no multi-record transactions are
// assumed by the service.
type Repository interface {
	// User operations. CreateUser returns *DuplicateError when email or
	// username is already taken; lookups return ErrUserNotFound.
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)

	// Content operations. Lookups and whole-record updates/deletes return
	// ErrContentNotFound when no record exists. ListContentByOwner orders by
	// creation time descending.
	CreateContent(ctx context.Context, content *Content) error
	GetContent(ctx context.Context, id uuid.UUID) (*Content, error)
	UpdateContent(ctx context.Context, content *Content) error
	DeleteContent(ctx context.Context, id uuid.UUID) error
	ListContentByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Content, error)
}
