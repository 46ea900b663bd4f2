package registry

import (
	"context"

	"github.com/google/uuid"
)

// Service is the content lifecycle manager. It enforces variant rules,
// ownership checks, and best-effort cleanup of orphaned blobs.
type Service interface {
	// User operations
	RegisterUser(ctx context.Context, req RegisterUserRequest) (*User, error)
	AuthenticateUser(ctx context.Context, email, password string) (*User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserProfile(ctx context.Context, username string) (*UserProfile, error)

	// Content operations
	CreateContent(ctx context.Context, req CreateContentRequest) (*Content, error)
	GetContent(ctx context.Context, id uuid.UUID) (*Content, error)
	GetContentWithOwner(ctx context.Context, id uuid.UUID) (*ContentWithOwner, error)
	ListContentByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Content, error)
	UpdateContent(ctx context.Context, req UpdateContentRequest) (*Content, error)
	DeleteContent(ctx context.Context, id, requesterID uuid.UUID) error
}
