package registry

import "github.com/google/uuid"

// Request DTOs

// RegisterUserRequest contains parameters for registering a new user.
type RegisterUserRequest struct {
	Email    string
	Username string
	Password string
}

// CreateContentRequest contains parameters for creating a content item.
// For the text variant Body is required; for the file variant Blob is
// required and must describe an already-uploaded blob.
type CreateContentRequest struct {
	OwnerID uuid.UUID
	Title   string
	Type    ContentType
	Body    string
	Blob    *BlobDescriptor
}

// UpdateContentRequest contains parameters for updating a content item.
// Nil pointer fields were absent from the request; the variant rules decide
// which present fields are legal.
type UpdateContentRequest struct {
	ID          uuid.UUID
	RequesterID uuid.UUID
	Title       *string
	Body        *string
	Blob        *BlobDescriptor
}
