package registry

import (
	"time"

	"github.com/google/uuid"
)

// ContentType is the variant tag of a content item. It is fixed at creation
// and never changes for the lifetime of the record.
type ContentType string

// Content variant constants.
const (
	ContentTypeText ContentType = "text"
	ContentTypeFile ContentType = "file"
)

// IsValid reports whether t is a known content variant.
func (t ContentType) IsValid() bool {
	return t == ContentTypeText || t == ContentTypeFile
}

// Validation limits.
const (
	MaxTitleLength    = 100
	MaxBodyLength     = 10000
	MinPasswordLength = 6
	MinUsernameLength = 3
	MaxUsernameLength = 30
)

// User is an account record. Email and username are globally unique. The
// password hash never appears in any outward-facing representation.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// PublicUser is the outward-facing view of a user.
type PublicUser struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Public returns the outward-facing view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// Content is a user-owned record representing either a text post or a single
// file upload. Exactly one of the variant field groups is populated, matching
// Type: Body for text items; FileKey/FileURL/FileName/FileMime/FileSize,
// always set together, for file items.
type Content struct {
	ID      uuid.UUID   `json:"id"`
	OwnerID uuid.UUID   `json:"user_id"`
	Type    ContentType `json:"type"`
	Title   string      `json:"title"`

	// Text variant.
	Body string `json:"content,omitempty"`

	// File variant. FileKey is the blob-store key and stays internal;
	// clients see the resolved FileURL.
	FileKey  string `json:"-"`
	FileURL  string `json:"file_url,omitempty"`
	FileName string `json:"file_name,omitempty"`
	FileMime string `json:"file_type,omitempty"`
	FileSize int64  `json:"file_size,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContentWithOwner pairs a content item with its owner's public identity.
type ContentWithOwner struct {
	Content
	Owner PublicUser `json:"owner"`
}

// BlobDescriptor identifies a blob that has already been uploaded to the
// blob store. The request boundary performs the upload and hands the
// descriptor to the service; the service trusts the blob to exist.
type BlobDescriptor struct {
	Key      string `json:"key"`
	URL      string `json:"url"`
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

// UserProfile is a user's public identity together with their content items,
// newest first.
type UserProfile struct {
	User     PublicUser `json:"user"`
	Contents []*Content `json:"contents"`
}
