package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/registrylabs/content-registry/pkg/registry/auth"
)

// service implements the Service interface
type service struct {
	repository Repository
	blobStore  BlobStore
	logger     *slog.Logger
	now        func() time.Time
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithBlobStore sets the blob store for the service
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.blobStore = store
	}
}

// WithLogger sets the logger used for cleanup failures
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		logger: slog.Default(),
		now:    func() time.Time { return time.Now().UTC() },
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.blobStore == nil {
		return nil, fmt.Errorf("blob store is required")
	}

	return s, nil
}

// User operations

func (s *service) RegisterUser(ctx context.Context, req RegisterUserRequest) (*User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)

	if err := ValidateRegistration(req); err != nil {
		return nil, err
	}

	// Pre-check mirrors the repository's unique constraints so the caller
	// gets a field-specific message; the insert below still enforces them.
	// Two concurrent registrations with the same email are not serialized
	// here (accepted limitation; postgres closes the race at the constraint).
	if _, err := s.repository.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, &DuplicateError{Field: "Email"}
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	if _, err := s.repository.GetUserByUsername(ctx, req.Username); err == nil {
		return nil, &DuplicateError{Field: "Username"}
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}

	if err := s.repository.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *service) AuthenticateUser(ctx context.Context, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repository.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repository.GetUser(ctx, id)
}

func (s *service) GetUserProfile(ctx context.Context, username string) (*UserProfile, error) {
	user, err := s.repository.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}

	contents, err := s.repository.ListContentByOwner(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &UserProfile{User: user.Public(), Contents: contents}, nil
}

// Content operations

func (s *service) CreateContent(ctx context.Context, req CreateContentRequest) (*Content, error) {
	content, err := s.createContent(ctx, req)
	if req.Blob != nil {
		// The blob was uploaded upstream before this call. Whether the
		// create failed or succeeded without referencing it (a text post
		// with a stray attachment), no record points at it and it would
		// dangle.
		if err != nil || content.FileKey != req.Blob.Key {
			s.discardBlob(ctx, req.Blob.Key)
		}
	}
	return content, err
}

func (s *service) createContent(ctx context.Context, req CreateContentRequest) (*Content, error) {
	if err := ValidateTitle(req.Title); err != nil {
		return nil, err
	}

	switch req.Type {
	case ContentTypeText:
		if strings.TrimSpace(req.Body) == "" {
			return nil, &ValidationError{Field: "content", Message: "Content is required for text posts"}
		}
		if err := ValidateBody(req.Body); err != nil {
			return nil, err
		}
	case ContentTypeFile:
		if req.Blob == nil {
			return nil, &ValidationError{Field: "file", Message: "Invalid content type or missing file"}
		}
	default:
		return nil, &ValidationError{Field: "type", Message: "Invalid content type or missing file"}
	}

	// Referential integrity is checked at write time only.
	if _, err := s.repository.GetUser(ctx, req.OwnerID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, &ValidationError{Field: "user_id", Message: "Owner does not exist"}
		}
		return nil, err
	}

	now := s.now()
	content := &Content{
		ID:        uuid.New(),
		OwnerID:   req.OwnerID,
		Type:      req.Type,
		Title:     strings.TrimSpace(req.Title),
		CreatedAt: now,
		UpdatedAt: now,
	}

	switch req.Type {
	case ContentTypeText:
		content.Body = req.Body
	case ContentTypeFile:
		content.FileKey = req.Blob.Key
		content.FileURL = req.Blob.URL
		content.FileName = req.Blob.FileName
		content.FileMime = req.Blob.MimeType
		content.FileSize = req.Blob.Size
	}

	if err := s.repository.CreateContent(ctx, content); err != nil {
		return nil, err
	}

	return content, nil
}

func (s *service) GetContent(ctx context.Context, id uuid.UUID) (*Content, error) {
	return s.repository.GetContent(ctx, id)
}

func (s *service) GetContentWithOwner(ctx context.Context, id uuid.UUID) (*ContentWithOwner, error) {
	content, err := s.repository.GetContent(ctx, id)
	if err != nil {
		return nil, err
	}

	owner, err := s.repository.GetUser(ctx, content.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("owner lookup for content %s: %w", id, err)
	}

	return &ContentWithOwner{Content: *content, Owner: owner.Public()}, nil
}

func (s *service) ListContentByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Content, error) {
	return s.repository.ListContentByOwner(ctx, ownerID)
}

func (s *service) UpdateContent(ctx context.Context, req UpdateContentRequest) (*Content, error) {
	updated, err := s.updateContent(ctx, req)
	if err != nil && req.Blob != nil {
		// Replacement blob was uploaded upstream; the failing update leaves
		// it unreferenced.
		s.discardBlob(ctx, req.Blob.Key)
	}
	return updated, err
}

func (s *service) updateContent(ctx context.Context, req UpdateContentRequest) (*Content, error) {
	existing, err := s.repository.GetContent(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if existing.OwnerID != req.RequesterID {
		return nil, ErrNotOwner
	}

	next := *existing
	changed := false

	// A blank title in a partial update means leave the title alone.
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		req.Title = nil
	}
	if req.Title != nil {
		if err := ValidateTitle(*req.Title); err != nil {
			return nil, err
		}
		next.Title = strings.TrimSpace(*req.Title)
		changed = true
	}

	var replacedKey string

	switch existing.Type {
	case ContentTypeText:
		if req.Blob != nil {
			return nil, &ValidationError{Field: "file", Message: "Cannot upload file to a text post. Create a new file post instead."}
		}
		if req.Body != nil {
			if strings.TrimSpace(*req.Body) == "" {
				return nil, &ValidationError{Field: "content", Message: "Content cannot be empty for text posts"}
			}
			if err := ValidateBody(*req.Body); err != nil {
				return nil, err
			}
			next.Body = *req.Body
			changed = true
		}
	case ContentTypeFile:
		if req.Body != nil {
			return nil, &ValidationError{Field: "content", Message: "Cannot update text content on a file post. Create a new text post instead."}
		}
		if req.Blob != nil {
			// Blob reference, URL, filename, type, and size are replaced as
			// one group.
			replacedKey = existing.FileKey
			next.FileKey = req.Blob.Key
			next.FileURL = req.Blob.URL
			next.FileName = req.Blob.FileName
			next.FileMime = req.Blob.MimeType
			next.FileSize = req.Blob.Size
			changed = true
		}
	}

	if !changed {
		return nil, &ValidationError{Message: "No valid fields to update"}
	}

	next.UpdatedAt = s.now()

	if err := s.repository.UpdateContent(ctx, &next); err != nil {
		return nil, err
	}

	// The record now points at the new blob; the old one is unreferenced
	// whether this delete succeeds or not.
	if replacedKey != "" && replacedKey != next.FileKey {
		s.discardBlob(ctx, replacedKey)
	}

	return &next, nil
}

func (s *service) DeleteContent(ctx context.Context, id, requesterID uuid.UUID) error {
	existing, err := s.repository.GetContent(ctx, id)
	if err != nil {
		return err
	}

	if existing.OwnerID != requesterID {
		return ErrNotOwner
	}

	// Blob first, record second, and the record delete proceeds regardless:
	// an orphaned blob costs storage, an orphaned record costs correctness.
	if existing.Type == ContentTypeFile && existing.FileKey != "" {
		s.discardBlob(ctx, existing.FileKey)
	}

	return s.repository.DeleteContent(ctx, id)
}

// discardBlob removes a blob that has no record pointing at it (or is about
// to lose the one it had). Failures are logged, never escalated.
func (s *service) discardBlob(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.blobStore.Delete(ctx, key); err != nil {
		s.logger.Error("blob cleanup failed", "key", key, "error", err)
	}
}
