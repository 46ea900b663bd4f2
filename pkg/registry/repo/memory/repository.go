package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/registrylabs/content-registry/pkg/registry"
)

// Repository implements registry.Repository using in-memory storage
type Repository struct {
	mu           sync.RWMutex
	users        map[uuid.UUID]*registry.User
	usersByEmail map[string]uuid.UUID
	usersByName  map[string]uuid.UUID
	contents     map[uuid.UUID]*registry.Content
}

// New creates a new in-memory repository
func New() registry.Repository {
	return &Repository{
		users:        make(map[uuid.UUID]*registry.User),
		usersByEmail: make(map[string]uuid.UUID),
		usersByName:  make(map[string]uuid.UUID),
		contents:     make(map[uuid.UUID]*registry.Content),
	}
}

// User operations

func (r *Repository) CreateUser(ctx context.Context, user *registry.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Email checked before username, matching the postgres constraint order.
	if _, exists := r.usersByEmail[strings.ToLower(user.Email)]; exists {
		return &registry.DuplicateError{Field: "Email"}
	}
	if _, exists := r.usersByName[user.Username]; exists {
		return &registry.DuplicateError{Field: "Username"}
	}

	// Store a copy to avoid external modifications
	userCopy := *user
	r.users[user.ID] = &userCopy
	r.usersByEmail[strings.ToLower(user.Email)] = user.ID
	r.usersByName[user.Username] = user.ID

	return nil
}

func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*registry.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[id]
	if !exists {
		return nil, registry.ErrUserNotFound
	}

	userCopy := *user
	return &userCopy, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*registry.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.usersByEmail[strings.ToLower(email)]
	if !exists {
		return nil, registry.ErrUserNotFound
	}

	userCopy := *r.users[id]
	return &userCopy, nil
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*registry.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.usersByName[username]
	if !exists {
		return nil, registry.ErrUserNotFound
	}

	userCopy := *r.users[id]
	return &userCopy, nil
}

// Content operations

func (r *Repository) CreateContent(ctx context.Context, content *registry.Content) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	contentCopy := *content
	r.contents[content.ID] = &contentCopy

	return nil
}

func (r *Repository) GetContent(ctx context.Context, id uuid.UUID) (*registry.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	content, exists := r.contents[id]
	if !exists {
		return nil, registry.ErrContentNotFound
	}

	contentCopy := *content
	return &contentCopy, nil
}

func (r *Repository) UpdateContent(ctx context.Context, content *registry.Content) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contents[content.ID]; !exists {
		return registry.ErrContentNotFound
	}

	contentCopy := *content
	r.contents[content.ID] = &contentCopy

	return nil
}

func (r *Repository) DeleteContent(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contents[id]; !exists {
		return registry.ErrContentNotFound
	}

	delete(r.contents, id)
	return nil
}

func (r *Repository) ListContentByOwner(ctx context.Context, ownerID uuid.UUID) ([]*registry.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*registry.Content
	for _, content := range r.contents {
		if content.OwnerID == ownerID {
			contentCopy := *content
			result = append(result, &contentCopy)
		}
	}

	// Newest first
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}
