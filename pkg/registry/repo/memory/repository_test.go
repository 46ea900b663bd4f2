package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/registrylabs/content-registry/pkg/registry"
)

func newUser(email, username string) *registry.User {
	return &registry.User{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC(),
	}
}

func newContent(ownerID uuid.UUID, title string, createdAt time.Time) *registry.Content {
	return &registry.Content{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Type:      registry.ContentTypeText,
		Title:     title,
		Body:      "body",
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestUserCRUD(t *testing.T) {
	ctx := context.Background()
	repo := New()

	user := newUser("alice@example.com", "alice")
	require.NoError(t, repo.CreateUser(ctx, user))

	t.Run("get by id", func(t *testing.T) {
		got, err := repo.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Email, got.Email)
	})

	t.Run("get by email is case-insensitive", func(t *testing.T) {
		got, err := repo.GetUserByEmail(ctx, "ALICE@Example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("get by username", func(t *testing.T) {
		got, err := repo.GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := repo.GetUser(ctx, uuid.New())
		assert.ErrorIs(t, err, registry.ErrUserNotFound)

		_, err = repo.GetUserByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, registry.ErrUserNotFound)

		_, err = repo.GetUserByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, registry.ErrUserNotFound)
	})

	t.Run("duplicate email", func(t *testing.T) {
		err := repo.CreateUser(ctx, newUser("alice@example.com", "other"))
		var dup *registry.DuplicateError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "Email", dup.Field)
	})

	t.Run("duplicate username", func(t *testing.T) {
		err := repo.CreateUser(ctx, newUser("other@example.com", "alice"))
		var dup *registry.DuplicateError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "Username", dup.Field)
	})

	t.Run("email wins when both collide", func(t *testing.T) {
		err := repo.CreateUser(ctx, newUser("alice@example.com", "alice"))
		var dup *registry.DuplicateError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "Email", dup.Field)
	})

	t.Run("returns copies", func(t *testing.T) {
		got, err := repo.GetUser(ctx, user.ID)
		require.NoError(t, err)
		got.Email = "mutated@example.com"

		again, err := repo.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", again.Email)
	})
}

func TestContentCRUD(t *testing.T) {
	ctx := context.Background()
	repo := New()
	ownerID := uuid.New()

	content := newContent(ownerID, "Post", time.Now().UTC())
	require.NoError(t, repo.CreateContent(ctx, content))

	t.Run("get", func(t *testing.T) {
		got, err := repo.GetContent(ctx, content.ID)
		require.NoError(t, err)
		assert.Equal(t, "Post", got.Title)
	})

	t.Run("update", func(t *testing.T) {
		updated := *content
		updated.Title = "Renamed"
		require.NoError(t, repo.UpdateContent(ctx, &updated))

		got, err := repo.GetContent(ctx, content.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Title)
	})

	t.Run("update missing", func(t *testing.T) {
		missing := newContent(ownerID, "Ghost", time.Now().UTC())
		assert.ErrorIs(t, repo.UpdateContent(ctx, missing), registry.ErrContentNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		victim := newContent(ownerID, "Victim", time.Now().UTC())
		require.NoError(t, repo.CreateContent(ctx, victim))
		require.NoError(t, repo.DeleteContent(ctx, victim.ID))

		_, err := repo.GetContent(ctx, victim.ID)
		assert.ErrorIs(t, err, registry.ErrContentNotFound)

		// Hard delete: a second attempt finds nothing.
		assert.ErrorIs(t, repo.DeleteContent(ctx, victim.ID), registry.ErrContentNotFound)
	})
}

func TestListContentByOwnerOrdering(t *testing.T) {
	ctx := context.Background()
	repo := New()
	ownerID := uuid.New()
	otherID := uuid.New()

	base := time.Now().UTC()
	oldest := newContent(ownerID, "oldest", base.Add(-2*time.Hour))
	middle := newContent(ownerID, "middle", base.Add(-time.Hour))
	newest := newContent(ownerID, "newest", base)
	other := newContent(otherID, "other", base)

	for _, c := range []*registry.Content{middle, oldest, newest, other} {
		require.NoError(t, repo.CreateContent(ctx, c))
	}

	contents, err := repo.ListContentByOwner(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, contents, 3)
	assert.Equal(t, "newest", contents[0].Title)
	assert.Equal(t, "middle", contents[1].Title)
	assert.Equal(t, "oldest", contents[2].Title)

	empty, err := repo.ListContentByOwner(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, empty)
}
