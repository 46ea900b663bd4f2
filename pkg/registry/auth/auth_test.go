package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.True(t, CheckPassword(hash, "secret123"))
	assert.False(t, CheckPassword(hash, "wrongpass"))
	assert.False(t, CheckPassword("not-a-hash", "secret123"))
}

func TestTokenRoundTrip(t *testing.T) {
	ts := NewTokenService("test-secret", time.Hour)
	userID := uuid.New()

	tokenString, err := ts.Issue(userID)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	token, err := ts.JWTAuth().Decode(tokenString)
	require.NoError(t, err)

	claims, err := token.AsMap(context.Background())
	require.NoError(t, err)

	got, err := UserID(claims)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestTokenExpiry(t *testing.T) {
	ts := NewTokenService("test-secret", time.Hour)
	tokenString, err := ts.Issue(uuid.New())
	require.NoError(t, err)

	token, err := ts.JWTAuth().Decode(tokenString)
	require.NoError(t, err)

	exp := token.Expiration()
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)
}

func TestDefaultTTL(t *testing.T) {
	ts := NewTokenService("test-secret", 0)
	assert.Equal(t, DefaultTokenTTL, ts.ttl)
}

func TestUserIDClaim(t *testing.T) {
	t.Run("missing claim", func(t *testing.T) {
		_, err := UserID(map[string]interface{}{})
		assert.Error(t, err)
	})

	t.Run("malformed claim", func(t *testing.T) {
		_, err := UserID(map[string]interface{}{"user_id": "not-a-uuid"})
		assert.Error(t, err)
	})

	t.Run("non-string claim", func(t *testing.T) {
		_, err := UserID(map[string]interface{}{"user_id": 42})
		assert.Error(t, err)
	})
}
