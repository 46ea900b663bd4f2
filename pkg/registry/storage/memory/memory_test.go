package memory

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadDownload(t *testing.T) {
	ctx := context.Background()
	b := New()

	require.NoError(t, b.Upload(ctx, "uploads/ab/key", strings.NewReader("hello"), "text/plain"))

	rc, err := b.Download(ctx, "uploads/ab/key")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.Equal(t, "text/plain", b.MimeType("uploads/ab/key"))
}

func TestUploadDefaultsMimeType(t *testing.T) {
	ctx := context.Background()
	b := New()

	require.NoError(t, b.Upload(ctx, "k", strings.NewReader("x"), ""))
	assert.Equal(t, "application/octet-stream", b.MimeType("k"))
}

func TestDownloadMissing(t *testing.T) {
	b := New()
	_, err := b.Download(context.Background(), "missing")
	assert.Error(t, err)
}

func TestURL(t *testing.T) {
	b := New()
	url, err := b.URL(context.Background(), "uploads/ab/key")
	require.NoError(t, err)
	assert.Equal(t, "memory://uploads/ab/key", url)
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	b := New()

	require.NoError(t, b.Upload(ctx, "k", strings.NewReader("x"), "text/plain"))
	require.NoError(t, b.Delete(ctx, "k"))
	assert.False(t, b.Exists("k"))

	// Second delete of the same key succeeds too.
	assert.NoError(t, b.Delete(ctx, "k"))
	assert.NoError(t, b.Delete(ctx, "never-existed"))
}
