package fs

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackend(t *testing.T) *Backend {
	t.Helper()

	b, err := New(Config{BaseDir: t.TempDir()})
	require.NoError(t, err)
	return b
}

func TestNewRequiresBaseDir(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestUploadDownload(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t)

	require.NoError(t, b.Upload(ctx, "uploads/ab/key_report.pdf", strings.NewReader("pdf-bytes"), "application/pdf"))

	rc, err := b.Download(ctx, "uploads/ab/key_report.pdf")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "pdf-bytes", string(data))
}

func TestUploadCreatesDirectories(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	b, err := New(Config{BaseDir: dir})
	require.NoError(t, err)

	require.NoError(t, b.Upload(ctx, "a/b/c/file.txt", strings.NewReader("x"), "text/plain"))

	_, err = os.Stat(filepath.Join(dir, "a", "b", "c", "file.txt"))
	assert.NoError(t, err)
}

func TestURLPrefix(t *testing.T) {
	ctx := context.Background()

	t.Run("default", func(t *testing.T) {
		b := newTestBackend(t)
		url, err := b.URL(ctx, "uploads/ab/key.png")
		require.NoError(t, err)
		assert.Equal(t, "/uploads/uploads/ab/key.png", url)
	})

	t.Run("custom", func(t *testing.T) {
		b, err := New(Config{BaseDir: t.TempDir(), URLPrefix: "/static/"})
		require.NoError(t, err)

		url, err := b.URL(ctx, "key.png")
		require.NoError(t, err)
		assert.Equal(t, "/static/key.png", url)
	})
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t)

	require.NoError(t, b.Upload(ctx, "k.txt", strings.NewReader("x"), "text/plain"))
	require.NoError(t, b.Delete(ctx, "k.txt"))

	_, err := b.Download(ctx, "k.txt")
	assert.Error(t, err)

	assert.NoError(t, b.Delete(ctx, "k.txt"))
	assert.NoError(t, b.Delete(ctx, "never-existed"))
}

func TestRejectsPathEscape(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t)

	err := b.Upload(ctx, "../outside.txt", strings.NewReader("x"), "text/plain")
	assert.Error(t, err)

	_, err = b.Download(ctx, "../../etc/passwd")
	assert.Error(t, err)
}
