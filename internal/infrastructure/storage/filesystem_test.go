package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lababil/pos/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileSystemStorage(t *testing.T) (*FileSystemStorage, string) {
	t.Helper()
	dir := t.TempDir()
	storage, err := NewFileSystemStorage(FileSystemStorageConfig{BasePath: dir})
	require.NoError(t, err)
	return storage, dir
}

func TestNewFileSystemStorage(t *testing.T) {
	t.Run("defaults the base URL", func(t *testing.T) {
		storage, dir := newTestFileSystemStorage(t)
		assert.Equal(t, dir, storage.basePath)
		assert.Equal(t, "/api/v1/receipts/archive", storage.baseURL)
	})

	t.Run("creates the base directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "receipts")
		_, err := NewFileSystemStorage(FileSystemStorageConfig{BasePath: dir, BaseURL: "/files/"})
		require.NoError(t, err)

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})
}

func TestFileSystemStorage_UploadAndOpen(t *testing.T) {
	ctx := context.Background()
	storage, dir := newTestFileSystemStorage(t)
	key := "receipts/22092025/0001.pdf"

	require.NoError(t, storage.Upload(ctx, key, []byte("%PDF-1.4 first"), "application/pdf"))
	require.NoError(t, storage.Upload(ctx, key, []byte("%PDF-1.4 second"), "application/pdf"))

	_, err := os.Stat(filepath.Join(dir, "receipts", "22092025", "0001.pdf"))
	require.NoError(t, err)

	rc, err := storage.Open(ctx, key)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 second", string(data), "uploads replace the previous file")

	entries, err := os.ReadDir(filepath.Join(dir, "receipts", "22092025"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files are left behind")
}

func TestFileSystemStorage_Open(t *testing.T) {
	ctx := context.Background()
	storage, _ := newTestFileSystemStorage(t)

	t.Run("missing file", func(t *testing.T) {
		_, err := storage.Open(ctx, "receipts/01012025/0009.pdf")
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := storage.Open(cancelled, "receipts/01012025/0001.pdf")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestFileSystemStorage_RejectsEscapingKeys(t *testing.T) {
	ctx := context.Background()
	storage, _ := newTestFileSystemStorage(t)

	for _, key := range []string{
		"../etc/passwd",
		"receipts/../../secret.pdf",
		"/etc/passwd",
		".",
	} {
		t.Run(key, func(t *testing.T) {
			_, err := storage.Open(ctx, key)
			assert.ErrorIs(t, err, ErrInvalidPath)

			err = storage.Upload(ctx, key, []byte("x"), "text/plain")
			assert.ErrorIs(t, err, ErrInvalidPath)
		})
	}

	t.Run("empty key", func(t *testing.T) {
		_, err := storage.Open(ctx, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage key is required")
	})
}

func TestFileSystemStorage_GenerateDownloadURL(t *testing.T) {
	storage, err := NewFileSystemStorage(FileSystemStorageConfig{
		BasePath: t.TempDir(),
		BaseURL:  "https://pos.example.com/api/v1/receipts/archive/",
	})
	require.NoError(t, err)

	url, expiresAt, err := storage.GenerateDownloadURL(context.Background(), "receipts/22092025/0001.pdf", time.Hour)

	require.NoError(t, err)
	assert.Equal(t, "https://pos.example.com/api/v1/receipts/archive/receipts/22092025/0001.pdf", url)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	_, _, err = storage.GenerateDownloadURL(context.Background(), "../x.pdf", time.Hour)
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestContainsDotDot(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{"normal path", "receipts/22092025/0001.pdf", false},
		{"path with dot dot", "receipts/../secret/file.pdf", true},
		{"path starting with dot dot", "../etc/passwd", true},
		{"windows separators", `receipts\..\secret`, true},
		{"path with single dot", "receipts/./0001.pdf", false},
		{"dots inside a name", "receipts/a..b.pdf", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, containsDotDot(tt.path))
		})
	}
}
