package filestorage_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"agri_trade/internal/storage"
	"agri_trade/internal/storage/filestorage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupFileStorage(t *testing.T) *filestorage.LocalFileStorage {
	t.Helper()

	fs, err := filestorage.NewLocalFileStorage(t.TempDir(), "http://test.local/uploads/")
	require.NoError(t, err)

	return fs
}

func TestLocalFileStorage_Upload(t *testing.T) {
	fs := setupFileStorage(t)
	ctx := context.Background()

	t.Run("successful upload", func(t *testing.T) {
		url, err := fs.Upload(ctx, "abc.webp", strings.NewReader("test content"), 12, "image/webp")
		require.NoError(t, err)
		assert.Equal(t, "http://test.local/uploads/abc.webp", url)

		// Проверяем содержимое файла
		data, err := os.ReadFile(fs.GetFullPath("abc.webp"))
		require.NoError(t, err)
		assert.Equal(t, "test content", string(data))
	})

	t.Run("upload with context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(ctx)
		cancel() // Отменяем контекст сразу

		_, err := fs.Upload(ctx, "cancel.webp", strings.NewReader("x"), 1, "")
		assert.ErrorIs(t, err, context.Canceled)

		_, err = os.Stat(fs.GetFullPath("cancel.webp"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("invalid keys", func(t *testing.T) {
		for _, key := range []string{"", "../escape.png", "/abs.png"} {
			_, err := fs.Upload(ctx, key, strings.NewReader("x"), 1, "")
			assert.ErrorIs(t, err, storage.ErrInvalidKey, key)
		}
	})
}

func TestLocalFileStorage_Delete(t *testing.T) {
	fs := setupFileStorage(t)
	ctx := context.Background()

	t.Run("successful delete", func(t *testing.T) {
		_, err := fs.Upload(ctx, "to_delete.png", strings.NewReader("content"), 7, "image/png")
		require.NoError(t, err)

		require.NoError(t, fs.Delete(ctx, "to_delete.png"))

		// Проверяем что файл удален
		_, err = os.Stat(fs.GetFullPath("to_delete.png"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("delete non-existent file", func(t *testing.T) {
		err := fs.Delete(ctx, "nonexistent.png")
		assert.ErrorIs(t, err, storage.ErrObjectNotFound)
	})
}

func TestLocalFileStorage_Ping(t *testing.T) {
	fs := setupFileStorage(t)
	assert.NoError(t, fs.Ping(context.Background()))

	require.NoError(t, os.RemoveAll(fs.GetBaseDir()))
	assert.Error(t, fs.Ping(context.Background()))
}

func TestNewLocalFileStorage(t *testing.T) {
	t.Run("successful creation", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "uploads")

		fs, err := filestorage.NewLocalFileStorage(dir, "http://test.local")
		require.NoError(t, err)
		assert.Equal(t, dir, fs.GetBaseDir())
	})

	t.Run("invalid directory", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

		_, err := filestorage.NewLocalFileStorage(filepath.Join(file, "sub"), "http://test.local")
		assert.Error(t, err)
	})
}

func TestConcurrentUploads(t *testing.T) {
	fs := setupFileStorage(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := fs.Upload(ctx, fmt.Sprintf("concurrent/%d.png", i), strings.NewReader("data"), 4, "")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	entries, err := os.ReadDir(filepath.Join(fs.GetBaseDir(), "concurrent"))
	require.NoError(t, err)
	assert.Len(t, entries, 10)
}
