package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage(t *testing.T) {
	tempDir := t.TempDir()

	storage, err := NewLocalStorage(tempDir)
	require.NoError(t, err)

	t.Run("StoreFromReader", func(t *testing.T) {
		ctx := context.Background()

		path, err := storage.StoreFromReader(ctx, ".pdf", strings.NewReader("%PDF-1.4\nTest PDF content"))
		require.NoError(t, err)
		assert.Equal(t, tempDir, filepath.Dir(path))
		assert.Equal(t, ".pdf", filepath.Ext(path))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.4\nTest PDF content", string(content))

		require.NoError(t, storage.Delete(ctx, path))
	})

	t.Run("StoreFromReader drops unsafe extension", func(t *testing.T) {
		ctx := context.Background()

		path, err := storage.StoreFromReader(ctx, "/../x", strings.NewReader("data"))
		require.NoError(t, err)
		assert.Equal(t, tempDir, filepath.Dir(path))
		assert.Empty(t, filepath.Ext(path))

		require.NoError(t, storage.Delete(ctx, path))
	})

	t.Run("StoreFromReader honours cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := storage.StoreFromReader(ctx, ".jpg", strings.NewReader("data"))
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("Delete", func(t *testing.T) {
		ctx := context.Background()

		path, err := storage.StoreFromReader(ctx, "", strings.NewReader("test"))
		require.NoError(t, err)

		require.NoError(t, storage.Delete(ctx, path))
		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err))

		// Already removed
		assert.Error(t, storage.Delete(ctx, path))

		// Outside the temp directory
		assert.Error(t, storage.Delete(ctx, "/tmp/outside"))
		assert.Error(t, storage.Delete(ctx, filepath.Join(tempDir, "..", "escape")))
		assert.Error(t, storage.Delete(ctx, tempDir))
	})
}

func TestNewLocalStorage_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "spool")

	storage, err := NewLocalStorage(dir)
	require.NoError(t, err)
	assert.NotNil(t, storage)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
