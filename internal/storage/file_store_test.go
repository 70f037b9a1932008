package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDirectoryIdempotent(t *testing.T) {
	root := filepath.Join(t.TempDir(), "exports")
	store := NewFileStore(root)
	ctx := context.Background()

	require.NoError(t, store.EnsureDirectory(ctx))
	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Second call on an existing directory is success, not error.
	assert.NoError(t, store.EnsureDirectory(ctx))
}

func TestEnsureDirectoryPathIsFile(t *testing.T) {
	root := filepath.Join(t.TempDir(), "exports")
	require.NoError(t, os.WriteFile(root, []byte("not a directory"), 0o644))

	store := NewFileStore(root)
	assert.Error(t, store.EnsureDirectory(context.Background()))
}

func TestWriteFile(t *testing.T) {
	root := filepath.Join(t.TempDir(), "exports")
	store := NewFileStore(root)

	path, err := store.WriteFile(context.Background(), "report.xlsx", []byte("content"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "report.xlsx"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestWriteFileOverwrites(t *testing.T) {
	store := NewFileStore(t.TempDir())
	ctx := context.Background()

	_, err := store.WriteFile(ctx, "report.xlsx", []byte("first"))
	require.NoError(t, err)
	path, err := store.WriteFile(ctx, "report.xlsx", []byte("second"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}
