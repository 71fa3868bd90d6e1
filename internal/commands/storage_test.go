package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/quill/internal/core/editor"
)

func TestFileStorageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.md")
	fs := NewFileStorage(path)

	require.NoError(t, fs.SaveText(context.Background(), "# Hello\n"))

	text, err := fs.LoadText(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "# Hello\n", text)
}

func TestFileStorageMissingFile(t *testing.T) {
	fs := NewFileStorage(filepath.Join(t.TempDir(), "absent.md"))

	_, err := fs.LoadText(context.Background())
	assert.ErrorIs(t, err, editor.ErrNoDocument)
}

func TestFileStorageLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileStorage(filepath.Join(dir, "doc.md"))
	require.NoError(t, fs.SaveText(context.Background(), "content"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "doc.md", entries[0].Name())
}
