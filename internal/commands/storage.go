package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/colonyops/quill/internal/core/editor"
)

// FileStorage persists a document to a single file on disk.
type FileStorage struct {
	Path string
}

var _ editor.Storage = (*FileStorage)(nil)

// NewFileStorage creates storage bound to the given path.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{Path: path}
}

// LoadText reads the file. A missing file maps to editor.ErrNoDocument so
// callers can treat it as an empty new document.
func (f *FileStorage) LoadText(_ context.Context) (string, error) {
	data, err := os.ReadFile(f.Path)
	if os.IsNotExist(err) {
		return "", editor.ErrNoDocument
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", f.Path, err)
	}
	return string(data), nil
}

// SaveText writes through a temp file and rename so a crash mid-write never
// truncates the original.
func (f *FileStorage) SaveText(_ context.Context, text string) error {
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.Path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
