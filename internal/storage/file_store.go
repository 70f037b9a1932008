// Package storage is the filesystem collaborator for export artifacts.
// All outputs live under a single root directory fixed at startup.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/protex-intelligence/xlsx-export-mcp/internal/logger"
)

type FileStore struct {
	root string
}

func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

// Root returns the export root directory.
func (s *FileStore) Root() string {
	return s.root
}

// EnsureDirectory creates the export root if it does not exist. It is
// idempotent and safe to race: a directory created by a concurrent caller
// counts as success.
func (s *FileStore) EnsureDirectory(ctx context.Context) error {
	if info, err := os.Stat(s.root); err == nil {
		if !info.IsDir() {
			return fmt.Errorf("export path %s exists but is not a directory", s.root)
		}
		logger.InfoLog(ctx, "Export directory exists: %s", s.root)
		return nil
	}

	if err := os.MkdirAll(s.root, 0o755); err != nil {
		logger.ErrorLog(ctx, "Failed to create export directory: %v", err)
		return fmt.Errorf("create export directory: %w", err)
	}
	logger.InfoLog(ctx, "Created export directory: %s", s.root)
	return nil
}

// WriteFile persists content under the root and returns the resolved path.
// Existing files with the same name are overwritten.
func (s *FileStore) WriteFile(ctx context.Context, filename string, content []byte) (string, error) {
	if err := s.EnsureDirectory(ctx); err != nil {
		return "", err
	}

	path := filepath.Join(s.root, filename)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		logger.ErrorLog(ctx, "Failed to write file: %v", err)
		return "", fmt.Errorf("write file: %w", err)
	}
	logger.InfoLog(ctx, "File written: %s", path)
	return path, nil
}
