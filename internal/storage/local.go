package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalStore writes attachments to a directory on local disk. The HTTP layer
// serves the same directory under /uploads.
type LocalStore struct {
	baseDir   string
	urlPrefix string
}

// NewLocalStore creates the store and its base directory.
func NewLocalStore(baseDir string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: mkdir: %w", err)
	}
	return &LocalStore{baseDir: baseDir, urlPrefix: "/uploads"}, nil
}

// BaseDir returns the directory attachments are written to.
func (s *LocalStore) BaseDir() string {
	return s.baseDir
}

func (s *LocalStore) Save(_ context.Context, name string, data []byte) error {
	dest := filepath.Join(s.baseDir, filepath.Base(name))
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("storage: write: %w", err)
	}
	return nil
}

func (s *LocalStore) Delete(_ context.Context, name string) error {
	dest := filepath.Join(s.baseDir, filepath.Base(name))
	if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: remove: %w", err)
	}
	return nil
}

func (s *LocalStore) URL(name string) string {
	return s.urlPrefix + "/" + name
}
