package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage implements Storage on the local filesystem. Blobs are written
// under BaseDir and referenced through PublicPrefix, which the serving layer
// maps back to BaseDir.
type LocalStorage struct {
	BaseDir      string
	PublicPrefix string
}

// NewLocalStorage creates a LocalStorage rooted at baseDir. References are
// prefixed with publicPrefix (e.g. "/uploads").
func NewLocalStorage(baseDir, publicPrefix string) *LocalStorage {
	return &LocalStorage{
		BaseDir:      baseDir,
		PublicPrefix: strings.TrimSuffix(publicPrefix, "/"),
	}
}

// EnsureNamespace creates the namespace directory.
func (s *LocalStorage) EnsureNamespace(_ context.Context, namespace string) error {
	path := filepath.Join(s.BaseDir, namespace)
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create storage directory %s: %w", path, err)
	}
	return nil
}

// Write persists the blob and returns its public reference.
func (s *LocalStorage) Write(_ context.Context, namespace, filename string, data []byte, _ string) (string, error) {
	path := filepath.Join(s.BaseDir, namespace, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return s.PublicPrefix + "/" + namespace + "/" + filename, nil
}
