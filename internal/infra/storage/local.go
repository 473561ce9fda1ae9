package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// TempStore keeps uploaded documents in a scratch directory for the
// lifetime of one request. Files are named by uuid (original names come
// from clients and are not trusted) with the extension preserved for the
// parser dispatch.
type TempStore struct {
	dir string
}

func NewTempStore(dir string) (*TempStore, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "contract-analyzer")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage init: %w", err)
	}
	return &TempStore{dir: dir}, nil
}

// Dir returns the scratch directory, for health checks.
func (s *TempStore) Dir() string { return s.dir }

// SaveUpload streams the upload to disk and returns the stored path.
func (s *TempStore) SaveUpload(r io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	path := filepath.Join(s.dir, uuid.New().String()+ext)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("save upload: %w", err)
	}
	return path, nil
}

// Remove deletes one stored file. Paths outside the scratch directory are
// refused.
func (s *TempStore) Remove(path string) error {
	rel, err := filepath.Rel(s.dir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("refusing to remove %s: outside storage dir", path)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
