package uploads

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileStore keeps uploaded customer photos on the local filesystem.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Save writes the upload under the given name and returns its path relative
// to the process working directory.
func (s *FileStore) Save(ctx context.Context, name string, data io.Reader) (string, error) {
	path := filepath.Join(s.dir, name)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, data); err != nil {
		return "", fmt.Errorf("failed to write upload data: %w", err)
	}

	return path, nil
}

// Delete removes a stored upload.
func (s *FileStore) Delete(name string) error {
	return os.Remove(filepath.Join(s.dir, name))
}
