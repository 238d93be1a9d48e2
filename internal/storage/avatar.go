package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// AvatarStore defines the interface for avatar file storage operations.
type AvatarStore interface {
	Save(ctx context.Context, r io.Reader, origName string) (string, error)
	Remove(ctx context.Context, name string) error
	Path(name string) string
}

// DiskAvatarStore implements AvatarStore on the local filesystem. Files are
// stored under a single directory with generated names so that user-supplied
// filenames never touch the disk.
type DiskAvatarStore struct {
	dir string
}

var _ AvatarStore = (*DiskAvatarStore)(nil)

// NewDiskAvatarStore creates the storage directory if needed.
func NewDiskAvatarStore(dir string) (*DiskAvatarStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create avatar dir: %w", err)
	}
	return &DiskAvatarStore{dir: dir}, nil
}

// Save writes the uploaded file under a fresh UUID-based name and returns
// that name for persistence on the profile record.
func (s *DiskAvatarStore) Save(ctx context.Context, r io.Reader, origName string) (string, error) {
	name := uuid.New().String() + filepath.Ext(origName)

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create avatar file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write avatar file: %w", err)
	}
	return name, nil
}

// Remove deletes a stored avatar file. A missing file is a silent no-op so
// that repeated removal stays idempotent.
func (s *DiskAvatarStore) Remove(ctx context.Context, name string) error {
	if name == "" {
		return nil
	}
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return os.Remove(path)
}

// Path returns the on-disk path for a stored avatar name.
func (s *DiskAvatarStore) Path(name string) string {
	return filepath.Join(s.dir, name)
}
