package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"go-caption-gateway/internal/logger"

	"github.com/google/uuid"
)

// UploadStore owns the request-scoped spill-to-disk location of uploaded
// images. A saved file belongs to exactly one request and must be removed
// before that request's response is sent.
type UploadStore interface {
	Save(file *multipart.FileHeader) (string, error)
	Remove(path string) error
	Sweep() (int, error)
}

// DiskUploadStore stores uploads in a flat directory under random names.
type DiskUploadStore struct {
	dir string
}

func NewDiskUploadStore(dir string) (*DiskUploadStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %q: %w", dir, err)
	}
	return &DiskUploadStore{dir: dir}, nil
}

// Save writes the multipart part to disk and returns the stored path.
// The uuid name prevents collisions and hides the client-supplied filename.
func (s *DiskUploadStore) Save(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	path := filepath.Join(s.dir, uuid.NewString()+filepath.Ext(file.Filename))
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}
	return path, nil
}

// Remove deletes a stored upload. An already-removed file is not an error.
func (s *DiskUploadStore) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove upload file %q: %w", path, err)
	}
	return nil
}

// Sweep deletes every leftover file in the upload directory and returns the
// number removed. Runs at startup and on a daily schedule to stop crashed
// requests from accumulating orphans.
func (s *DiskUploadStore) Sweep() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read upload directory %q: %w", s.dir, err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			logger.WithError(err).WithField("file", entry.Name()).Warn("Failed to delete leftover upload")
			continue
		}
		removed++
	}
	return removed, nil
}
