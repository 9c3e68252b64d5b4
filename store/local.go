package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalBlobStore implements BlobStore on the local filesystem, one JSON
// file per collection. Writes go through a temp file and a rename so a
// half-written collection is never persisted.
type LocalBlobStore struct {
	basePath string
}

// NewLocalBlobStore creates a local blob store rooted at basePath
func NewLocalBlobStore(basePath string) (*LocalBlobStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &LocalBlobStore{basePath: basePath}, nil
}

func (s *LocalBlobStore) path(name string) string {
	return filepath.Join(s.basePath, name+".json")
}

// Get reads a named blob, returning (nil, nil) if it does not exist
func (s *LocalBlobStore) Get(ctx context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read blob %s: %w", name, err)
	}
	return data, nil
}

// Set writes a named blob atomically
func (s *LocalBlobStore) Set(ctx context.Context, name string, data []byte) error {
	tmp, err := os.CreateTemp(s.basePath, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write blob %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path(name)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace blob %s: %w", name, err)
	}
	return nil
}

// Delete removes a named blob; absence is not an error
func (s *LocalBlobStore) Delete(ctx context.Context, name string) error {
	err := os.Remove(s.path(name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete blob %s: %w", name, err)
	}
	return nil
}
