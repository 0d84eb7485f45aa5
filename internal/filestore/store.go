// Package filestore keeps the encoded pantry document in a single file.
package filestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"github.com/rpggio/pantry/internal/repository"
)

const (
	filePerms = 0o600
	dirPerms  = 0o750
)

// Store implements repository.DocumentRepository on top of one file. Writes go
// through a temp file and rename, so readers see the old or the new snapshot.
type Store struct {
	path string
}

var _ repository.DocumentRepository = (*Store)(nil)

// New returns a store for path. The file need not exist yet.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Read returns the file contents, or repository.ErrNotFound if it does not exist.
func (s *Store) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document file: %w", err)
	}
	return data, nil
}

// Write replaces the file contents atomically while holding an exclusive
// lock, so a CLI command and a running server never interleave writes.
func (s *Store) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), dirPerms); err != nil {
		return fmt.Errorf("failed to create document directory: %w", err)
	}

	lock, err := acquireLock(ctx, s.path, LockTimeout)
	if err != nil {
		return err
	}
	defer lock.release()

	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write document file: %w", err)
	}

	// atomic.WriteFile doesn't set permissions for new files
	if err := os.Chmod(s.path, filePerms); err != nil {
		return fmt.Errorf("failed to set document file permissions: %w", err)
	}
	return nil
}
