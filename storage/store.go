// Package storage provides whole-file reads and writes for solution and
// project documents. Paths may be local file paths or any URL supported by
// github.com/viant/afs.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
)

// ErrNotWritable indicates a target that cannot be written.
var ErrNotWritable = errors.New("path is not writable")

// Store is the storage collaborator used by the parser, the merge command
// and the fixer.
type Store interface {
	// ReadAll returns the whole content at path
	ReadAll(ctx context.Context, path string) ([]byte, error)

	// WriteAll replaces the whole content at path
	WriteAll(ctx context.Context, path string, data []byte) error

	// Exists reports whether path resolves to a document
	Exists(ctx context.Context, path string) (bool, error)

	// Writable checks that path can be written without writing it
	Writable(ctx context.Context, path string) error
}

// AFSStore implements Store on top of afs.Service.
type AFSStore struct {
	fs   afs.Service
	mode os.FileMode
}

// New creates a store backed by a fresh afs service
func New() *AFSStore {
	return &AFSStore{fs: afs.New(), mode: 0644}
}

// NewWithService creates a store backed by the given afs service
func NewWithService(fs afs.Service) *AFSStore {
	return &AFSStore{fs: fs, mode: 0644}
}

// IsURL reports whether path carries a scheme rather than a local file path.
func IsURL(path string) bool {
	return strings.Contains(path, "://")
}

func location(path string) string {
	if IsURL(path) {
		return path
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// ReadAll implements Store
func (s *AFSStore) ReadAll(ctx context.Context, path string) ([]byte, error) {
	data, err := s.fs.DownloadWithURL(ctx, location(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// WriteAll implements Store
func (s *AFSStore) WriteAll(ctx context.Context, path string, data []byte) error {
	if err := s.fs.Upload(ctx, location(path), s.mode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Exists implements Store
func (s *AFSStore) Exists(ctx context.Context, path string) (bool, error) {
	return s.fs.Exists(ctx, location(path))
}

// Writable implements Store. Local files must be openable for writing, or
// their parent directory must exist when the file does not yet exist. Remote
// locations are assumed writable.
func (s *AFSStore) Writable(ctx context.Context, path string) error {
	if IsURL(path) {
		return nil
	}
	path = location(path)

	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return fmt.Errorf("%w: %s is a directory", ErrNotWritable, path)
	case err == nil:
		f, openErr := os.OpenFile(path, os.O_WRONLY, 0)
		if openErr != nil {
			return fmt.Errorf("%w: %v", ErrNotWritable, openErr)
		}
		return f.Close()
	case os.IsNotExist(err):
		dir, statErr := os.Stat(filepath.Dir(path))
		if statErr != nil || !dir.IsDir() {
			return fmt.Errorf("%w: directory %s does not exist", ErrNotWritable, filepath.Dir(path))
		}
		return nil
	default:
		return fmt.Errorf("%w: %v", ErrNotWritable, err)
	}
}
