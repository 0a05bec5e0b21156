package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// Local is a filesystem-based storage backend
type Local struct {
	rootPath string
}

// NewLocal creates a new local filesystem backend
func NewLocal(rootPath string) (*Local, error) {
	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to access path: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", absPath)
	}

	return &Local{rootPath: absPath}, nil
}

// Root returns the absolute root path
func (l *Local) Root() string {
	return l.rootPath
}

// fullPath maps a relative slash path onto the filesystem
func (l *Local) fullPath(path string) string {
	if path == "" {
		return l.rootPath
	}
	return filepath.Join(l.rootPath, filepath.FromSlash(path))
}

// Readlink returns the symlink target exactly as stored
func (l *Local) Readlink(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return os.Readlink(l.fullPath(path))
}

// ReadDir lists a directory without following symlinks
func (l *Local) ReadDir(ctx context.Context, path string) ([]DirEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(l.fullPath(path))
	if err != nil {
		return nil, err
	}

	children := make([]DirEntry, 0, len(entries))
	for _, e := range entries {
		children = append(children, DirEntry{
			Name: e.Name(),
			Type: typeOfFileMode(e.Type()),
		})
	}
	sort.Slice(children, func(i, j int) bool { return children[i].Name < children[j].Name })
	return children, nil
}

// ReadFile reads a whole file into memory
func (l *Local) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(l.fullPath(path))
}

// Open opens a file for reading
func (l *Local) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Open(l.fullPath(path))
}

// Close releases resources (no-op for local filesystem)
func (l *Local) Close() error {
	return nil
}
