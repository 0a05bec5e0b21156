package storage

import (
	"context"
	"io"
)

// FileType is the kind of a filesystem object as seen by lstat
type FileType string

const (
	TypeFile      FileType = "file"
	TypeDirectory FileType = "directory"
	TypeSymlink   FileType = "symlink"
	// TypeOther covers sockets, devices and FIFOs
	TypeOther FileType = "other"
)

// FileInfo represents metadata about a filesystem object, never following symlinks
type FileInfo struct {
	Path         string
	RelativePath string
	Type         FileType
	Mode         uint32 // st_mode: permission and type bits
	UID          uint32
	GID          uint32
	Size         uint64
}

// DirEntry is one child of a listed directory
type DirEntry struct {
	Name string
	Type FileType
}

// Backend defines the filesystem access needed to compare a tree.
// All paths are slash-separated and relative to Root; "" is the root itself.
// Implementations include the local filesystem and an in-memory tree.
type Backend interface {
	// Root returns the location the backend is rooted at
	Root() string

	// Lstat returns metadata for path without following a terminal symlink
	Lstat(ctx context.Context, path string) (*FileInfo, error)

	// Readlink returns the literal target of the symlink at path
	Readlink(ctx context.Context, path string) (string, error)

	// ReadDir lists the children of the directory at path, sorted by name
	ReadDir(ctx context.Context, path string) ([]DirEntry, error)

	// ReadFile reads the whole content of the file at path
	ReadFile(ctx context.Context, path string) ([]byte, error)

	// Open opens the file at path for reading
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Getxattr reads an extended attribute of path itself (not a symlink target).
	// The boolean is false when the attribute does not exist.
	Getxattr(ctx context.Context, path, name string) ([]byte, bool, error)

	// Close releases any resources held by the backend
	Close() error
}
