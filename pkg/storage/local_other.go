//go:build !linux

package storage

import (
	"context"
	"os"
)

// Lstat returns metadata from os.Lstat. Ownership is not available on this
// platform and is reported as 0.
func (l *Local) Lstat(ctx context.Context, path string) (*FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	full := l.fullPath(path)
	info, err := os.Lstat(full)
	if err != nil {
		return nil, err
	}

	mode := UnixMode(info.Mode())
	return &FileInfo{
		Path:         full,
		RelativePath: path,
		Type:         TypeOfMode(mode),
		Mode:         mode,
		Size:         uint64(info.Size()),
	}, nil
}

// Getxattr reports every attribute as absent; extended attributes are only
// read on Linux.
func (l *Local) Getxattr(ctx context.Context, path, name string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	return nil, false, nil
}
