//go:build linux

package storage

import (
	"context"
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// Lstat returns metadata from lstat(2), including ownership
func (l *Local) Lstat(ctx context.Context, path string) (*FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	full := l.fullPath(path)
	var st unix.Stat_t
	if err := unix.Lstat(full, &st); err != nil {
		return nil, &os.PathError{Op: "lstat", Path: full, Err: err}
	}

	mode := uint32(st.Mode)
	return &FileInfo{
		Path:         full,
		RelativePath: path,
		Type:         TypeOfMode(mode),
		Mode:         mode,
		UID:          st.Uid,
		GID:          st.Gid,
		Size:         uint64(st.Size),
	}, nil
}

// Getxattr reads an extended attribute with lgetxattr(2). Only ENODATA means
// the attribute is not set; ENOTSUP and every other errno are returned.
func (l *Local) Getxattr(ctx context.Context, path, name string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	full := l.fullPath(path)
	for {
		size, err := unix.Lgetxattr(full, name, nil)
		if err != nil {
			if errors.Is(err, unix.ENODATA) {
				return nil, false, nil
			}
			return nil, false, &os.PathError{Op: "lgetxattr", Path: full, Err: err}
		}
		if size == 0 {
			return []byte{}, true, nil
		}

		buf := make([]byte, size)
		n, err := unix.Lgetxattr(full, name, buf)
		if err != nil {
			// attribute grew between the two calls
			if errors.Is(err, unix.ERANGE) {
				continue
			}
			if errors.Is(err, unix.ENODATA) {
				return nil, false, nil
			}
			return nil, false, &os.PathError{Op: "lgetxattr", Path: full, Err: err}
		}
		return buf[:n], true, nil
	}
}
