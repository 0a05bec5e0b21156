package compare

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"unicode/utf8"

	"github.com/sdejongh/treediff/pkg/models"
	"github.com/sdejongh/treediff/pkg/storage"
)

// DefaultLabelAttribute is the extended attribute holding the SELinux context
const DefaultLabelAttribute = "security.selinux"

// Reader turns a path of a backend into a models.Entry
type Reader struct {
	labels models.LabelOptions
}

// NewReader creates a metadata reader. An empty label attribute falls back
// to DefaultLabelAttribute.
func NewReader(labels models.LabelOptions) *Reader {
	if labels.Attribute == "" {
		labels.Attribute = DefaultLabelAttribute
	}
	return &Reader{labels: labels}
}

// ReadEntry inspects rel without following a final symlink
func (r *Reader) ReadEntry(ctx context.Context, backend storage.Backend, rel string) (models.Entry, error) {
	abs := absolutePath(backend, rel)

	info, err := backend.Lstat(ctx, rel)
	if err != nil {
		return models.Entry{}, wrapIO(ctx, "lstat", abs, err)
	}

	switch info.Type {
	case storage.TypeSymlink:
		target, err := backend.Readlink(ctx, rel)
		if err != nil {
			return models.Entry{}, wrapIO(ctx, "readlink", abs, err)
		}
		return models.NewSymlinkEntry(target), nil

	case storage.TypeDirectory:
		label, err := r.readLabel(ctx, backend, rel, abs)
		if err != nil {
			return models.Entry{}, err
		}
		return models.NewDirEntry(info.Mode, info.UID, info.GID, label), nil

	default:
		label, err := r.readLabel(ctx, backend, rel, abs)
		if err != nil {
			return models.Entry{}, err
		}
		return models.NewFileEntry(info.Mode, info.UID, info.GID, info.Size, label), nil
	}
}

func (r *Reader) readLabel(ctx context.Context, backend storage.Backend, rel, abs string) (*string, error) {
	if !r.labels.Enabled {
		return nil, nil
	}

	value, ok, err := backend.Getxattr(ctx, rel, r.labels.Attribute)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, models.NewSecurityLabelError(abs, err)
	}
	if !ok {
		return nil, nil
	}

	// the kernel reports the label NUL-terminated
	value = bytes.TrimSuffix(value, []byte{0})
	if !utf8.Valid(value) {
		return nil, models.NewSecurityLabelError(abs, fmt.Errorf("%s is not valid UTF-8", r.labels.Attribute))
	}

	label := string(value)
	return &label, nil
}

func absolutePath(backend storage.Backend, rel string) string {
	return filepath.Join(backend.Root(), filepath.FromSlash(rel))
}

// wrapIO reports cancellation as is and everything else as an IO error
func wrapIO(ctx context.Context, op, path string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return models.NewIOError(op, path, err)
}
