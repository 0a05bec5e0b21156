// Package scan walks a tree into the ordered set of relative paths that the
// diff engine compares.
package scan

import (
	"context"
	"path/filepath"

	"github.com/sdejongh/treediff/internal/platform"
	"github.com/sdejongh/treediff/pkg/logging"
	"github.com/sdejongh/treediff/pkg/models"
	"github.com/sdejongh/treediff/pkg/storage"
)

// Options configures an enumeration
type Options struct {
	// Exclude holds glob patterns; an excluded directory is not descended into
	Exclude []string

	// Logger receives debug output; nil disables logging
	Logger logging.Logger
}

// Enumerate lists every entry strictly under the backend root. Directories
// are followed, symlinks never are. Any unreadable directory aborts the walk.
func Enumerate(ctx context.Context, backend storage.Backend, opts Options) (*PathSet, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNullLogger()
	}

	w := &walker{
		backend: backend,
		root:    backend.Root(),
		matcher: NewMatcher(opts.Exclude),
		logger:  logger,
	}
	if err := w.walk(ctx, ""); err != nil {
		return nil, err
	}

	logger.Debug(ctx, "Enumerated tree", logging.Fields{
		"root":     w.root,
		"paths":    len(w.paths),
		"excluded": w.excluded,
	})
	return NewPathSet(w.paths...), nil
}

type walker struct {
	backend  storage.Backend
	root     string
	matcher  *Matcher
	logger   logging.Logger
	paths    []string
	excluded int
}

func (w *walker) walk(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	children, err := w.backend.ReadDir(ctx, dir)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return models.NewIOError("read directory", w.absolute(dir), err)
	}

	for _, child := range children {
		rel, err := platform.RelativePath(w.root, w.absolute(platform.JoinRelative(dir, child.Name)))
		if err != nil {
			return err
		}

		if w.matcher.Match(rel) {
			w.excluded++
			continue
		}
		w.paths = append(w.paths, rel)

		if child.Type == storage.TypeDirectory {
			if err := w.walk(ctx, rel); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *walker) absolute(rel string) string {
	if rel == "" {
		return w.root
	}
	return filepath.Join(w.root, filepath.FromSlash(rel))
}
