package platform

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sdejongh/treediff/pkg/models"
)

// NormalizePath normalizes a path for the current platform
func NormalizePath(path string) string {
	normalized := filepath.Clean(path)

	// On Windows, ensure UNC paths are preserved
	if runtime.GOOS == "windows" {
		if strings.HasPrefix(path, `\\`) && !strings.HasPrefix(normalized, `\\`) {
			normalized = `\\` + normalized
		}
	}

	return normalized
}

// RelativePath strips root from full and returns the remainder as a
// slash-separated relative path. The root itself and anything outside of it
// cannot be expressed and fail with a path normalization error.
func RelativePath(root, full string) (string, error) {
	rel, err := filepath.Rel(NormalizePath(root), NormalizePath(full))
	if err != nil {
		return "", models.NewPathError(full, root, err)
	}

	rel = filepath.ToSlash(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", models.NewPathError(full, root, nil)
	}
	return rel, nil
}

// JoinRelative appends a child name to a relative slash path
func JoinRelative(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

// ComparePaths orders relative paths component by component, so that a
// directory's contents sort directly after it ("a", "a/b", "a-b").
func ComparePaths(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		ca, cb := a[i], b[i]
		if ca == cb {
			continue
		}
		if ca == '/' {
			return -1
		}
		if cb == '/' {
			return 1
		}
		if ca < cb {
			return -1
		}
		return 1
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// ValidatePath checks if a path is usable as a tree root
func ValidatePath(path string) error {
	if path == "" {
		return &PathError{Path: path, Message: "path is empty"}
	}
	if strings.ContainsRune(path, 0) {
		return &PathError{Path: path, Message: "path contains a NUL byte"}
	}
	return nil
}

// IsNested reports whether one of two absolute paths lies inside the other
func IsNested(a, b string) bool {
	a, b = NormalizePath(a), NormalizePath(b)
	sep := string(filepath.Separator)
	return strings.HasPrefix(a, strings.TrimSuffix(b, sep)+sep) ||
		strings.HasPrefix(b, strings.TrimSuffix(a, sep)+sep)
}

// PathError represents a path validation error
type PathError struct {
	Path    string
	Message string
}

func (e *PathError) Error() string {
	return "invalid path '" + e.Path + "': " + e.Message
}
