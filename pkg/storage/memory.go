package storage

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
)

// Memory is an in-memory backend built on go-billy's memfs.
// memfs has no notion of ownership or extended attributes, so both are kept
// in overlays keyed by relative path.
type Memory struct {
	name string
	fs   billy.Filesystem

	mu        sync.RWMutex
	owners    map[string][2]uint32
	xattrs    map[string]map[string][]byte
	xattrErrs map[string]error
	readErrs  map[string]error
}

// NewMemory creates an empty in-memory tree. name is reported by Root.
func NewMemory(name string) *Memory {
	fsys := memfs.New()
	// memfs only knows "/" once something has been created under it
	_ = fsys.MkdirAll("/", 0o755)

	return &Memory{
		name:      name,
		fs:        fsys,
		owners:    make(map[string][2]uint32),
		xattrs:    make(map[string]map[string][]byte),
		xattrErrs: make(map[string]error),
		readErrs:  make(map[string]error),
	}
}

func memPath(rel string) string {
	return path.Join("/", rel)
}

// Mkdir creates a directory and any missing parents
func (m *Memory) Mkdir(rel string, perm fs.FileMode) error {
	if err := m.fs.MkdirAll(memPath(rel), perm); err != nil {
		return fmt.Errorf("memory: mkdir %q: %w", rel, err)
	}
	return nil
}

// WriteFile creates or replaces a regular file. Parents are created with 0755.
func (m *Memory) WriteFile(rel string, data []byte, perm fs.FileMode) error {
	if err := m.ensureParent(rel); err != nil {
		return err
	}
	if err := util.WriteFile(m.fs, memPath(rel), data, perm); err != nil {
		return fmt.Errorf("memory: write %q: %w", rel, err)
	}
	return nil
}

// Symlink creates a symlink at rel pointing to target
func (m *Memory) Symlink(target, rel string) error {
	if err := m.ensureParent(rel); err != nil {
		return err
	}
	if err := m.fs.Symlink(target, memPath(rel)); err != nil {
		return fmt.Errorf("memory: symlink %q: %w", rel, err)
	}
	return nil
}

// Chown records ownership for rel
func (m *Memory) Chown(rel string, uid, gid uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.owners[rel] = [2]uint32{uid, gid}
}

// SetXattr records an extended attribute for rel
func (m *Memory) SetXattr(rel, name string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.xattrs[rel] == nil {
		m.xattrs[rel] = make(map[string][]byte)
	}
	m.xattrs[rel][name] = append([]byte(nil), value...)
}

// FailXattr makes every Getxattr on rel return err
func (m *Memory) FailXattr(rel string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.xattrErrs[rel] = err
}

// FailRead makes content reads of rel return err
func (m *Memory) FailRead(rel string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErrs[rel] = err
}

func (m *Memory) ensureParent(rel string) error {
	dir := path.Dir(memPath(rel))
	if dir == "/" {
		return nil
	}
	if _, err := m.fs.Lstat(dir); err == nil {
		return nil
	}
	if err := m.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("memory: mkdir %q: %w", dir, err)
	}
	return nil
}

// Root returns the name given at construction
func (m *Memory) Root() string {
	return m.name
}

// Lstat returns metadata without following symlinks
func (m *Memory) Lstat(ctx context.Context, rel string) (*FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := m.fs.Lstat(memPath(rel))
	if err != nil {
		return nil, err
	}

	mode := UnixMode(info.Mode())
	fi := &FileInfo{
		Path:         memPath(rel),
		RelativePath: rel,
		Type:         TypeOfMode(mode),
		Mode:         mode,
	}
	if fi.Type != TypeDirectory {
		fi.Size = uint64(info.Size())
	}

	m.mu.RLock()
	if owner, ok := m.owners[rel]; ok {
		fi.UID, fi.GID = owner[0], owner[1]
	}
	m.mu.RUnlock()

	return fi, nil
}

// Readlink returns the stored symlink target
func (m *Memory) Readlink(ctx context.Context, rel string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return m.fs.Readlink(memPath(rel))
}

// ReadDir lists children sorted by name
func (m *Memory) ReadDir(ctx context.Context, rel string) ([]DirEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	infos, err := m.fs.ReadDir(memPath(rel))
	if err != nil {
		return nil, err
	}

	children := make([]DirEntry, 0, len(infos))
	for _, info := range infos {
		children = append(children, DirEntry{
			Name: info.Name(),
			Type: typeOfFileMode(info.Mode()),
		})
	}
	sort.Slice(children, func(i, j int) bool { return children[i].Name < children[j].Name })
	return children, nil
}

// ReadFile returns the content of a file
func (m *Memory) ReadFile(ctx context.Context, rel string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := m.readErr(rel); err != nil {
		return nil, err
	}
	return util.ReadFile(m.fs, memPath(rel))
}

// Open opens a file for reading
func (m *Memory) Open(ctx context.Context, rel string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := m.readErr(rel); err != nil {
		return nil, err
	}
	return m.fs.Open(memPath(rel))
}

// Getxattr returns a recorded attribute
func (m *Memory) Getxattr(ctx context.Context, rel, name string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if _, err := m.fs.Lstat(memPath(rel)); err != nil {
		return nil, false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if err, ok := m.xattrErrs[rel]; ok {
		return nil, false, err
	}
	value, ok := m.xattrs[rel][name]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

// Close releases resources (no-op for memory backend)
func (m *Memory) Close() error {
	return nil
}

func (m *Memory) readErr(rel string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.readErrs[rel]
}
