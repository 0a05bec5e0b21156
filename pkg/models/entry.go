package models

// EntryKind identifies which variant of Entry is populated
type EntryKind string

const (
	// KindFile is a regular file, or any special file (socket, device, FIFO)
	KindFile EntryKind = "file"
	// KindDirectory is a directory
	KindDirectory EntryKind = "directory"
	// KindSymlink is a symbolic link, never dereferenced
	KindSymlink EntryKind = "symlink"
)

// st_mode type bits
const (
	modeTypeMask = 0o170000
	modeRegular  = 0o100000
)

// Entry is the comparable snapshot of one filesystem object at a relative path.
//
// Which fields are meaningful depends on Kind:
//   - KindFile: Mode, UID, GID, Size, SecurityLabel
//   - KindDirectory: Mode, UID, GID, SecurityLabel
//   - KindSymlink: Target only
type Entry struct {
	Kind EntryKind

	// Mode holds the raw permission and type bits (st_mode)
	Mode uint32

	UID uint32
	GID uint32

	// Size in bytes, regular files only
	Size uint64

	// SecurityLabel is nil when the entry carries no label
	SecurityLabel *string

	// Target is the literal, unresolved link value
	Target string
}

// NewFileEntry creates a regular file entry
func NewFileEntry(mode, uid, gid uint32, size uint64, label *string) Entry {
	return Entry{
		Kind:          KindFile,
		Mode:          mode,
		UID:           uid,
		GID:           gid,
		Size:          size,
		SecurityLabel: label,
	}
}

// NewDirEntry creates a directory entry
func NewDirEntry(mode, uid, gid uint32, label *string) Entry {
	return Entry{
		Kind:          KindDirectory,
		Mode:          mode,
		UID:           uid,
		GID:           gid,
		SecurityLabel: label,
	}
}

// NewSymlinkEntry creates a symlink entry
func NewSymlinkEntry(target string) Entry {
	return Entry{
		Kind:   KindSymlink,
		Target: target,
	}
}

// Equal reports whether two entries are the same, ignoring file content.
// Entries of different kinds are never equal.
func (e Entry) Equal(other Entry) bool {
	if e.Kind != other.Kind {
		return false
	}

	switch e.Kind {
	case KindSymlink:
		return e.Target == other.Target
	case KindDirectory:
		return e.Mode == other.Mode &&
			e.UID == other.UID &&
			e.GID == other.GID &&
			SameLabel(e.SecurityLabel, other.SecurityLabel)
	default:
		return e.Mode == other.Mode &&
			e.UID == other.UID &&
			e.GID == other.GID &&
			e.Size == other.Size &&
			SameLabel(e.SecurityLabel, other.SecurityLabel)
	}
}

// IsFile reports whether the entry is a regular (or special) file
func (e Entry) IsFile() bool {
	return e.Kind == KindFile
}

// IsRegular reports whether the entry is a regular file. Sockets, devices
// and FIFOs are files too but carry other type bits in Mode.
func (e Entry) IsRegular() bool {
	return e.Kind == KindFile && e.Mode&modeTypeMask == modeRegular
}

// SameFileType reports whether two st_mode values carry the same type bits
func SameFileType(a, b uint32) bool {
	return a&modeTypeMask == b&modeTypeMask
}

// SameLabel reports whether two optional labels are equal; nil only equals nil
func SameLabel(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
