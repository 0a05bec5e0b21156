package models

import (
	"encoding/json"
	"strconv"
)

// FieldName names an attribute reported in a field-level difference
type FieldName string

const (
	// FieldMode is the permission bits
	FieldMode FieldName = "mode"
	// FieldUID is the owning user
	FieldUID FieldName = "uid"
	// FieldGID is the owning group
	FieldGID FieldName = "gid"
	// FieldSize is the byte size of a regular file
	FieldSize FieldName = "size"
	// FieldSecurityLabel is the MAC label extended attribute
	FieldSecurityLabel FieldName = "selinux_label"
	// FieldContent is the file content; its value is always ContentDifferent
	FieldContent FieldName = "content"
	// FieldType is the entry kind, reported when a path changed kind
	FieldType FieldName = "type"
)

// ContentDifferent is the value reported for a content mismatch
const ContentDifferent = "different"

// NoLabel is the textual form of an absent security label
const NoLabel = "none"

// FieldDiff is one differing attribute together with its value in the original tree
type FieldDiff struct {
	Field    FieldName
	Original string
}

// MarshalJSON encodes the diff as a [field, original] pair
func (d FieldDiff) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{string(d.Field), d.Original})
}

// FormatMode renders mode bits the way they appear in a report (octal permissions)
func FormatMode(mode uint32) string {
	return strconv.FormatUint(uint64(mode&0o7777), 8)
}

// FormatRawMode renders the full st_mode in octal, type bits included
func FormatRawMode(mode uint32) string {
	return strconv.FormatUint(uint64(mode), 8)
}

// FormatID renders a uid or gid
func FormatID(id uint32) string {
	return strconv.FormatUint(uint64(id), 10)
}

// FormatSize renders a byte count
func FormatSize(size uint64) string {
	return strconv.FormatUint(size, 10)
}

// FormatLabel renders a security label, NoLabel when absent
func FormatLabel(label *string) string {
	if label == nil {
		return NoLabel
	}
	return *label
}
