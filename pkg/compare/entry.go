package compare

import "github.com/sdejongh/treediff/pkg/models"

// CompareEntries reports whether two entries match and, if not, which fields
// differ together with their original values. Field order is fixed: mode,
// uid, gid, size, selinux_label. Content is not looked at.
//
// A path whose kind changed yields a single "type" difference. Symlinks with
// different targets are reported as not identical with no field differences.
// A mode difference that includes the file type bits, such as a regular file
// replaced by a FIFO, is rendered as the full original st_mode.
func CompareEntries(original, updated models.Entry) (bool, []models.FieldDiff) {
	if original.Kind != updated.Kind {
		return false, []models.FieldDiff{{Field: models.FieldType, Original: string(original.Kind)}}
	}

	if original.Kind == models.KindSymlink {
		return original.Target == updated.Target, nil
	}

	var diffs []models.FieldDiff
	if original.Mode != updated.Mode {
		mode := models.FormatMode(original.Mode)
		if !models.SameFileType(original.Mode, updated.Mode) {
			mode = models.FormatRawMode(original.Mode)
		}
		diffs = append(diffs, models.FieldDiff{Field: models.FieldMode, Original: mode})
	}
	if original.UID != updated.UID {
		diffs = append(diffs, models.FieldDiff{Field: models.FieldUID, Original: models.FormatID(original.UID)})
	}
	if original.GID != updated.GID {
		diffs = append(diffs, models.FieldDiff{Field: models.FieldGID, Original: models.FormatID(original.GID)})
	}
	if original.IsFile() && original.Size != updated.Size {
		diffs = append(diffs, models.FieldDiff{Field: models.FieldSize, Original: models.FormatSize(original.Size)})
	}
	if !models.SameLabel(original.SecurityLabel, updated.SecurityLabel) {
		diffs = append(diffs, models.FieldDiff{Field: models.FieldSecurityLabel, Original: models.FormatLabel(original.SecurityLabel)})
	}

	return len(diffs) == 0, diffs
}
