package storage

import (
	"io/fs"
)

// Unix file type bits, as found in st_mode
const (
	modeTypeMask  = 0o170000
	modeSocket    = 0o140000
	modeSymlink   = 0o120000
	modeRegular   = 0o100000
	modeBlockDev  = 0o060000
	modeDirectory = 0o040000
	modeCharDev   = 0o020000
	modeFIFO      = 0o010000
)

// UnixMode converts a Go file mode into st_mode bits
func UnixMode(m fs.FileMode) uint32 {
	mode := uint32(m.Perm())
	if m&fs.ModeSetuid != 0 {
		mode |= 0o4000
	}
	if m&fs.ModeSetgid != 0 {
		mode |= 0o2000
	}
	if m&fs.ModeSticky != 0 {
		mode |= 0o1000
	}

	switch {
	case m&fs.ModeSymlink != 0:
		mode |= modeSymlink
	case m.IsDir():
		mode |= modeDirectory
	case m&fs.ModeNamedPipe != 0:
		mode |= modeFIFO
	case m&fs.ModeSocket != 0:
		mode |= modeSocket
	case m&fs.ModeCharDevice != 0:
		mode |= modeCharDev
	case m&fs.ModeDevice != 0:
		mode |= modeBlockDev
	default:
		mode |= modeRegular
	}
	return mode
}

// TypeOfMode returns the FileType encoded in st_mode bits
func TypeOfMode(mode uint32) FileType {
	switch mode & modeTypeMask {
	case modeRegular:
		return TypeFile
	case modeDirectory:
		return TypeDirectory
	case modeSymlink:
		return TypeSymlink
	default:
		return TypeOther
	}
}

func typeOfFileMode(m fs.FileMode) FileType {
	return TypeOfMode(UnixMode(m))
}
