package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure that can abort a comparison
type ErrorKind string

const (
	// KindIO covers stat, directory listing, symlink and content read failures
	KindIO ErrorKind = "io"
	// KindPathNormalization means a discovered path could not be made relative to its root
	KindPathNormalization ErrorKind = "path_normalization"
	// KindSecurityLabel means a label attribute was undecodable or unreadable
	KindSecurityLabel ErrorKind = "security_label"
)

// Sentinels for errors.Is checks against an *Error of the matching kind
var (
	ErrIO                = errors.New("io error")
	ErrPathNormalization = errors.New("path normalization error")
	ErrSecurityLabel     = errors.New("security label error")
)

// Error is a comparison failure. All comparison errors are fatal to the run.
type Error struct {
	Kind ErrorKind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := e.sentinel().Error()
	if e.Op != "" {
		msg += ": " + e.Op
	}
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind sentinel and the underlying cause
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.sentinel()}
	}
	return []error{e.sentinel(), e.Err}
}

func (e *Error) sentinel() error {
	switch e.Kind {
	case KindPathNormalization:
		return ErrPathNormalization
	case KindSecurityLabel:
		return ErrSecurityLabel
	default:
		return ErrIO
	}
}

// NewIOError wraps a filesystem failure
func NewIOError(op, path string, err error) error {
	return &Error{Kind: KindIO, Op: op, Path: path, Err: err}
}

// NewPathError reports a path that cannot be expressed relative to its root
func NewPathError(path, root string, err error) error {
	if err == nil {
		err = fmt.Errorf("not under root %s", root)
	}
	return &Error{Kind: KindPathNormalization, Op: "relativize", Path: path, Err: err}
}

// NewSecurityLabelError reports an undecodable or unreadable label
func NewSecurityLabelError(path string, err error) error {
	return &Error{Kind: KindSecurityLabel, Op: "read label", Path: path, Err: err}
}

// KindOf returns the kind of a comparison error, or "" when err is not one
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
