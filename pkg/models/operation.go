package models

import (
	"time"
)

// ContentMethod defines how regular file contents are compared
type ContentMethod string

const (
	// ContentFull reads both files completely before comparing
	ContentFull ContentMethod = "full"
	// ContentStreaming compares in chunks and stops at the first mismatch
	ContentStreaming ContentMethod = "streaming"
	// ContentHash reads both files completely and compares SHA-256 digests
	ContentHash ContentMethod = "hash"
)

// LabelOptions controls security label collection
type LabelOptions struct {
	Enabled   bool
	Attribute string
}

// DiffOperation represents one comparison run
type DiffOperation struct {
	ID              string
	OriginalPath    string
	NewPath         string
	ContentMethod   ContentMethod
	Labels          LabelOptions
	ExcludePatterns []string
	MaxWorkers      int
	BandwidthLimit  int64 // bytes per second for content reads, 0 = unlimited
	BufferSize      int
	CreatedAt       time.Time
}

// Validate checks if the operation configuration is valid
func (op *DiffOperation) Validate() error {
	if op.OriginalPath == "" {
		return &ValidationError{Field: "OriginalPath", Message: "original tree path is required"}
	}
	if op.NewPath == "" {
		return &ValidationError{Field: "NewPath", Message: "new tree path is required"}
	}
	if op.MaxWorkers < 1 {
		return &ValidationError{Field: "MaxWorkers", Message: "max workers must be at least 1"}
	}
	if op.BufferSize < 1024 {
		return &ValidationError{Field: "BufferSize", Message: "buffer size must be at least 1024 bytes"}
	}
	if op.BandwidthLimit < 0 {
		return &ValidationError{Field: "BandwidthLimit", Message: "bandwidth limit cannot be negative"}
	}
	switch op.ContentMethod {
	case ContentFull, ContentStreaming, ContentHash:
	default:
		return &ValidationError{Field: "ContentMethod", Message: "must be 'full', 'streaming' or 'hash'"}
	}
	if op.Labels.Enabled && op.Labels.Attribute == "" {
		return &ValidationError{Field: "Labels.Attribute", Message: "attribute name is required when labels are enabled"}
	}
	return nil
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
