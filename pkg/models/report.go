package models

import (
	"time"
)

// DifferenceReport is the outcome of comparing one path present in both trees
type DifferenceReport struct {
	// Path is the relative path shared by both trees
	Path string `json:"name"`

	// Identical is true when metadata and content match
	Identical bool `json:"-"`

	// Differences lists every differing field in a fixed order.
	// Empty for symlink target changes.
	Differences []FieldDiff `json:"differences"`
}

// TreeDiffResult is the full comparison of an original tree against a new one
type TreeDiffResult struct {
	// Deleted holds paths only present in the original tree
	Deleted []string `json:"deleted_files"`

	// Added holds paths only present in the new tree
	Added []string `json:"added_files"`

	// Differences holds one report per common path that is not identical
	Differences []DifferenceReport `json:"differences"`

	// Run metadata, not part of the report document
	RunID        string        `json:"-"`
	OriginalPath string        `json:"-"`
	NewPath      string        `json:"-"`
	StartTime    time.Time     `json:"-"`
	Duration     time.Duration `json:"-"`
	Stats        Statistics    `json:"-"`
}

// Statistics holds counters collected during a comparison
type Statistics struct {
	OriginalPaths  int
	NewPaths       int
	CommonPaths    int
	IdenticalPaths int
	ChangedPaths   int

	// BytesCompared counts content bytes read from the original tree
	BytesCompared int64
}

// NewTreeDiffResult returns a result with empty, non-nil lists
func NewTreeDiffResult() *TreeDiffResult {
	return &TreeDiffResult{
		Deleted:     []string{},
		Added:       []string{},
		Differences: []DifferenceReport{},
	}
}

// HasDifferences reports whether the two trees differ at all
func (r *TreeDiffResult) HasDifferences() bool {
	return len(r.Deleted) > 0 || len(r.Added) > 0 || len(r.Differences) > 0
}

// ExitStatus classifies a finished comparison for the process exit code
type ExitStatus int

const (
	// ExitIdentical means the trees match
	ExitIdentical ExitStatus = 0
	// ExitDifferent means at least one path was added, deleted or changed
	ExitDifferent ExitStatus = 1
	// ExitFailed means the comparison could not complete
	ExitFailed ExitStatus = 2
)

// Status returns the exit status for a completed result
func (r *TreeDiffResult) Status() ExitStatus {
	if r.HasDifferences() {
		return ExitDifferent
	}
	return ExitIdentical
}
