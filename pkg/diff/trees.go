package diff

import (
	"context"
	"time"

	"github.com/sdejongh/treediff/pkg/compare"
	"github.com/sdejongh/treediff/pkg/logging"
	"github.com/sdejongh/treediff/pkg/models"
	"github.com/sdejongh/treediff/pkg/storage"
)

// Defaults used by NewOperation
const (
	DefaultMaxWorkers = 5
	DefaultBufferSize = 64 * 1024
)

// NewOperation returns an operation comparing two local roots with full
// content reads, SELinux labels and the default worker count
func NewOperation(originalRoot, newRoot string) *models.DiffOperation {
	return &models.DiffOperation{
		OriginalPath:  originalRoot,
		NewPath:       newRoot,
		ContentMethod: models.ContentFull,
		Labels: models.LabelOptions{
			Enabled:   true,
			Attribute: compare.DefaultLabelAttribute,
		},
		MaxWorkers: DefaultMaxWorkers,
		BufferSize: DefaultBufferSize,
		CreatedAt:  time.Now(),
	}
}

// DiffTrees compares two directories on the local filesystem with default
// settings
func DiffTrees(ctx context.Context, originalRoot, newRoot string) (*models.TreeDiffResult, error) {
	return Run(ctx, NewOperation(originalRoot, newRoot), nil, nil)
}

// Run opens both roots of operation as local trees and runs the comparison.
// logger and progress may be nil.
func Run(ctx context.Context, operation *models.DiffOperation, logger logging.Logger, progress ProgressReporter) (*models.TreeDiffResult, error) {
	original, err := storage.NewLocal(operation.OriginalPath)
	if err != nil {
		return nil, models.NewIOError("open root", operation.OriginalPath, err)
	}
	defer original.Close()

	updated, err := storage.NewLocal(operation.NewPath)
	if err != nil {
		return nil, models.NewIOError("open root", operation.NewPath, err)
	}
	defer updated.Close()

	engine, err := NewEngine(original, updated, operation, logger)
	if err != nil {
		return nil, err
	}
	engine.SetProgress(progress)
	return engine.Run(ctx)
}
