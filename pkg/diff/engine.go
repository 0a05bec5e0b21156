// Package diff compares an original tree against a new one and assembles the
// added, deleted and changed paths into a models.TreeDiffResult.
package diff

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sdejongh/treediff/pkg/compare"
	"github.com/sdejongh/treediff/pkg/logging"
	"github.com/sdejongh/treediff/pkg/models"
	"github.com/sdejongh/treediff/pkg/ratelimit"
	"github.com/sdejongh/treediff/pkg/scan"
	"github.com/sdejongh/treediff/pkg/storage"
)

// ProgressReporter receives one Increment per compared common path. It
// must be safe for concurrent use.
type ProgressReporter interface {
	Start(total int)
	Increment()
	Finish()
}

type noProgress struct{}

func (noProgress) Start(int)  {}
func (noProgress) Increment() {}
func (noProgress) Finish()    {}

// Engine orchestrates one comparison run
type Engine struct {
	original   storage.Backend
	updated    storage.Backend
	operation  *models.DiffOperation
	comparator *compare.Comparator
	limiter    *ratelimit.Limiter
	logger     logging.Logger
	progress   ProgressReporter
}

// NewEngine validates operation and prepares the comparators it asks for.
// logger may be nil.
func NewEngine(original, updated storage.Backend, operation *models.DiffOperation, logger logging.Logger) (*Engine, error) {
	if err := operation.Validate(); err != nil {
		return nil, fmt.Errorf("invalid diff operation: %w", err)
	}

	limiter := ratelimit.NewLimiter(operation.BandwidthLimit)
	content, err := compare.NewContentComparator(operation.ContentMethod, operation.BufferSize, limiter)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = logging.NewNullLogger()
	}
	if operation.ID == "" {
		operation.ID = uuid.NewString()
	}

	return &Engine{
		original:   original,
		updated:    updated,
		operation:  operation,
		comparator: compare.NewComparator(compare.NewReader(operation.Labels), content),
		limiter:    limiter,
		logger:     logger.WithFields(logging.Fields{"run_id": operation.ID}),
		progress:   noProgress{},
	}, nil
}

// SetProgress installs a progress reporter; nil removes it
func (e *Engine) SetProgress(p ProgressReporter) {
	if p == nil {
		p = noProgress{}
	}
	e.progress = p
}

// Run enumerates both trees and compares every common path. Any error aborts
// the run and no result is returned.
func (e *Engine) Run(ctx context.Context) (*models.TreeDiffResult, error) {
	start := time.Now()

	e.logger.Info(ctx, "Starting tree comparison", logging.Fields{
		"original":    e.original.Root(),
		"new":         e.updated.Root(),
		"content":     e.comparator.ContentMethod(),
		"max_workers": e.operation.MaxWorkers,
		"bandwidth":   e.limiter.Rate(),
	})

	result, err := e.run(ctx)
	if err != nil {
		e.logger.Error(ctx, "Tree comparison failed", err, logging.Fields{
			"kind":     string(models.KindOf(err)),
			"duration": time.Since(start).String(),
		})
		return nil, err
	}

	result.RunID = e.operation.ID
	result.OriginalPath = e.original.Root()
	result.NewPath = e.updated.Root()
	result.StartTime = start
	result.Duration = time.Since(start)

	e.logger.Info(ctx, "Tree comparison completed", logging.Fields{
		"duration":       result.Duration.String(),
		"deleted":        len(result.Deleted),
		"added":          len(result.Added),
		"changed":        result.Stats.ChangedPaths,
		"identical":      result.Stats.IdenticalPaths,
		"bytes_compared": result.Stats.BytesCompared,
	})
	return result, nil
}

func (e *Engine) run(ctx context.Context) (*models.TreeDiffResult, error) {
	opts := scan.Options{Exclude: e.operation.ExcludePatterns, Logger: e.logger}

	originalSet, err := scan.Enumerate(ctx, e.original, opts)
	if err != nil {
		return nil, err
	}
	newSet, err := scan.Enumerate(ctx, e.updated, opts)
	if err != nil {
		return nil, err
	}

	result := models.NewTreeDiffResult()
	result.Deleted = originalSet.Difference(newSet)
	result.Added = newSet.Difference(originalSet)
	common := originalSet.Intersect(newSet)

	e.progress.Start(len(common))
	reports, err := e.compareAll(ctx, common)
	e.progress.Finish()
	if err != nil {
		return nil, err
	}

	for _, report := range reports {
		if report.Identical {
			continue
		}
		e.logger.Debug(ctx, "Path differs", logging.Fields{
			"path":        report.Path,
			"differences": len(report.Differences),
		})
		result.Differences = append(result.Differences, *report)
	}

	result.Stats = models.Statistics{
		OriginalPaths:  originalSet.Len(),
		NewPaths:       newSet.Len(),
		CommonPaths:    len(common),
		ChangedPaths:   len(result.Differences),
		IdenticalPaths: len(common) - len(result.Differences),
		BytesCompared:  e.comparator.BytesCompared(),
	}
	return result, nil
}
