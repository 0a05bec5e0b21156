package diff

import (
	"context"
	"sync"

	"github.com/sdejongh/treediff/pkg/models"
)

// compareAll compares every path with at most MaxWorkers comparisons in
// flight. Reports come back in the order of paths. The first error cancels
// the remaining work and is returned alone.
func (e *Engine) compareAll(ctx context.Context, paths []string) ([]*models.DifferenceReport, error) {
	maxWorkers := e.operation.MaxWorkers
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	parent := ctx
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]*models.DifferenceReport, len(paths))
	semaphore := make(chan struct{}, maxWorkers)

	var wg sync.WaitGroup
	var errOnce sync.Once
	var firstErr error
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

dispatch:
	for i, rel := range paths {
		select {
		case semaphore <- struct{}{}:
		case <-ctx.Done():
			break dispatch
		}
		// a slot may free up at the same moment the run is cancelled
		if ctx.Err() != nil {
			<-semaphore
			break
		}

		wg.Add(1)
		go func(i int, rel string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			report, err := e.comparator.Compare(ctx, e.original, e.updated, rel)
			if err != nil {
				fail(err)
				return
			}
			results[i] = report
			e.progress.Increment()
		}(i, rel)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := parent.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
