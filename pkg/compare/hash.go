package compare

import (
	"bytes"
	"context"
	"crypto/sha256"
	"io"
	"sync"

	"github.com/sdejongh/treediff/pkg/models"
	"github.com/sdejongh/treediff/pkg/ratelimit"
	"github.com/sdejongh/treediff/pkg/storage"
)

// HashComparator hashes both files to the end, concurrently, and compares
// SHA-256 digests. Like FullComparator it always reads both sides, but memory
// use is bounded by the buffer size.
type HashComparator struct {
	bufferPool *sync.Pool
	limiter    *ratelimit.Limiter
}

// NewHashComparator creates a hash-based comparator
func NewHashComparator(bufferSize int, limiter *ratelimit.Limiter) *HashComparator {
	if bufferSize < 4096 {
		bufferSize = 4096
	}
	return &HashComparator{
		limiter: limiter,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, bufferSize)
				return &buf
			},
		},
	}
}

// Equal hashes both files and compares the digests. When both sides fail
// the original's error is returned.
func (c *HashComparator) Equal(ctx context.Context, original, updated storage.Backend, rel string) (bool, error) {
	var origSum, newSum []byte
	var origErr, newErr error
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		origSum, origErr = c.sum(ctx, original, rel)
	}()
	go func() {
		defer wg.Done()
		newSum, newErr = c.sum(ctx, updated, rel)
	}()
	wg.Wait()

	if origErr != nil {
		return false, origErr
	}
	if newErr != nil {
		return false, newErr
	}
	return bytes.Equal(origSum, newSum), nil
}

func (c *HashComparator) sum(ctx context.Context, backend storage.Backend, rel string) ([]byte, error) {
	abs := absolutePath(backend, rel)

	rc, err := backend.Open(ctx, rel)
	if err != nil {
		return nil, wrapIO(ctx, "open", abs, err)
	}
	defer rc.Close()

	bufPtr := c.bufferPool.Get().(*[]byte)
	defer c.bufferPool.Put(bufPtr)

	hasher := sha256.New()
	if _, err := io.CopyBuffer(hasher, ratelimit.NewReader(ctx, onlyReader{rc}, c.limiter), *bufPtr); err != nil {
		return nil, wrapIO(ctx, "read", abs, err)
	}
	return hasher.Sum(nil), nil
}

// Name returns the comparator name
func (c *HashComparator) Name() string {
	return string(models.ContentHash)
}

// onlyReader hides WriterTo and similar fast paths so CopyBuffer uses the
// pooled buffer
type onlyReader struct {
	io.Reader
}
