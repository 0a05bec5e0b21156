package compare

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/sdejongh/treediff/pkg/models"
	"github.com/sdejongh/treediff/pkg/ratelimit"
	"github.com/sdejongh/treediff/pkg/storage"
)

// ContentComparator decides whether two regular files hold the same bytes
type ContentComparator interface {
	// Equal compares the content of rel in both backends
	Equal(ctx context.Context, original, updated storage.Backend, rel string) (bool, error)

	// Name returns the name of the comparison method
	Name() string
}

// NewContentComparator returns the comparator for method
func NewContentComparator(method models.ContentMethod, bufferSize int, limiter *ratelimit.Limiter) (ContentComparator, error) {
	switch method {
	case models.ContentFull, "":
		return NewFullComparator(limiter), nil
	case models.ContentStreaming:
		return NewStreamComparator(bufferSize, limiter), nil
	case models.ContentHash:
		return NewHashComparator(bufferSize, limiter), nil
	default:
		return nil, fmt.Errorf("unknown content method %q", method)
	}
}

// FullComparator reads both files completely before comparing them, so an
// unreadable file is always reported even when the other side differs.
type FullComparator struct {
	limiter *ratelimit.Limiter
}

// NewFullComparator creates a full-read comparator; limiter may be nil
func NewFullComparator(limiter *ratelimit.Limiter) *FullComparator {
	return &FullComparator{limiter: limiter}
}

// Equal reads both files and compares their bytes
func (c *FullComparator) Equal(ctx context.Context, original, updated storage.Backend, rel string) (bool, error) {
	a, err := c.read(ctx, original, rel)
	if err != nil {
		return false, err
	}
	b, err := c.read(ctx, updated, rel)
	if err != nil {
		return false, err
	}
	return bytes.Equal(a, b), nil
}

func (c *FullComparator) read(ctx context.Context, backend storage.Backend, rel string) ([]byte, error) {
	if c.limiter == nil {
		data, err := backend.ReadFile(ctx, rel)
		if err != nil {
			return nil, wrapIO(ctx, "read", absolutePath(backend, rel), err)
		}
		return data, nil
	}

	rc, err := backend.Open(ctx, rel)
	if err != nil {
		return nil, wrapIO(ctx, "open", absolutePath(backend, rel), err)
	}
	rc = ratelimit.NewReadCloser(ctx, rc, c.limiter)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, wrapIO(ctx, "read", absolutePath(backend, rel), err)
	}
	return data, nil
}

// Name returns the comparator name
func (c *FullComparator) Name() string {
	return string(models.ContentFull)
}

// StreamComparator compares files chunk by chunk with pooled buffers and
// stops at the first differing chunk. Memory use is bounded by the buffer
// size, but a read error past the first difference goes unnoticed.
type StreamComparator struct {
	bufferSize int
	bufferPool *sync.Pool
	limiter    *ratelimit.Limiter
}

// NewStreamComparator creates a chunked comparator. Buffers below 4 KiB are
// raised to 4 KiB.
func NewStreamComparator(bufferSize int, limiter *ratelimit.Limiter) *StreamComparator {
	if bufferSize < 4096 {
		bufferSize = 4096
	}
	return &StreamComparator{
		bufferSize: bufferSize,
		limiter:    limiter,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, bufferSize)
				return &buf
			},
		},
	}
}

// Equal compares both files chunk by chunk
func (c *StreamComparator) Equal(ctx context.Context, original, updated storage.Backend, rel string) (bool, error) {
	origPath := absolutePath(original, rel)
	newPath := absolutePath(updated, rel)

	origReader, err := original.Open(ctx, rel)
	if err != nil {
		return false, wrapIO(ctx, "open", origPath, err)
	}
	origReader = ratelimit.NewReadCloser(ctx, origReader, c.limiter)
	defer origReader.Close()

	newReader, err := updated.Open(ctx, rel)
	if err != nil {
		return false, wrapIO(ctx, "open", newPath, err)
	}
	newReader = ratelimit.NewReadCloser(ctx, newReader, c.limiter)
	defer newReader.Close()

	origBufPtr := c.bufferPool.Get().(*[]byte)
	defer c.bufferPool.Put(origBufPtr)
	origBuf := *origBufPtr

	newBufPtr := c.bufferPool.Get().(*[]byte)
	defer c.bufferPool.Put(newBufPtr)
	newBuf := *newBufPtr

	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		origN, origErr := io.ReadFull(origReader, origBuf)
		if origErr != nil && !isEOF(origErr) {
			return false, wrapIO(ctx, "read", origPath, origErr)
		}
		newN, newErr := io.ReadFull(newReader, newBuf)
		if newErr != nil && !isEOF(newErr) {
			return false, wrapIO(ctx, "read", newPath, newErr)
		}

		if origN != newN || !bytes.Equal(origBuf[:origN], newBuf[:newN]) {
			return false, nil
		}

		origDone, newDone := isEOF(origErr), isEOF(newErr)
		if origDone || newDone {
			return origDone == newDone, nil
		}
	}
}

// Name returns the comparator name
func (c *StreamComparator) Name() string {
	return string(models.ContentStreaming)
}

func isEOF(err error) bool {
	return err == io.EOF || err == io.ErrUnexpectedEOF
}
