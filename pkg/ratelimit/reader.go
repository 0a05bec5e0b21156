// Package ratelimit caps the aggregate read bandwidth of content comparisons.
package ratelimit

import (
	"context"
	"io"
	"sync"
	"time"
)

const minBurst = 64 * 1024

// Limiter is a token bucket shared by every reader created from it, so the
// limit applies to the sum of all concurrent reads.
type Limiter struct {
	rate  int64
	burst int64

	mu     sync.Mutex
	tokens int64
	last   time.Time
	now    func() time.Time
}

// NewLimiter returns a limiter allowing bytesPerSecond, or nil (no limit)
// when bytesPerSecond is not positive. The burst is one second of data but
// never below 64 KiB.
func NewLimiter(bytesPerSecond int64) *Limiter {
	if bytesPerSecond <= 0 {
		return nil
	}

	burst := bytesPerSecond
	if burst < minBurst {
		burst = minBurst
	}

	return &Limiter{
		rate:   bytesPerSecond,
		burst:  burst,
		tokens: burst,
		last:   time.Now(),
		now:    time.Now,
	}
}

// Rate returns the configured bytes per second; 0 for a nil limiter
func (l *Limiter) Rate() int64 {
	if l == nil {
		return 0
	}
	return l.rate
}

// Wait blocks until n bytes may be read, or ctx is done. n above the burst
// size is clamped to it.
func (l *Limiter) Wait(ctx context.Context, n int64) error {
	if l == nil || n <= 0 {
		return nil
	}
	if n > l.burst {
		n = l.burst
	}

	for {
		l.mu.Lock()
		l.refill()
		if l.tokens >= n {
			l.tokens -= n
			l.mu.Unlock()
			return nil
		}
		wait := time.Duration(float64(n-l.tokens) / float64(l.rate) * float64(time.Second))
		l.mu.Unlock()

		if wait < time.Millisecond {
			wait = time.Millisecond
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// refund returns unused tokens to the bucket
func (l *Limiter) refund(n int64) {
	if n <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tokens += n
	if l.tokens > l.burst {
		l.tokens = l.burst
	}
}

// refill must be called with mu held
func (l *Limiter) refill() {
	now := l.now()
	add := int64(float64(now.Sub(l.last)) / float64(time.Second) * float64(l.rate))
	if add <= 0 {
		return
	}
	l.tokens += add
	if l.tokens > l.burst {
		l.tokens = l.burst
	}
	l.last = now
}

// Reader reads through a Limiter
type Reader struct {
	ctx     context.Context
	reader  io.Reader
	limiter *Limiter
}

// NewReader wraps r; a nil limiter returns r unchanged
func NewReader(ctx context.Context, r io.Reader, limiter *Limiter) io.Reader {
	if limiter == nil {
		return r
	}
	return &Reader{ctx: ctx, reader: r, limiter: limiter}
}

// Read reserves len(p) bytes (at most one burst), reads, then hands back
// whatever the underlying reader did not use.
func (r *Reader) Read(p []byte) (int, error) {
	want := int64(len(p))
	if want > r.limiter.burst {
		want = r.limiter.burst
	}
	if err := r.limiter.Wait(r.ctx, want); err != nil {
		return 0, err
	}

	n, err := r.reader.Read(p[:want])
	r.limiter.refund(want - int64(n))
	return n, err
}

// ReadCloser is a Reader that also closes the wrapped stream
type ReadCloser struct {
	Reader
	closer io.Closer
}

// NewReadCloser wraps rc; a nil limiter returns rc unchanged
func NewReadCloser(ctx context.Context, rc io.ReadCloser, limiter *Limiter) io.ReadCloser {
	if limiter == nil {
		return rc
	}
	return &ReadCloser{
		Reader: Reader{ctx: ctx, reader: rc, limiter: limiter},
		closer: rc,
	}
}

// Close closes the wrapped stream
func (rc *ReadCloser) Close() error {
	return rc.closer.Close()
}
