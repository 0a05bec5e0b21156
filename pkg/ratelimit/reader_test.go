package ratelimit

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLimiter(t *testing.T) {
	assert.Nil(t, NewLimiter(0))
	assert.Nil(t, NewLimiter(-100))

	small := NewLimiter(1000)
	require.NotNil(t, small)
	assert.Equal(t, int64(1000), small.Rate())
	assert.Equal(t, int64(minBurst), small.burst)

	large := NewLimiter(10 * 1024 * 1024)
	require.NotNil(t, large)
	assert.Equal(t, int64(10*1024*1024), large.burst)
	assert.Equal(t, large.burst, large.tokens, "bucket starts full")
}

func TestLimiter_NilIsUnlimited(t *testing.T) {
	var l *Limiter
	assert.Equal(t, int64(0), l.Rate())
	assert.NoError(t, l.Wait(context.Background(), 1<<30))

	r := strings.NewReader("abc")
	assert.Same(t, r, NewReader(context.Background(), r, nil))

	rc := io.NopCloser(r)
	assert.Equal(t, rc, NewReadCloser(context.Background(), rc, nil))
}

func TestLimiter_Refill(t *testing.T) {
	l := NewLimiter(1000)
	base := time.Now()
	l.tokens = 0
	l.last = base
	l.now = func() time.Time { return base.Add(250 * time.Millisecond) }

	l.mu.Lock()
	l.refill()
	l.mu.Unlock()
	assert.Equal(t, int64(250), l.tokens)

	l.now = func() time.Time { return base.Add(time.Hour) }
	l.mu.Lock()
	l.refill()
	l.mu.Unlock()
	assert.Equal(t, l.burst, l.tokens, "never above burst")
}

func TestLimiter_WaitHonorsContext(t *testing.T) {
	l := NewLimiter(1000)
	l.tokens = 0
	l.now = func() time.Time { return l.last }

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Wait(ctx, 500)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestReader_ReadsEverything(t *testing.T) {
	data := bytes.Repeat([]byte("0123456789"), 10000)
	l := NewLimiter(100 * 1024 * 1024)

	got, err := io.ReadAll(NewReader(context.Background(), bytes.NewReader(data), l))
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestReader_RefundsShortReads(t *testing.T) {
	l := NewLimiter(1000)
	r := NewReader(context.Background(), strings.NewReader("hi"), l)

	buf := make([]byte, 1024)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.GreaterOrEqual(t, l.tokens, l.burst-2)
}

func TestReader_Throttles(t *testing.T) {
	const rate = 64 * 1024
	l := NewLimiter(rate)
	data := make([]byte, rate+rate/4)

	start := time.Now()
	_, err := io.Copy(io.Discard, NewReader(context.Background(), bytes.NewReader(data), l))
	require.NoError(t, err)

	// the first burst is free; the remaining quarter second must be waited for
	assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
}

type closeTracker struct {
	io.Reader
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func TestReadCloser(t *testing.T) {
	src := &closeTracker{Reader: strings.NewReader("payload")}
	rc := NewReadCloser(context.Background(), src, NewLimiter(1024*1024))

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	require.NoError(t, rc.Close())
	assert.True(t, src.closed)
}
