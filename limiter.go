package dhis2

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// limiter caps the number of in-flight requests issued through one
// client. It is a concurrency cap, not a token-bucket rate limiter:
// a slot is held from just before a request is issued until the
// response (or the full streamed body) has been consumed.
type limiter struct {
	sem *semaphore.Weighted
}

func newLimiter(n int) *limiter {
	if n < 1 {
		n = 1
	}
	return &limiter{sem: semaphore.NewWeighted(int64(n))}
}

// acquire blocks until a slot is free or ctx is done.
func (l *limiter) acquire(ctx context.Context) error {
	return l.sem.Acquire(ctx, 1)
}

func (l *limiter) release() {
	l.sem.Release(1)
}
