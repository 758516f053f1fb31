package dhis2

import (
	"context"
	"time"
)

// RetryConfig configures the retry policy shared by Get, GetStreamed
// and Post. It is per-client state; two clients never share retry
// settings.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts (1 initial + retries).
	MaxAttempts int
	// Multiplier scales the exponential backoff curve, in seconds.
	Multiplier float64
	// MinWait is the floor for the delay between attempts.
	MinWait time.Duration
	// MaxWait is the ceiling for the delay between attempts.
	MaxWait time.Duration
}

// DefaultRetryConfig mirrors the server-friendly defaults: three
// attempts with an exponential wait bounded to [1s, 10s].
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		Multiplier:  1.0,
		MinWait:     time.Second,
		MaxWait:     10 * time.Second,
	}
}

// delay computes the backoff before the attempt following attempt n
// (1-based): multiplier * 2^(n-1) seconds, clamped to [MinWait, MaxWait].
func (r RetryConfig) delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := time.Duration(r.Multiplier * float64(uint64(1)<<(attempt-1)) * float64(time.Second))
	if d < r.MinWait {
		d = r.MinWait
	}
	if d > r.MaxWait {
		d = r.MaxWait
	}
	return d
}

// wait sleeps for the backoff delay after attempt n, aborting early if
// ctx is done.
func (r RetryConfig) wait(ctx context.Context, attempt int) error {
	timer := time.NewTimer(r.delay(attempt))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// withRetry runs fn up to MaxAttempts times, backing off between
// attempts. Only errors whose classification is retryable trigger
// another attempt; the last error is returned unchanged in kind.
func (c *Client) withRetry(ctx context.Context, op string, fn func(context.Context) (map[string]any, error)) (map[string]any, error) {
	cfg := c.retry
	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		out, err := fn(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if !IsRetryable(err) || attempt == cfg.MaxAttempts || ctx.Err() != nil {
			return nil, lastErr
		}

		c.log.Warnw("retrying request",
			"op", op,
			"attempt", attempt,
			"maxAttempts", cfg.MaxAttempts,
			"error", err.Error(),
		)
		if werr := cfg.wait(ctx, attempt); werr != nil {
			return nil, lastErr
		}
	}
	return nil, lastErr
}
