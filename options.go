package dhis2

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Option configures a Client at construction time.
type Option func(*Client)

// WithConcurrencyLimit caps the number of in-flight requests. Values
// below 1 are clamped to 1. Default: 200.
func WithConcurrencyLimit(n int) Option {
	return func(c *Client) {
		c.limiter = newLimiter(n)
	}
}

// WithTimeout sets the default per-request timeout used when a call
// does not carry its own override. Default: 30s.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRetry replaces the retry policy.
func WithRetry(cfg RetryConfig) Option {
	return func(c *Client) {
		if cfg.MaxAttempts > 0 {
			c.retry = cfg
		}
	}
}

// WithLogger installs a structured logger. Default: a no-op logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithTransport replaces the underlying round tripper, e.g. for
// proxying or tests. The replacement applies to sessions created after
// the option is evaluated.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.transport = rt
	}
}

// requestOptions carries per-call settings.
type requestOptions struct {
	params  map[string]string
	timeout time.Duration
}

// RequestOption configures a single Get, GetStreamed or Post call.
type RequestOption func(*requestOptions)

// WithParams sets the query parameters for the request.
func WithParams(params map[string]string) RequestOption {
	return func(ro *requestOptions) {
		ro.params = params
	}
}

// WithRequestTimeout overrides the client default timeout for this
// call only.
func WithRequestTimeout(d time.Duration) RequestOption {
	return func(ro *requestOptions) {
		if d > 0 {
			ro.timeout = d
		}
	}
}

func (c *Client) buildRequestOptions(opts []RequestOption) requestOptions {
	ro := requestOptions{timeout: c.timeout}
	for _, opt := range opts {
		opt(&ro)
	}
	return ro
}
