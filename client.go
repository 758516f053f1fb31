package dhis2

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/icap-angola/dhis2-go/internal/config"
	"github.com/icap-angola/dhis2-go/internal/logger"
)

const (
	defaultTimeout          = 30 * time.Second
	defaultConcurrencyLimit = 200
	connectTimeout          = 5 * time.Second
)

// Client is a DHIS2 REST API client. It owns a pooled HTTP session, a
// concurrency cap and a fixed set of Basic-Auth headers, and funnels
// Get, GetStreamed and Post through one retry policy and one response
// interpreter. It is safe for concurrent use.
//
// The session is created lazily on first use and recreated
// transparently after Close. Close is never implicit: a client used
// inside a scoped block intentionally keeps its session alive when the
// block ends, so it can be reused across scopes. The owner calls Close
// exactly when done.
type Client struct {
	baseURL   string
	headers   map[string]string
	timeout   time.Duration
	retry     RetryConfig
	limiter   *limiter
	log       *zap.SugaredLogger
	transport http.RoundTripper

	mu      sync.Mutex
	session *resty.Client
}

// New builds a client for the DHIS2 server at baseURL, authenticating
// every request with HTTP Basic auth. baseURL is normalized to end in
// exactly one "/api/" segment.
func New(username, password, baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("dhis2: base URL is required")
	}

	c := &Client{
		baseURL: normalizeBaseURL(baseURL),
		headers: basicAuthHeaders(username, password),
		timeout: defaultTimeout,
		retry:   DefaultRetryConfig(),
		limiter: newLimiter(defaultConcurrencyLimit),
		log:     zap.NewNop().Sugar(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// NewFromEnv builds a client from DHIS2_* environment variables
// (optionally seeded from a .env file), with a real logger at the
// configured level.
func NewFromEnv(opts ...Option) (*Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	base := []Option{
		WithConcurrencyLimit(cfg.ConcurrencyLimit),
		WithTimeout(cfg.Timeout),
		WithRetry(RetryConfig{
			MaxAttempts: cfg.RetryMaxAttempts,
			Multiplier:  cfg.RetryBackoffMultiple,
			MinWait:     cfg.RetryMinWait,
			MaxWait:     cfg.RetryMaxWait,
		}),
		WithLogger(log),
	}

	return New(cfg.Username, cfg.Password, cfg.BaseURL, append(base, opts...)...)
}

// normalizeBaseURL ensures the base URL ends with exactly one "/api/"
// segment regardless of trailing slashes or an existing suffix.
func normalizeBaseURL(raw string) string {
	trimmed := strings.TrimRight(raw, "/")
	if strings.HasSuffix(trimmed, "/api") {
		return trimmed + "/"
	}
	return trimmed + "/api/"
}

// buildURL joins the normalized base URL with an endpoint, stripping
// leading slashes to avoid doubled separators.
func (c *Client) buildURL(endpoint string) string {
	return c.baseURL + strings.TrimLeft(endpoint, "/")
}

// ensureSession returns the live session, creating one if none exists
// or the previous one was closed.
func (c *Client) ensureSession() *resty.Client {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		transport := c.transport
		if transport == nil {
			transport = &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   connectTimeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        defaultConcurrencyLimit,
				MaxIdleConnsPerHost: defaultConcurrencyLimit,
				IdleConnTimeout:     90 * time.Second,
			}
		}
		c.session = resty.NewWithClient(&http.Client{Transport: transport}).
			SetHeaders(c.headers)
	}
	return c.session
}

// Connect pre-creates the pooled session so the first request does not
// pay connection setup inside its own deadline. It is optional; every
// request creates the session on demand.
func (c *Client) Connect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.ensureSession()
	return nil
}

// Close tears down the pooled session. It is idempotent, and never
// called implicitly: a subsequent request transparently creates a
// fresh session.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return
	}
	c.session.GetClient().CloseIdleConnections()
	c.session = nil
}

// Get issues a GET against the given API endpoint and returns the
// decoded JSON body. Transient failures are retried with backoff;
// client errors (400 and other non-5xx statuses) surface immediately.
func (c *Client) Get(ctx context.Context, endpoint string, opts ...RequestOption) (map[string]any, error) {
	ro := c.buildRequestOptions(opts)
	url := c.buildURL(endpoint)

	return c.withRetry(ctx, "GET "+url, func(ctx context.Context) (map[string]any, error) {
		if err := c.limiter.acquire(ctx); err != nil {
			return nil, err
		}
		defer c.limiter.release()

		reqCtx, cancel := context.WithTimeout(ctx, ro.timeout)
		defer cancel()

		resp, err := c.ensureSession().R().
			SetContext(reqCtx).
			SetQueryParams(ro.params).
			Get(url)
		if err != nil {
			return nil, c.networkError(url, err)
		}
		return c.interpret(url, resp)
	})
}

// Post issues a POST with a JSON-encoded body against the given API
// endpoint and returns the decoded JSON response. Retried like Get.
func (c *Client) Post(ctx context.Context, endpoint string, body any, opts ...RequestOption) (map[string]any, error) {
	ro := c.buildRequestOptions(opts)
	url := c.buildURL(endpoint)

	return c.withRetry(ctx, "POST "+url, func(ctx context.Context) (map[string]any, error) {
		if err := c.limiter.acquire(ctx); err != nil {
			return nil, err
		}
		defer c.limiter.release()

		reqCtx, cancel := context.WithTimeout(ctx, ro.timeout)
		defer cancel()

		req := c.ensureSession().R().
			SetContext(reqCtx).
			SetQueryParams(ro.params)
		if body != nil {
			req.SetBody(body)
		}
		resp, err := req.Post(url)
		if err != nil {
			return nil, c.networkError(url, err)
		}
		return c.interpret(url, resp)
	})
}
