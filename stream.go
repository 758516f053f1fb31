package dhis2

import (
	"context"
	"errors"
	"io"
	"iter"
)

// streamChunkSize is the fixed size of yielded body chunks.
const streamChunkSize = 1024

// GetStreamed issues a GET against the given API endpoint and yields
// the response body as UTF-8 text chunks of up to streamChunkSize
// bytes (the final chunk is the remainder). The sequence is lazy,
// single-pass and forward-only; nothing is sent until iteration
// starts, and stopping iteration early releases the concurrency slot
// and closes the body.
//
// The status is checked before any chunk is yielded. Retry wraps the
// whole stream: a retryable failure, including one in the middle of
// the body, re-issues the request from the beginning, so chunks seen
// before the failure are delivered again. Callers that cannot tolerate
// duplicate chunks must de-duplicate or disable retries.
func (c *Client) GetStreamed(ctx context.Context, endpoint string, opts ...RequestOption) iter.Seq2[string, error] {
	ro := c.buildRequestOptions(opts)
	url := c.buildURL(endpoint)
	cfg := c.retry

	return func(yield func(string, error) bool) {
		var lastErr error
		for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
			done, err := c.streamOnce(ctx, url, ro, yield)
			if done {
				return
			}
			lastErr = err

			if !IsRetryable(err) || attempt == cfg.MaxAttempts || ctx.Err() != nil {
				yield("", lastErr)
				return
			}

			c.log.Warnw("retrying request",
				"op", "GET "+url,
				"attempt", attempt,
				"maxAttempts", cfg.MaxAttempts,
				"error", err.Error(),
			)
			if werr := cfg.wait(ctx, attempt); werr != nil {
				yield("", lastErr)
				return
			}
		}
	}
}

// streamOnce performs a single streamed attempt. It reports done=true
// when the stream completed or the consumer stopped iterating; a
// non-nil error with done=false is a candidate for retry.
func (c *Client) streamOnce(ctx context.Context, url string, ro requestOptions, yield func(string, error) bool) (bool, error) {
	if err := c.limiter.acquire(ctx); err != nil {
		return false, err
	}
	defer c.limiter.release()

	reqCtx, cancel := context.WithTimeout(ctx, ro.timeout)
	defer cancel()

	resp, err := c.ensureSession().R().
		SetContext(reqCtx).
		SetQueryParams(ro.params).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return false, c.networkError(url, err)
	}

	body := resp.RawBody()
	defer body.Close()

	if status := resp.StatusCode(); status < 200 || status > 299 {
		return false, c.classifyStatus(url, status, readSnippet(body))
	}

	buf := make([]byte, streamChunkSize)
	for {
		n, rerr := readChunk(body, buf)
		if n > 0 {
			if !yield(string(buf[:n]), nil) {
				return true, nil
			}
		}
		if errors.Is(rerr, io.EOF) {
			return true, nil
		}
		if rerr != nil {
			return false, c.networkError(url, rerr)
		}
	}
}

// readChunk fills buf from r, stopping early only on error. Unlike
// io.ReadFull it keeps the underlying error intact, so a clean end of
// body (io.EOF) stays distinguishable from a truncated one
// (io.ErrUnexpectedEOF), which must be retried.
func readChunk(r io.Reader, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// readSnippet drains up to 512 bytes of an error body for logging and
// error messages. Read failures here are irrelevant; the status code
// already decides the outcome.
func readSnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 512))
	return bodySnippet(b)
}
