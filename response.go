package dhis2

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// interpret turns a completed response into the decoded JSON body or a
// classified error. Classification happens here, once; the retry
// policy only looks at the resulting kind.
func (c *Client) interpret(url string, resp *resty.Response) (map[string]any, error) {
	status := resp.StatusCode()

	switch {
	case resp.IsSuccess():
		body := resp.Body()
		if len(bytes.TrimSpace(body)) == 0 {
			c.log.Errorw("empty response body", "url", url, "status", status)
			return nil, &APIError{
				Kind:       KindNetwork,
				StatusCode: status,
				URL:        url,
				Message:    "empty response body",
			}
		}
		var out map[string]any
		if err := json.Unmarshal(body, &out); err != nil {
			// Deliberately not an *APIError: a malformed body on a
			// success status is not a request failure to retry.
			return nil, fmt.Errorf("decode response from %s: %w", url, err)
		}
		return out, nil

	case status == http.StatusBadRequest:
		c.log.Errorw("bad request", "url", url, "status", status)
		return nil, &APIError{
			Kind:       KindNonRetryable,
			StatusCode: status,
			URL:        url,
			Message:    "bad request: " + bodySnippet(resp.Body()),
		}

	case status >= 500 && status <= 599:
		c.log.Warnw("server error", "url", url, "status", status)
		return nil, &APIError{
			Kind:       KindServer,
			StatusCode: status,
			URL:        url,
			Message:    "server error",
		}

	default:
		c.log.Errorw("http error", "url", url, "status", status)
		return nil, &APIError{
			Kind:       KindNonRetryable,
			StatusCode: status,
			URL:        url,
			Message:    fmt.Sprintf("HTTP error %d", status),
		}
	}
}

// classifyStatus mirrors interpret for responses whose body has not
// been read yet (streamed requests). A nil return means 2xx.
func (c *Client) classifyStatus(url string, status int, snippet string) *APIError {
	switch {
	case status >= 200 && status <= 299:
		return nil
	case status == http.StatusBadRequest:
		c.log.Errorw("bad request", "url", url, "status", status)
		return &APIError{
			Kind:       KindNonRetryable,
			StatusCode: status,
			URL:        url,
			Message:    "bad request: " + snippet,
		}
	case status >= 500 && status <= 599:
		c.log.Warnw("server error", "url", url, "status", status)
		return &APIError{
			Kind:       KindServer,
			StatusCode: status,
			URL:        url,
			Message:    "server error",
		}
	default:
		c.log.Errorw("http error", "url", url, "status", status)
		return &APIError{
			Kind:       KindNonRetryable,
			StatusCode: status,
			URL:        url,
			Message:    fmt.Sprintf("HTTP error %d", status),
		}
	}
}

// networkError wraps a transport-level failure (connect, send,
// receive, timeout) as retryable.
func (c *Client) networkError(url string, err error) *APIError {
	c.log.Errorw("request failed", "url", url, "error", err.Error())
	return &APIError{
		Kind:    KindNetwork,
		URL:     url,
		Message: "request failed",
		Cause:   err,
	}
}

func bodySnippet(body []byte) string {
	if len(body) > 512 {
		body = body[:512]
	}
	return strings.TrimSpace(string(body))
}
