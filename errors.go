package dhis2

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies a request failure. The retry policy branches on
// this tag alone, never on the shape of the underlying error.
type ErrorKind string

const (
	// KindNonRetryable marks failures that must not be retried: a 400
	// bad request or any other non-5xx HTTP error status.
	KindNonRetryable ErrorKind = "non_retryable"

	// KindServer marks 5xx responses. Retryable.
	KindServer ErrorKind = "server"

	// KindNetwork marks transport failures, timeouts and empty success
	// bodies. Retryable.
	KindNetwork ErrorKind = "network"
)

// APIError is a classified request failure.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	URL        string
	Message    string
	Cause      error
}

func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("dhis2: %s: %s", e.Kind, e.Message)
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is compares error kinds for errors.Is.
func (e *APIError) Is(target error) bool {
	if e == nil {
		return false
	}
	if targetErr, ok := target.(*APIError); ok {
		return e.Kind == targetErr.Kind
	}
	return false
}

// Retryable reports whether the classification permits another attempt.
func (e *APIError) Retryable() bool {
	return e != nil && e.Kind != KindNonRetryable
}

// IsRetryable reports whether err may trigger another attempt.
// Classification wins: only errors carrying a retryable *APIError tag
// qualify. Unclassified errors (malformed JSON, programming errors)
// and context cancellation never retry.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	return false
}
