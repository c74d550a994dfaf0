package dispatch

import (
	"errors"
	"fmt"
)

// APIError is a non-2xx answer from a reachable host.
type APIError struct {
	Host       string
	StatusCode int
	Message    string // "message" field of a JSON error body, if any
	Body       string // raw response body
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("recommend api error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("recommend api error (status %d)", e.StatusCode)
}

// Retryable reports whether another host might answer differently.
func (e *APIError) Retryable() bool {
	return e.StatusCode == 429 || (e.StatusCode >= 500 && e.StatusCode <= 599)
}

// TransportError means no usable HTTP response came back from Host.
type TransportError struct {
	Host      string
	Reason    string // connection, timeout, dns, request, canceled, transport
	Retryable bool
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error (%s) on %s: %v", e.Reason, e.Host, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError means a 2xx body did not fit the requested shape.
type DecodeError struct {
	Host       string
	StatusCode int
	Body       string
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response from %s (status %d): %v", e.Host, e.StatusCode, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ExhaustedError means every host failed retryably. It unwraps to the last
// host's error, so errors.As finds that host's *APIError or *TransportError.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	if e.Last == nil {
		return "all hosts failed"
	}
	return fmt.Sprintf("all hosts failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }

// Detail is the flat {statusCode, message, rawBody} view of any error
// returned by the dispatcher.
type Detail struct {
	StatusCode int // 0 for transport-level failures
	Message    string
	RawBody    string
}

// DetailOf flattens err. Errors the dispatcher did not produce yield
// a Detail holding only err's text.
func DetailOf(err error) Detail {
	if err == nil {
		return Detail{}
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return Detail{StatusCode: apiErr.StatusCode, Message: apiErr.Message, RawBody: apiErr.Body}
	}
	var decErr *DecodeError
	if errors.As(err, &decErr) {
		return Detail{StatusCode: decErr.StatusCode, Message: decErr.Err.Error(), RawBody: decErr.Body}
	}
	var trErr *TransportError
	if errors.As(err, &trErr) {
		return Detail{Message: trErr.Err.Error()}
	}
	return Detail{Message: err.Error()}
}

// StatusCode returns the HTTP status behind err, or 0.
func StatusCode(err error) int { return DetailOf(err).StatusCode }

// Message returns the human-readable detail behind err.
func Message(err error) string { return DetailOf(err).Message }

// RawBody returns the response body behind err, or "".
func RawBody(err error) string { return DetailOf(err).RawBody }

// IsRetryable reports whether err would have made the dispatcher move on to
// another host.
func IsRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	var trErr *TransportError
	if errors.As(err, &trErr) {
		return trErr.Retryable
	}
	return false
}
