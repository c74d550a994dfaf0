package dispatch

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"
	"syscall"

	"github.com/goccy/go-json"

	"algolia-recommend/message"
)

// Classify decides what one attempt against host means for the call.
//
//	2xx                               → Success
//	5xx, 429                          → Retryable (*APIError)
//	any other status                  → Terminal  (*APIError)
//	connect / timeout / bad request   → Retryable (*TransportError)
//	caller cancellation, anything else → Terminal (*TransportError)
func Classify(host string, resp *message.Response, err error) Outcome {
	if err != nil {
		return classifyTransport(host, err)
	}
	if resp == nil {
		return Outcome{
			Kind:   OutcomeTerminal,
			Reason: "transport",
			Err:    &TransportError{Host: host, Reason: "transport", Err: errors.New("no response")},
		}
	}

	if resp.IsSuccess() {
		return Outcome{Kind: OutcomeSuccess, Reason: "success", Response: resp}
	}

	apiErr := ParseAPIError(resp.StatusCode, resp.Body)
	apiErr.Host = host
	switch {
	case resp.StatusCode >= 500 && resp.StatusCode <= 599:
		return Outcome{Kind: OutcomeRetryable, Reason: "http_5xx", Err: apiErr}
	case resp.StatusCode == 429:
		return Outcome{Kind: OutcomeRetryable, Reason: "http_429", Err: apiErr}
	default:
		return Outcome{Kind: OutcomeTerminal, Reason: "http_non_retryable_status", Err: apiErr}
	}
}

// ParseAPIError builds the error detail for a non-2xx body: the "message"
// field of a JSON object when present, the raw text otherwise.
func ParseAPIError(status int, body []byte) *APIError {
	e := &APIError{StatusCode: status, Body: string(body)}

	var payload struct {
		Message *string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != nil {
		e.Message = *payload.Message
		return e
	}
	e.Message = strings.TrimSpace(string(body))
	return e
}

func classifyTransport(host string, err error) Outcome {
	reason, retryable := transportReason(err)
	kind := OutcomeTerminal
	if retryable {
		kind = OutcomeRetryable
	}
	return Outcome{
		Kind:   kind,
		Reason: reason,
		Err:    &TransportError{Host: host, Reason: reason, Retryable: retryable, Err: err},
	}
}

func transportReason(err error) (string, bool) {
	// The caller gave up; another host will not change that.
	if errors.Is(err, context.Canceled) {
		return "canceled", false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout", true
	}

	var timeout interface{ Timeout() bool }
	if errors.As(err, &timeout) && timeout.Timeout() {
		return "timeout", true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "dns", true
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EHOSTUNREACH) || errors.Is(err, syscall.ENETUNREACH) {
		return "connection", true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return "connection", true
	}

	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return "request", true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Op == "parse" {
		return "request", true
	}

	return "transport", false
}

// requestError marks a failure to build the request for one host.
type requestError struct {
	err error
}

func (e *requestError) Error() string { return "build request: " + e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }
