// Package message defines the envelopes exchanged for one dispatch attempt.
//
// A Request is built once per host tried within a call; its Body is the
// already-encoded batch and is shared, read-only, across attempts. A Response
// carries the raw status and body so the dispatcher can classify the outcome
// before anything is decoded.
package message

import "net/http"

// Request is a single HTTP exchange against one host.
type Request struct {
	Method  string      // Always POST for the batched recommendations endpoint
	Host    string      // Base URL of the host, e.g. "https://APPID-dsn.algolia.net"
	Path    string      // Fixed API path appended to Host
	Header  http.Header // Accept, Content-Type and credential headers
	Body    []byte      // Encoded batch, identical for every attempt of a call
	Attempt int         // Zero-based attempt number within the call
}

// URL returns the full request URL.
func (r *Request) URL() string {
	return r.Host + r.Path
}

// Response is what came back from a host that answered at all.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
