// Package transport performs the single HTTP exchange behind one dispatch
// attempt.
//
// A Transport never retries and never interprets the status code: a host that
// answered (with any status) yields a Response, a host that did not yields an
// error. Deciding what either means is the dispatcher's job.
package transport

import (
	"context"

	"algolia-recommend/message"
)

// Transport sends one request to one host.
type Transport interface {
	RoundTrip(ctx context.Context, req *message.Request) (*message.Response, error)
}

// Func adapts a plain function to Transport.
type Func func(ctx context.Context, req *message.Request) (*message.Response, error)

func (f Func) RoundTrip(ctx context.Context, req *message.Request) (*message.Response, error) {
	return f(ctx, req)
}
