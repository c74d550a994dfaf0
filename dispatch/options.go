package dispatch

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"algolia-recommend/codec"
	"algolia-recommend/middleware"
	"algolia-recommend/transport"
)

type options struct {
	transport   transport.Transport
	codec       codec.Codec
	middlewares []middleware.Middleware
	header      http.Header
	logger      zerolog.Logger
	deadline    time.Duration
	hook        func(ctx context.Context, a Attempt)
}

func defaultOptions() *options {
	return &options{
		transport: transport.NewHTTPTransport(transport.Options{}),
		codec:     codec.Default(),
		header:    http.Header{},
		logger:    zerolog.Nop(),
	}
}

// Option configures a Dispatcher.
type Option func(*options)

// WithTransport replaces the resty-backed HTTP transport.
func WithTransport(t transport.Transport) Option {
	return func(o *options) {
		if t != nil {
			o.transport = t
		}
	}
}

// WithCodec replaces the JSON codec.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithMiddleware appends attempt middlewares; the first one is outermost.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(o *options) {
		o.middlewares = append(o.middlewares, mws...)
	}
}

// WithHeader sets a header sent on every attempt.
func WithHeader(key, value string) Option {
	return func(o *options) {
		o.header.Set(key, value)
	}
}

// WithLogger sets the logger for attempt and rotation events.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithDeadline bounds a whole call, across every host it tries. Zero, the
// default, leaves only the per-attempt timeout.
func WithDeadline(d time.Duration) Option {
	return func(o *options) {
		o.deadline = d
	}
}

// WithAttemptHook registers fn to observe every classified attempt.
func WithAttemptHook(fn func(ctx context.Context, a Attempt)) Option {
	return func(o *options) {
		o.hook = fn
	}
}
