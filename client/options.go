package client

import (
	"time"

	"github.com/rs/zerolog"

	"algolia-recommend/middleware"
	"algolia-recommend/transport"
)

// DefaultTimeout bounds each attempt against one host.
const DefaultTimeout = 5 * time.Second

type options struct {
	timeout         time.Duration
	deadline        time.Duration
	rps             float64
	burst           int
	logger          zerolog.Logger
	metrics         *middleware.Metrics
	defaultObjectID string
	transport       transport.Transport
}

func defaultOptions() *options {
	return &options{
		timeout: DefaultTimeout,
		logger:  zerolog.Nop(),
	}
}

// Option configures a Client.
type Option func(*options)

// WithTimeout sets the per-attempt timeout. Zero or less disables it.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithDeadline bounds a whole call across every host it tries.
func WithDeadline(d time.Duration) Option {
	return func(o *options) {
		o.deadline = d
	}
}

// WithRateLimit caps outgoing attempts at rps per second with the given
// burst (at least 1). Attempts wait for a token rather than fail.
func WithRateLimit(rps float64, burst int) Option {
	return func(o *options) {
		o.rps = rps
		o.burst = burst
	}
}

// WithLogger sets the logger for attempt, rotation and transport events.
// The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics records per-attempt metrics into m.
func WithMetrics(m *middleware.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithDefaultObjectID sets the seed object used by GetRecommendations.
func WithDefaultObjectID(objectID string) Option {
	return func(o *options) {
		o.defaultObjectID = objectID
	}
}

// WithTransport replaces the HTTP transport, e.g. to inject failures.
func WithTransport(t transport.Transport) Option {
	return func(o *options) {
		o.transport = t
	}
}
