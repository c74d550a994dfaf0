package middleware

import (
	"context"
	"time"

	"algolia-recommend/message"
)

// TimeOutMiddleware bounds each attempt. The deadline is per host: a call
// that rotates gets a fresh budget for every host it tries.
func TimeOutMiddleware(timeout time.Duration) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *message.Request) (*message.Response, error) {
			if timeout <= 0 {
				return next(ctx, req)
			}
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			resp, err := next(ctx, req)
			if err != nil && ctx.Err() == context.DeadlineExceeded {
				// Surface the per-attempt deadline even if the transport
				// reported it as a generic cancellation.
				return nil, &AttemptTimeoutError{Limit: timeout, Err: err}
			}
			return resp, err
		}
	}
}

// AttemptTimeoutError reports an attempt that ran out of its own deadline.
type AttemptTimeoutError struct {
	Limit time.Duration // the per-attempt budget that ran out
	Err   error
}

func (e *AttemptTimeoutError) Error() string {
	return "request timed out after " + e.Limit.String() + ": " + e.Err.Error()
}

func (e *AttemptTimeoutError) Unwrap() error { return e.Err }

// Timeout satisfies net.Error-style checks.
func (e *AttemptTimeoutError) Timeout() bool { return true }
