// Package dispatch turns one encoded request batch into at most one
// successful HTTP exchange, rotating over the hosts of a pool.
//
// One call, pool of three, starting offset 1:
//
//	attempt 0 ──► host[1]  500  → retryable, remember error, move on
//	attempt 1 ──► host[2]  dial refused → retryable, remember error, move on
//	attempt 2 ──► host[0]  200  → decode body, done
//
// A terminal outcome (4xx other than 429, cancellation, a 2xx body that does
// not decode) ends the call at once. If every host fails retryably the
// caller gets an *ExhaustedError wrapping the last host's error.
package dispatch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"algolia-recommend/codec"
	"algolia-recommend/loadbalance"
	"algolia-recommend/message"
	"algolia-recommend/middleware"
)

// Dispatcher executes calls against a pool. It is safe for concurrent use;
// the only state shared between calls is the pool's rotation cursor.
type Dispatcher struct {
	pool     *loadbalance.Pool
	codec    codec.Codec
	handler  middleware.HandlerFunc // middleware(middleware(...(transport.RoundTrip)))
	header   http.Header            // sent on every attempt
	logger   zerolog.Logger
	deadline time.Duration                        // whole-call budget, 0 = none
	hook     func(ctx context.Context, a Attempt) // observes each attempt, may be nil
}

// New creates a dispatcher over pool.
func New(pool *loadbalance.Pool, opts ...Option) *Dispatcher {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	header := o.header.Clone()
	header.Set("Accept", o.codec.ContentType())
	header.Set("Content-Type", o.codec.ContentType())

	return &Dispatcher{
		pool:     pool,
		codec:    o.codec,
		handler:  middleware.Chain(o.middlewares...)(o.transport.RoundTrip),
		header:   header,
		logger:   o.logger,
		deadline: o.deadline,
		hook:     o.hook,
	}
}

// Pool returns the pool the dispatcher rotates over.
func (d *Dispatcher) Pool() *loadbalance.Pool {
	return d.pool
}

// Send posts body to path and decodes the answer as T.
func Send[T any](ctx context.Context, d *Dispatcher, path string, body any) (T, error) {
	var out T
	if err := d.Do(ctx, path, body, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Do posts body to path and decodes the answer into out, which must be a
// pointer. Errors are *APIError, *TransportError, *DecodeError or
// *ExhaustedError; an encoding failure of body is returned before any host
// is contacted.
func (d *Dispatcher) Do(ctx context.Context, path string, body any, out any) error {
	payload, err := d.codec.Encode(body)
	if err != nil {
		return fmt.Errorf("dispatch: encode request: %w", err)
	}

	if d.deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.deadline)
		defer cancel()
	}

	log := d.logger.With().Str("call_id", uuid.NewString()).Str("path", path).Logger()

	n := d.pool.Size()
	start := d.pool.NextStart()

	var lastErr error
	attempts := 0
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return &ExhaustedError{Attempts: attempts, Last: lastErr}
			}
			return &TransportError{Host: d.pool.Host(start), Reason: "canceled", Err: err}
		}

		idx := (start + i) % n
		a := d.attempt(ctx, i, idx, path, payload)
		attempts++
		if d.hook != nil {
			d.hook(ctx, a)
		}

		switch a.Outcome.Kind {
		case OutcomeSuccess:
			resp := a.Outcome.Response
			if err := d.codec.Decode(resp.Body, out); err != nil {
				log.Debug().Err(err).Str("host", a.Host).Msg("response did not decode")
				return &DecodeError{Host: a.Host, StatusCode: resp.StatusCode, Body: string(resp.Body), Err: err}
			}
			return nil

		case OutcomeRetryable:
			lastErr = a.Outcome.Err
			if i+1 < n {
				log.Warn().
					Err(lastErr).
					Str("host", a.Host).
					Str("reason", a.Outcome.Reason).
					Str("next_host", d.pool.Host(start+i+1)).
					Msg("rotating to next host")
			}

		default:
			log.Debug().Err(a.Outcome.Err).Str("host", a.Host).Str("reason", a.Outcome.Reason).Msg("terminal failure")
			return a.Outcome.Err
		}
	}

	log.Warn().Err(lastErr).Int("attempts", attempts).Msg("all hosts failed")
	return &ExhaustedError{Attempts: attempts, Last: lastErr}
}

// attempt performs and classifies one exchange against the host at idx.
func (d *Dispatcher) attempt(ctx context.Context, number, idx int, path string, payload []byte) Attempt {
	host := d.pool.Host(idx)
	a := Attempt{Number: number, HostIndex: idx, Host: host}

	req := &message.Request{
		Method:  http.MethodPost,
		Host:    host,
		Path:    path,
		Header:  d.header.Clone(),
		Body:    payload,
		Attempt: number,
	}

	start := time.Now()
	if err := checkURL(req.URL()); err != nil {
		a.Outcome = Classify(host, nil, &requestError{err: err})
	} else {
		resp, err := d.handler(ctx, req)
		a.Outcome = Classify(host, resp, err)
	}
	a.Duration = time.Since(start)

	d.logger.Debug().
		Str("host", host).
		Int("attempt", number).
		Str("outcome", a.Outcome.Kind.String()).
		Str("reason", a.Outcome.Reason).
		Dur("duration", a.Duration).
		Msg("attempt classified")
	return a
}

// checkURL rejects URLs the HTTP client could never send, such as a bare
// "host:port" that parses with the host name as its scheme.
func checkURL(raw string) error {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q in %q", u.Scheme, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("no host in %q", raw)
	}
	return nil
}
