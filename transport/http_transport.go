package transport

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"algolia-recommend/message"
)

// DefaultUserAgent identifies this client to the API.
const DefaultUserAgent = "algolia-recommend-go/0.1"

// Options configures an HTTPTransport.
type Options struct {
	// Timeout bounds a whole exchange including the body read. Zero leaves
	// the bound to the caller's context.
	Timeout time.Duration

	// UserAgent overrides DefaultUserAgent.
	UserAgent string

	// HTTPClient replaces the underlying *http.Client (custom TLS, proxies).
	HTTPClient *http.Client

	// Logger receives resty's own warnings and errors.
	Logger *zerolog.Logger
}

// HTTPTransport is a resty-backed Transport. Resty's built-in retries stay
// disabled; host rotation is the only retry mechanism.
type HTTPTransport struct {
	client *resty.Client
}

var _ Transport = (*HTTPTransport)(nil)

// NewHTTPTransport creates a transport from opts.
func NewHTTPTransport(opts Options) *HTTPTransport {
	var c *resty.Client
	if opts.HTTPClient != nil {
		c = resty.NewWithClient(opts.HTTPClient)
	} else {
		c = resty.New()
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}

	c.SetRetryCount(0).
		SetHeader("User-Agent", ua)
	if opts.Timeout > 0 {
		c.SetTimeout(opts.Timeout)
	}
	if opts.Logger != nil {
		c.SetLogger(restyLogger{l: *opts.Logger})
	}

	return &HTTPTransport{client: c}
}

// RoundTrip executes req and returns whatever the host answered.
func (t *HTTPTransport) RoundTrip(ctx context.Context, req *message.Request) (*message.Response, error) {
	r := t.client.R().SetContext(ctx)
	// resty rejects a nil body before dialing
	if req.Body != nil {
		r.SetBody(req.Body)
	}

	for k, vs := range req.Header {
		for _, v := range vs {
			r.Header.Add(k, v)
		}
	}

	method := req.Method
	if method == "" {
		method = http.MethodPost
	}

	resp, err := r.Execute(method, req.URL())
	if err != nil {
		return nil, err
	}

	return &message.Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}, nil
}

// restyLogger forwards resty's printf-style logging into zerolog.
type restyLogger struct {
	l zerolog.Logger
}

func (r restyLogger) Errorf(format string, v ...interface{}) {
	r.l.Error().Str("source", "resty").Msgf(format, v...)
}

func (r restyLogger) Warnf(format string, v ...interface{}) {
	r.l.Warn().Str("source", "resty").Msgf(format, v...)
}

func (r restyLogger) Debugf(format string, v ...interface{}) {
	r.l.Debug().Str("source", "resty").Msgf(format, v...)
}
