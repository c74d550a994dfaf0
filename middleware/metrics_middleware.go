package middleware

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"algolia-recommend/message"
)

// Metrics holds the per-attempt collectors.
type Metrics struct {
	// Attempts counts attempts per host.
	// Labels:
	//   - host: host part of the base URL
	//   - code: HTTP status, or "error" when no response arrived
	Attempts *prometheus.CounterVec

	// Duration measures attempt latency per host.
	Duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered, which is handy in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recommend_attempts_total",
				Help: "Total number of recommendation API attempts by host and status code",
			},
			[]string{"host", "code"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "recommend_attempt_duration_seconds",
				Help:    "Duration of recommendation API attempts in seconds",
				Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"host"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Attempts, m.Duration)
	}
	return m
}

// Middleware records every attempt that passes through it.
func (m *Metrics) Middleware() Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *message.Request) (*message.Response, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			host := hostLabel(req.Host)
			code := "error"
			if err == nil && resp != nil {
				code = strconv.Itoa(resp.StatusCode)
			}
			m.Attempts.WithLabelValues(host, code).Inc()
			m.Duration.WithLabelValues(host).Observe(time.Since(start).Seconds())
			return resp, err
		}
	}
}

func hostLabel(base string) string {
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return base
	}
	return u.Host
}
