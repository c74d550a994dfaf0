package middleware

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"algolia-recommend/message"
)

// LoggingMiddleware logs every attempt at debug level and failed exchanges
// at warn. Headers are never logged; they carry the API key.
func LoggingMiddleware(logger zerolog.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *message.Request) (*message.Response, error) {
			start := time.Now()
			resp, err := next(ctx, req)
			duration := time.Since(start)

			if err != nil {
				logger.Warn().
					Err(err).
					Str("host", req.Host).
					Int("attempt", req.Attempt).
					Dur("duration", duration).
					Msg("attempt failed before a response")
				return resp, err
			}

			logger.Debug().
				Str("host", req.Host).
				Str("path", req.Path).
				Int("attempt", req.Attempt).
				Int("status", resp.StatusCode).
				Int("bytes", len(resp.Body)).
				Dur("duration", duration).
				Msg("attempt completed")
			return resp, nil
		}
	}
}
