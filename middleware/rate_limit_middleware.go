package middleware

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/time/rate"

	"algolia-recommend/message"
)

// ErrRateLimited is returned when an attempt could not obtain a token.
var ErrRateLimited = errors.New("rate limit exceeded")

// RateLimitMiddleware 创建一个基于令牌桶算法的限流中间件.
// Unlike a server-side limiter it waits for a token instead of rejecting;
// the wait ends early only when ctx does or when the token could never
// arrive before ctx's deadline. A burst below 1 is raised to 1, since a
// zero-sized bucket never grants a token.
func RateLimitMiddleware(r float64, burst int) Middleware {
	burst = max(burst, 1)
	limiter := rate.NewLimiter(rate.Limit(r), burst)
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *message.Request) (*message.Response, error) {
			if err := limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrRateLimited, err)
			}
			return next(ctx, req)
		}
	}
}
