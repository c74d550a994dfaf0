// Package middleware wraps the single HTTP exchange of a dispatch attempt.
//
// Middlewares see every attempt, not every call: a call that rotates over
// three hosts passes through the chain three times. Host rotation itself is
// not a middleware; it lives in the dispatcher so the retry policy stays in
// one place.
package middleware

import (
	"context"

	"algolia-recommend/message"
)

// HandlerFunc performs one attempt.
type HandlerFunc func(ctx context.Context, req *message.Request) (*message.Response, error)

type Middleware func(next HandlerFunc) HandlerFunc

// Chain 将多个中间件组合成一个中间件
// The first middleware is the outermost.
func Chain(middlewares ...Middleware) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}
