// Package loadbalance holds the endpoint pool a client spreads its calls over.
//
// Every host in a pool is an equivalent replica of the recommendations API.
// The pool never picks a single host for a call; it picks the offset the
// dispatcher starts from, and the dispatcher walks the rest of the ring from
// there when a host fails:
//
//	hosts:   [ dsn ][ main ][ fb-1 ][ fb-2 ][ fb-3 ]
//	call 1:    ^start ──► ──► ──► ──►
//	call 2:           ^start ──► ──► ──► (wraps to dsn)
package loadbalance

// Balancer chooses the starting offset for a call over n equivalent hosts.
type Balancer interface {
	// Next returns an offset in [0, n). Called once per call, from many
	// goroutines at once, so it must be goroutine-safe.
	Next(n int) int

	// Name returns the strategy name (for logging/debugging).
	Name() string
}
