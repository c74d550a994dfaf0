package loadbalance

import "sync/atomic"

// RoundRobinBalancer hands out offsets 0, 1, 2 ... modulo n.
// Uses an atomic counter for lock-free, goroutine-safe operation. Two
// concurrent callers may land on the same offset when n changes between
// them; that only skews load, never correctness.
type RoundRobinBalancer struct {
	counter atomic.Uint64 // incremented on each Next()
}

// Next returns the current counter value modulo n and advances the counter.
func (b *RoundRobinBalancer) Next(n int) int {
	if n <= 0 {
		return 0
	}
	old := b.counter.Add(1) - 1
	return int(old % uint64(n))
}

func (b *RoundRobinBalancer) Name() string {
	return "RoundRobin"
}
