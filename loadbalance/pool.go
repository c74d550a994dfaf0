package loadbalance

// Pool is the ordered, immutable host list of one client plus the rotation
// cursor shared by every call made through that client.
//
// An empty pool still yields one logical host: the fallback base URL the
// client was constructed with.
type Pool struct {
	hosts    []string
	fallback string
	balancer Balancer
}

// NewPool creates a round-robin pool over a copy of hosts.
func NewPool(hosts []string, fallback string) *Pool {
	return NewPoolWithBalancer(hosts, fallback, &RoundRobinBalancer{})
}

// NewPoolWithBalancer creates a pool that asks b for its starting offsets.
func NewPoolWithBalancer(hosts []string, fallback string, b Balancer) *Pool {
	cp := make([]string, len(hosts))
	copy(cp, hosts)
	if b == nil {
		b = &RoundRobinBalancer{}
	}
	return &Pool{hosts: cp, fallback: fallback, balancer: b}
}

// NextStart returns the offset the next call starts from. It always
// advances the cursor, except for an empty pool where it returns 0.
func (p *Pool) NextStart() int {
	if len(p.hosts) == 0 {
		return 0
	}
	return p.balancer.Next(len(p.hosts))
}

// Size is the number of attempts a call may make: the host count, or 1 for
// an empty pool.
func (p *Pool) Size() int {
	return max(1, len(p.hosts))
}

// Host returns the host at position i of the ring.
func (p *Pool) Host(i int) string {
	if len(p.hosts) == 0 {
		return p.fallback
	}
	n := len(p.hosts)
	return p.hosts[((i%n)+n)%n]
}

// Hosts returns a copy of the configured host list.
func (p *Pool) Hosts() []string {
	cp := make([]string, len(p.hosts))
	copy(cp, p.hosts)
	return cp
}

// Fallback returns the base URL used when the host list is empty.
func (p *Pool) Fallback() string {
	return p.fallback
}

// Empty reports whether the pool was built without any hosts.
func (p *Pool) Empty() bool {
	return len(p.hosts) == 0
}

// Strategy names the balancer in use.
func (p *Pool) Strategy() string {
	return p.balancer.Name()
}
