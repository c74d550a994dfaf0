// Package client is the typed client for the batched recommendations API.
//
// A client owns one pool of equivalent hosts. Every call starts on the next
// host of the pool and rotates to the following ones on 5xx, 429 and
// connection-level failures:
//
//	c := client.New("APPID", "API_KEY", client.WithDefaultObjectID("42"))
//	resp, err := client.GetRecommendations[Product](ctx, c, "products",
//		models.BoughtTogether, models.TrendingItems)
package client

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"algolia-recommend/dispatch"
	"algolia-recommend/loadbalance"
	"algolia-recommend/middleware"
	"algolia-recommend/registry"
	"algolia-recommend/transport"
)

const (
	// RecommendPath is the batched endpoint, relative to a host.
	RecommendPath = "/1/indexes/*/recommendations"

	HeaderApplicationID = "X-Algolia-Application-Id"
	HeaderAPIKey        = "X-Algolia-API-Key"
)

// Client is safe for concurrent use.
type Client struct {
	appID      string
	dispatcher *dispatch.Dispatcher
	logger     zerolog.Logger

	mu              sync.RWMutex
	defaultObjectID string
}

// New creates a client over the default hosts derived from appID.
func New(appID, apiKey string, opts ...Option) *Client {
	return newClient(appID, apiKey, DefaultHosts(appID), opts)
}

// NewWithHost creates a client that only talks to host.
func NewWithHost(appID, apiKey, host string, opts ...Option) *Client {
	return newClient(appID, apiKey, []string{normalizeHost(host)}, opts)
}

// NewWithHosts creates a client over hosts, used verbatim and in order.
// An empty list falls back to the application's DSN host.
func NewWithHosts(appID, apiKey string, hosts []string, opts ...Option) *Client {
	return newClient(appID, apiKey, hosts, opts)
}

// NewFromRegistry discovers the hosts announced for service once and
// creates a client over them.
func NewFromRegistry(ctx context.Context, reg registry.Registry, service, appID, apiKey string, opts ...Option) (*Client, error) {
	instances, err := reg.Discover(ctx, service)
	if err != nil {
		return nil, err
	}
	if len(instances) == 0 {
		return nil, errors.New("client: no hosts registered for service " + service)
	}
	return newClient(appID, apiKey, registry.URLs(instances), opts), nil
}

func newClient(appID, apiKey string, hosts []string, opts []Option) *Client {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	logger := o.logger.With().Str("component", "recommend").Str("app_id", appID).Logger()

	tr := o.transport
	if tr == nil {
		tr = transport.NewHTTPTransport(transport.Options{Logger: &logger})
	}

	// Outermost first: the rate limiter waits before the attempt clock starts.
	mws := []middleware.Middleware{middleware.LoggingMiddleware(logger)}
	if o.rps > 0 {
		mws = append(mws, middleware.RateLimitMiddleware(o.rps, o.burst))
	}
	if o.metrics != nil {
		mws = append(mws, o.metrics.Middleware())
	}
	mws = append(mws, middleware.TimeOutMiddleware(o.timeout))

	pool := loadbalance.NewPool(hosts, DefaultHosts(appID)[0])
	d := dispatch.New(pool,
		dispatch.WithTransport(tr),
		dispatch.WithMiddleware(mws...),
		dispatch.WithHeader(HeaderApplicationID, appID),
		dispatch.WithHeader(HeaderAPIKey, apiKey),
		dispatch.WithLogger(logger),
		dispatch.WithDeadline(o.deadline),
	)

	return &Client{
		appID:           appID,
		dispatcher:      d,
		logger:          logger,
		defaultObjectID: o.defaultObjectID,
	}
}

// AppID returns the application the client authenticates as.
func (c *Client) AppID() string {
	return c.appID
}

// Hosts returns the client's host list in rotation order.
func (c *Client) Hosts() []string {
	p := c.dispatcher.Pool()
	if p.Empty() {
		return []string{p.Fallback()}
	}
	return p.Hosts()
}

// SetDefaultObjectID changes the seed object used by GetRecommendations.
func (c *Client) SetDefaultObjectID(objectID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defaultObjectID = objectID
}

// DefaultObjectID returns the seed object used by GetRecommendations.
func (c *Client) DefaultObjectID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.defaultObjectID
}
