// Package registry announces and discovers recommendation hosts in etcd.
//
// Every host a service may rotate over is one key:
//
//	Key:   /algolia-recommend/{service}/{url}
//	Value: JSON-encoded HostInstance
//
// Registration uses TTL-based leases: if the announcing process dies, the
// lease expires and the host drops out of discovery.
package registry

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	clientv3 "go.etcd.io/etcd/client/v3"
)

const keyPrefix = "/algolia-recommend/"

func servicePrefix(service string) string {
	return keyPrefix + service + "/"
}

// EtcdRegistry implements Registry on etcd v3.
type EtcdRegistry struct {
	client *clientv3.Client // thread-safe, shared across goroutines
	logger zerolog.Logger
}

// NewEtcdRegistry connects to the given etcd endpoints.
func NewEtcdRegistry(endpoints []string, logger zerolog.Logger) (*EtcdRegistry, error) {
	c, err := clientv3.New(clientv3.Config{
		Endpoints: endpoints,
	})
	if err != nil {
		return nil, err
	}
	return &EtcdRegistry{client: c, logger: logger}, nil
}

// Close releases the etcd connection.
func (r *EtcdRegistry) Close() error {
	return r.client.Close()
}

// Register announces instance under service with a TTL lease that is kept
// alive until ctx ends.
//
// leaseID stays local so that one EtcdRegistry can announce several hosts
// concurrently.
func (r *EtcdRegistry) Register(ctx context.Context, service string, instance HostInstance, ttl int64) error {
	lease, err := r.client.Grant(ctx, ttl)
	if err != nil {
		return err
	}

	val, err := json.Marshal(instance)
	if err != nil {
		return err
	}

	_, err = r.client.Put(ctx, servicePrefix(service)+instance.URL, string(val), clientv3.WithLease(lease.ID))
	if err != nil {
		return err
	}

	ch, err := r.client.KeepAlive(ctx, lease.ID)
	if err != nil {
		return err
	}

	// Drain keepalive responses or the channel fills up
	go func() {
		for range ch {
		}
	}()
	return nil
}

// Deregister removes the host at url from service.
func (r *EtcdRegistry) Deregister(ctx context.Context, service string, url string) error {
	_, err := r.client.Delete(ctx, servicePrefix(service)+url)
	return err
}

// Watch emits the full host list of service every time it changes, until
// ctx ends.
func (r *EtcdRegistry) Watch(ctx context.Context, service string) <-chan []HostInstance {
	ch := make(chan []HostInstance, 1)

	go func() {
		defer close(ch)
		// Re-read the whole prefix on any event instead of applying deltas
		for range r.client.Watch(ctx, servicePrefix(service), clientv3.WithPrefix()) {
			instances, err := r.Discover(ctx, service)
			if err != nil {
				r.logger.Warn().Err(err).Str("service", service).Msg("rediscover after watch event")
				continue
			}
			select {
			case ch <- instances:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch
}

// Discover returns the hosts currently announced for service, ordered by
// key.
func (r *EtcdRegistry) Discover(ctx context.Context, service string) ([]HostInstance, error) {
	resp, err := r.client.Get(ctx, servicePrefix(service), clientv3.WithPrefix(), clientv3.WithSort(clientv3.SortByKey, clientv3.SortAscend))
	if err != nil {
		return nil, err
	}

	instances := make([]HostInstance, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		var instance HostInstance
		if err := json.Unmarshal(kv.Value, &instance); err != nil {
			r.logger.Warn().Err(err).Str("key", string(kv.Key)).Msg("skipping malformed host entry")
			continue
		}
		instances = append(instances, instance)
	}

	return instances, nil
}
