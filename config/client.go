package config

import (
	"context"
	"fmt"

	"algolia-recommend/client"
	"algolia-recommend/logging"
	"algolia-recommend/registry"
)

// ClientOptions maps the settings onto client options.
func (c *Config) ClientOptions() []client.Option {
	opts := []client.Option{
		client.WithTimeout(c.Timeout),
		client.WithDeadline(c.Deadline),
		client.WithLogger(logging.Logger()),
	}
	if c.RateLimit.RPS > 0 {
		opts = append(opts, client.WithRateLimit(c.RateLimit.RPS, c.RateLimit.Burst))
	}
	if c.DefaultObjectID != "" {
		opts = append(opts, client.WithDefaultObjectID(c.DefaultObjectID))
	}
	return opts
}

// NewClient builds a client from cfg. extra options are applied after the
// ones derived from cfg.
func NewClient(ctx context.Context, cfg *Config, extra ...client.Option) (*client.Client, error) {
	opts := append(cfg.ClientOptions(), extra...)

	switch {
	case len(cfg.Etcd.Endpoints) > 0:
		reg, err := registry.NewEtcdRegistry(cfg.Etcd.Endpoints, logging.With("registry"))
		if err != nil {
			return nil, fmt.Errorf("connect to etcd: %w", err)
		}
		defer reg.Close()
		return client.NewFromRegistry(ctx, reg, cfg.Etcd.Service, cfg.AppID, cfg.APIKey, opts...)
	case len(cfg.Hosts) > 0:
		return client.NewWithHosts(cfg.AppID, cfg.APIKey, cfg.Hosts, opts...), nil
	case cfg.Host != "":
		return client.NewWithHost(cfg.AppID, cfg.APIKey, cfg.Host, opts...), nil
	default:
		return client.New(cfg.AppID, cfg.APIKey, opts...), nil
	}
}
