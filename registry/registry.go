package registry

import "context"

// HostInstance is one recommendations endpoint announced for a service.
type HostInstance struct {
	URL     string `json:"url"` // base URL, e.g. https://APPID-dsn.algolia.net
	Weight  int    `json:"weight"`
	Version string `json:"version"`
}

type Registry interface {
	Register(ctx context.Context, service string, instance HostInstance, ttl int64) error
	Deregister(ctx context.Context, service string, url string) error
	Discover(ctx context.Context, service string) ([]HostInstance, error)
	Watch(ctx context.Context, service string) <-chan []HostInstance
}

// URLs returns the base URLs of instances, in order.
func URLs(instances []HostInstance) []string {
	urls := make([]string, 0, len(instances))
	for _, inst := range instances {
		urls = append(urls, inst.URL)
	}
	return urls
}
