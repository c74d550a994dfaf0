package client

import (
	"fmt"
	"strings"
)

// DefaultHosts derives the ordered host list for an application: the
// DSN replica closest to the caller, the general host, then three
// numbered fallbacks on a separate domain.
func DefaultHosts(appID string) []string {
	return []string{
		fmt.Sprintf("https://%s-dsn.algolia.net", appID),
		fmt.Sprintf("https://%s.algolia.net", appID),
		fmt.Sprintf("https://%s-1.algolianet.com", appID),
		fmt.Sprintf("https://%s-2.algolianet.com", appID),
		fmt.Sprintf("https://%s-3.algolianet.com", appID),
	}
}

// normalizeHost prepends https:// to a bare host name.
func normalizeHost(host string) string {
	host = strings.TrimSpace(host)
	if strings.Contains(host, "://") {
		return host
	}
	return "https://" + host
}
