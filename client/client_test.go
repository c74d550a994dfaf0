package client

import (
	"context"
	"errors"
	"net"
	"os"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"algolia-recommend/dispatch"
	"algolia-recommend/message"
	"algolia-recommend/middleware"
	"algolia-recommend/models"
	"algolia-recommend/registry"
	"algolia-recommend/server"
	"algolia-recommend/transport"
)

type product struct {
	Name string `json:"name"`
}

func newServer(t *testing.T) *server.Server {
	t.Helper()
	s := server.New()
	t.Cleanup(s.Close)
	return s
}

type sentBatch struct {
	Requests []map[string]any `json:"requests"`
}

func decodeBatch(t *testing.T, body []byte) sentBatch {
	t.Helper()
	var b sentBatch
	require.NoError(t, json.Unmarshal(body, &b))
	return b
}

func TestFailoverToSecondHost(t *testing.T) {
	a, b := newServer(t), newServer(t)
	a.Respond(500, `{"message":"server error"}`)
	b.Respond(200, `{"results":[{"hits":[{"objectID":"ok"}]}]}`)

	c := NewWithHosts("APPID", "KEY", []string{a.URL(), b.URL()})
	resp, err := Recommend[product](context.Background(), c, models.NewTrendingItems("products"))
	require.NoError(t, err)

	assert.Equal(t, "ok", resp.Results[0].Hits[0].ObjectID)
	assert.Equal(t, 1, a.Hits())
	assert.Equal(t, 1, b.Hits())
}

func TestGetRecommendationsBuildsBatch(t *testing.T) {
	s := newServer(t)
	s.Respond(200, `{"results":[{"hits":[{"objectID":"a"},{"objectID":"b"}]}]}`)

	c := NewWithHost("APPID", "KEY", s.URL(), WithDefaultObjectID("obj-1"))
	resp, err := GetRecommendations[product](context.Background(), c, "products",
		models.BoughtTogether, models.RelatedProducts, models.TrendingItems, models.LookingSimilar)
	require.NoError(t, err)

	require.Len(t, resp.Results, 1)
	require.Len(t, resp.Results[0].Hits, 2)
	assert.Equal(t, "a", resp.Results[0].Hits[0].ObjectID)

	req, ok := s.LastRequest()
	require.True(t, ok)
	assert.Equal(t, "*", req.IndexName)
	assert.Equal(t, "APPID", req.Header.Get(HeaderApplicationID))
	assert.Equal(t, "KEY", req.Header.Get(HeaderAPIKey))
	assert.Equal(t, "application/json", req.Header.Get("Accept"))
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))

	batch := decodeBatch(t, req.Body)
	require.Len(t, batch.Requests, 4)
	assert.Equal(t, "bought-together", batch.Requests[0]["model"])
	assert.Equal(t, "obj-1", batch.Requests[0]["objectID"])
	assert.Equal(t, "products", batch.Requests[1]["indexName"])
	assert.NotContains(t, batch.Requests[2], "objectID")
	assert.Equal(t, "obj-1", batch.Requests[3]["objectID"])
}

func TestGetRecommendationsRejectsLocally(t *testing.T) {
	s := newServer(t)

	cases := []struct {
		name   string
		client *Client
		models []models.Model
		msg    string
	}{
		{
			name:   "trending facets",
			client: NewWithHost("APPID", "KEY", s.URL(), WithDefaultObjectID("obj-1")),
			models: []models.Model{models.TrendingItems, models.TrendingFacets},
			msg:    "trending-facets must be requested via GetTrendingFacets",
		},
		{
			name:   "no default object",
			client: NewWithHost("APPID", "KEY", s.URL()),
			models: []models.Model{models.RelatedProducts},
			msg:    "default objectID not set; use WithDefaultObjectID or SetDefaultObjectID",
		},
		{
			name:   "no models",
			client: NewWithHost("APPID", "KEY", s.URL()),
			msg:    "at least one request is required",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := GetRecommendations[product](context.Background(), tc.client, "products", tc.models...)
			var apiErr *dispatch.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, 400, apiErr.StatusCode)
			assert.Equal(t, tc.msg, apiErr.Message)
		})
	}
	assert.Equal(t, 0, s.Hits())
}

func TestSetDefaultObjectID(t *testing.T) {
	s := newServer(t)
	c := NewWithHost("APPID", "KEY", s.URL())
	assert.Equal(t, "", c.DefaultObjectID())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.SetDefaultObjectID("obj-2")
			_ = c.DefaultObjectID()
		}()
	}
	wg.Wait()

	_, err := GetRecommendations[product](context.Background(), c, "products", models.BoughtTogether)
	require.NoError(t, err)

	req, _ := s.LastRequest()
	assert.Equal(t, "obj-2", decodeBatch(t, req.Body).Requests[0]["objectID"])
}

func TestRecommendValidatesBeforeSending(t *testing.T) {
	s := newServer(t)
	c := NewWithHost("APPID", "KEY", s.URL())

	_, err := Recommend[product](context.Background(), c,
		models.NewTrendingItems("products"),
		models.NewBoughtTogether("products", ""),
	)
	assert.Equal(t, 400, dispatch.StatusCode(err))
	assert.Equal(t, "requests[1]: objectID is required", dispatch.Message(err))
	assert.Equal(t, 0, s.Hits())
}

func TestGetTrendingFacets(t *testing.T) {
	s := newServer(t)
	s.Respond(200, `{"results":[{"facetHits":[{"value":"Book","count":42}]}]}`)

	c := NewWithHost("APPID", "KEY", s.URL())
	resp, err := c.GetTrendingFacets(context.Background(), models.NewTrendingFacets("products", "category"))
	require.NoError(t, err)

	require.Len(t, resp.Results, 1)
	require.Len(t, resp.Results[0].FacetHits, 1)
	assert.Equal(t, "Book", resp.Results[0].FacetHits[0].Value)
	assert.Equal(t, uint64(42), resp.Results[0].FacetHits[0].Count)

	req, _ := s.LastRequest()
	batch := decodeBatch(t, req.Body)
	assert.Equal(t, "trending-facets", batch.Requests[0]["model"])
	assert.Equal(t, "category", batch.Requests[0]["facetName"])
}

func TestGetTrendingFacetsRejectsOtherModels(t *testing.T) {
	s := newServer(t)
	c := NewWithHost("APPID", "KEY", s.URL())

	wrong := models.NewTrendingFacets("products", "category")
	wrong.Model = models.TrendingItems

	_, err := c.GetTrendingFacets(context.Background(), models.NewTrendingFacets("products", "brand"), wrong)
	assert.Equal(t, 400, dispatch.StatusCode(err))
	assert.Equal(t, "all requests must use model=trending-facets", dispatch.Message(err))

	_, err = c.GetTrendingFacets(context.Background(), models.NewTrendingFacets("products", ""))
	assert.Equal(t, "requests[0]: facetName is required", dispatch.Message(err))
	assert.Equal(t, 0, s.Hits())
}

func TestAPIErrorIsMapped(t *testing.T) {
	s := newServer(t)
	s.Respond(403, `{"message":"invalid api key"}`)

	c := NewWithHost("APPID", "KEY", s.URL())
	_, err := Recommend[product](context.Background(), c, models.NewTrendingItems("products"))

	var apiErr *dispatch.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 403, apiErr.StatusCode)
	assert.Equal(t, "invalid api key", apiErr.Message)
	assert.Contains(t, err.Error(), "403")
}

func TestMalformedBodyIsDecodeError(t *testing.T) {
	s := newServer(t)
	s.Respond(200, "not-json")

	c := NewWithHost("APPID", "KEY", s.URL())
	_, err := Recommend[product](context.Background(), c, models.NewTrendingItems("products"))

	var decErr *dispatch.DecodeError
	require.True(t, errors.As(err, &decErr))
	assert.Equal(t, "not-json", decErr.Body)
}

func TestConstructionContracts(t *testing.T) {
	assert.Equal(t, []string{
		"https://APPID-dsn.algolia.net",
		"https://APPID.algolia.net",
		"https://APPID-1.algolianet.com",
		"https://APPID-2.algolianet.com",
		"https://APPID-3.algolianet.com",
	}, New("APPID", "KEY").Hosts())

	assert.Equal(t, []string{"https://example.com"}, NewWithHost("APPID", "KEY", "example.com").Hosts())
	assert.Equal(t, []string{"http://127.0.0.1:9"}, NewWithHost("APPID", "KEY", "http://127.0.0.1:9").Hosts())

	hosts := []string{"http://b", "http://a", "http://c"}
	assert.Equal(t, hosts, NewWithHosts("APPID", "KEY", hosts).Hosts())
	assert.Equal(t, []string{"https://APPID-dsn.algolia.net"}, NewWithHosts("APPID", "KEY", nil).Hosts())
	assert.Equal(t, "APPID", New("APPID", "KEY").AppID())
}

func TestDefaultHostsAreAllTried(t *testing.T) {
	var mu sync.Mutex
	var visited []string
	refused := transport.Func(func(ctx context.Context, req *message.Request) (*message.Response, error) {
		mu.Lock()
		visited = append(visited, req.Host)
		mu.Unlock()
		return nil, &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)}
	})

	c := New("APPID", "KEY", WithTransport(refused))
	_, err := Recommend[product](context.Background(), c, models.NewTrendingItems("products"))

	var exhausted *dispatch.ExhaustedError
	require.True(t, errors.As(err, &exhausted))
	assert.Equal(t, 5, exhausted.Attempts)
	assert.Equal(t, DefaultHosts("APPID"), visited)
	assert.Equal(t, 0, dispatch.StatusCode(err))
}

func TestAttemptTimeoutRotates(t *testing.T) {
	slow, fast := newServer(t), newServer(t)
	slow.RespondFunc(func(server.Request) server.Reply {
		time.Sleep(300 * time.Millisecond)
		return server.Reply{Status: 200, Body: `{"results":[]}`}
	})
	fast.Respond(200, `{"results":[{"hits":[{"objectID":"fast"}]}]}`)

	c := NewWithHosts("APPID", "KEY", []string{slow.URL(), fast.URL()}, WithTimeout(50*time.Millisecond))
	resp, err := Recommend[product](context.Background(), c, models.NewTrendingItems("products"))
	require.NoError(t, err)
	assert.Equal(t, "fast", resp.Results[0].Hits[0].ObjectID)
	assert.Equal(t, 1, fast.Hits())
}

func TestMetricsAndRateLimit(t *testing.T) {
	s := newServer(t)
	m := middleware.NewMetrics(prometheus.NewRegistry())

	c := NewWithHost("APPID", "KEY", s.URL(), WithMetrics(m), WithRateLimit(1000, 2))
	for i := 0; i < 3; i++ {
		_, err := Recommend[product](context.Background(), c, models.NewTrendingItems("products"))
		require.NoError(t, err)
	}

	host := s.URL()[len("http://"):]
	assert.Equal(t, float64(3), testutil.ToFloat64(m.Attempts.WithLabelValues(host, "200")))
	assert.Equal(t, 3, s.Hits())
}

func TestRateLimitWithZeroBurst(t *testing.T) {
	s := newServer(t)

	c := NewWithHost("APPID", "KEY", s.URL(), WithRateLimit(10, 0))
	_, err := Recommend[product](context.Background(), c, models.NewTrendingItems("products"))
	require.NoError(t, err)
	assert.Equal(t, 1, s.Hits())
}

type staticRegistry struct {
	instances []registry.HostInstance
	err       error
}

func (r *staticRegistry) Register(context.Context, string, registry.HostInstance, int64) error {
	return nil
}

func (r *staticRegistry) Deregister(context.Context, string, string) error { return nil }

func (r *staticRegistry) Discover(context.Context, string) ([]registry.HostInstance, error) {
	return r.instances, r.err
}

func (r *staticRegistry) Watch(context.Context, string) <-chan []registry.HostInstance {
	return nil
}

func TestNewFromRegistry(t *testing.T) {
	a, b := newServer(t), newServer(t)
	a.Respond(503, `{"message":"maintenance"}`)

	reg := &staticRegistry{instances: []registry.HostInstance{{URL: a.URL()}, {URL: b.URL()}}}
	c, err := NewFromRegistry(context.Background(), reg, "recommend", "APPID", "KEY")
	require.NoError(t, err)
	assert.Equal(t, []string{a.URL(), b.URL()}, c.Hosts())

	_, err = Recommend[product](context.Background(), c, models.NewTrendingItems("products"))
	require.NoError(t, err)
	assert.Equal(t, 1, a.Hits())
	assert.Equal(t, 1, b.Hits())

	_, err = NewFromRegistry(context.Background(), &staticRegistry{}, "recommend", "APPID", "KEY")
	assert.Error(t, err)

	boom := errors.New("etcd unavailable")
	_, err = NewFromRegistry(context.Background(), &staticRegistry{err: boom}, "recommend", "APPID", "KEY")
	assert.ErrorIs(t, err, boom)
}
