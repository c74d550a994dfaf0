package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"algolia-recommend/client"
	"algolia-recommend/models"
	"algolia-recommend/server"
)

func setCredentials(t *testing.T) {
	t.Helper()
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("RECOMMEND_APP_ID", "APPID")
	t.Setenv("RECOMMEND_API_KEY", "KEY")
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recommend.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	setCredentials(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "APPID", cfg.AppID)
	assert.Equal(t, "KEY", cfg.APIKey)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, time.Duration(0), cfg.Deadline)
	assert.Equal(t, float64(0), cfg.RateLimit.RPS)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "recommend", cfg.Etcd.Service)
	assert.Empty(t, cfg.Hosts)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := writeConfig(t, `
app_id: FILEAPP
api_key: FILEKEY
hosts:
  - https://a.example.net
  - https://b.example.net
timeout: 2s
rate_limit:
  rps: 20
  burst: 5
log:
  level: debug
  format: console
default_object_id: "42"
`)
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("RECOMMEND_TIMEOUT", "3s")
	t.Setenv("RECOMMEND_RATE_LIMIT__BURST", "8")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "FILEAPP", cfg.AppID)
	assert.Equal(t, []string{"https://a.example.net", "https://b.example.net"}, cfg.Hosts)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, float64(20), cfg.RateLimit.RPS)
	assert.Equal(t, 8, cfg.RateLimit.Burst)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "42", cfg.DefaultObjectID)

	lc := cfg.Logging()
	assert.Equal(t, "debug", lc.Level)
	assert.Equal(t, "console", lc.Format)
}

func TestLoadListsFromEnv(t *testing.T) {
	setCredentials(t)
	t.Setenv("RECOMMEND_HOSTS", "https://a.example.net, https://b.example.net,")
	t.Setenv("RECOMMEND_ETCD__ENDPOINTS", "127.0.0.1:2379")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example.net", "https://b.example.net"}, cfg.Hosts)
	assert.Equal(t, []string{"127.0.0.1:2379"}, cfg.Etcd.Endpoints)
}

func TestLoadRejects(t *testing.T) {
	cases := map[string]map[string]string{
		"missing app id":    {"RECOMMEND_API_KEY": "KEY"},
		"bad log level":     {"RECOMMEND_APP_ID": "APPID", "RECOMMEND_API_KEY": "KEY", "RECOMMEND_LOG__LEVEL": "loud"},
		"negative timeout":  {"RECOMMEND_APP_ID": "APPID", "RECOMMEND_API_KEY": "KEY", "RECOMMEND_TIMEOUT": "-1s"},
		"host is not a url": {"RECOMMEND_APP_ID": "APPID", "RECOMMEND_API_KEY": "KEY", "RECOMMEND_HOSTS": "not a url"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(ConfigPathEnvVar, "")
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	setCredentials(t)
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestNewClientHostSelection(t *testing.T) {
	ctx := context.Background()

	cfg := defaultConfig()
	cfg.AppID, cfg.APIKey = "APPID", "KEY"

	c, err := NewClient(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, client.DefaultHosts("APPID"), c.Hosts())

	cfg.Host = "recommend.example.net"
	c, err = NewClient(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://recommend.example.net"}, c.Hosts())

	cfg.Hosts = []string{"https://b.example.net", "https://a.example.net"}
	c, err = NewClient(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.Hosts, c.Hosts())
}

func TestNewClientEndToEnd(t *testing.T) {
	s := server.New()
	defer s.Close()
	s.Respond(200, `{"results":[{"hits":[{"objectID":"a"}]}]}`)

	cfg := defaultConfig()
	cfg.AppID, cfg.APIKey = "APPID", "KEY"
	cfg.Hosts = []string{s.URL()}
	cfg.DefaultObjectID = "42"
	cfg.RateLimit = RateLimitConfig{RPS: 100, Burst: 1}

	c, err := NewClient(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "42", c.DefaultObjectID())

	resp, err := client.GetRecommendations[map[string]any](context.Background(), c, "products", models.RelatedProducts)
	require.NoError(t, err)
	assert.Equal(t, "a", resp.Results[0].Hits[0].ObjectID)

	req, _ := s.LastRequest()
	assert.Equal(t, "KEY", req.Header.Get(client.HeaderAPIKey))
}
