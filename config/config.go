// Package config loads client settings from defaults, an optional YAML
// file and RECOMMEND_* environment variables, in that order of precedence
// (later wins).
//
//	app_id: APPID
//	api_key: KEY
//	hosts: [https://APPID-dsn.algolia.net, https://APPID-1.algolianet.com]
//	timeout: 2s
//	rate_limit: {rps: 50, burst: 10}
//	log: {level: debug, format: console}
//
// The same settings from the environment:
//
//	RECOMMEND_APP_ID=APPID
//	RECOMMEND_HOSTS=https://a.example,https://b.example
//	RECOMMEND_RATE_LIMIT__RPS=50
package config

import (
	"time"

	"algolia-recommend/logging"
)

// Config holds everything needed to build a client.
type Config struct {
	AppID  string `koanf:"app_id" validate:"required"`
	APIKey string `koanf:"api_key" validate:"required"`

	// Host selection, first match wins: etcd discovery, Hosts, Host, then
	// the hosts derived from AppID.
	Hosts []string `koanf:"hosts" validate:"omitempty,dive,url"`
	Host  string   `koanf:"host"`

	Timeout  time.Duration `koanf:"timeout" validate:"gte=0"`  // per attempt
	Deadline time.Duration `koanf:"deadline" validate:"gte=0"` // per call, 0 = none

	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Log       LogConfig       `koanf:"log"`
	Etcd      EtcdConfig      `koanf:"etcd"`

	DefaultObjectID string `koanf:"default_object_id"`
}

// RateLimitConfig caps outgoing attempts. RPS 0 means unlimited.
type RateLimitConfig struct {
	RPS   float64 `koanf:"rps" validate:"gte=0"`
	Burst int     `koanf:"burst" validate:"gte=0"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// EtcdConfig enables host discovery when Endpoints is non-empty.
type EtcdConfig struct {
	Endpoints []string `koanf:"endpoints"`
	Service   string   `koanf:"service" validate:"required"`
}

func defaultConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
		RateLimit: RateLimitConfig{
			RPS:   0, // unlimited
			Burst: 1,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Etcd: EtcdConfig{
			Service: "recommend",
		},
	}
}

// Logging converts the log section for logging.Init.
func (c *Config) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Log.Level
	cfg.Format = c.Log.Format
	return cfg
}
