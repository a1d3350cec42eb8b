package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	v := viper.New()
	v.Set("newsapi_key", "  abc123 ")

	cfg, err := load(v)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIKey != "abc123" {
		t.Fatalf("api key = %q", cfg.APIKey)
	}
	if cfg.Endpoint != "top-headlines" || cfg.Country != "us" {
		t.Fatalf("unexpected newsapi defaults: %s %s", cfg.Endpoint, cfg.Country)
	}
	if cfg.FetchMode != FetchModeBlocking {
		t.Fatalf("fetch mode = %q", cfg.FetchMode)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Fatalf("request timeout = %v", cfg.RequestTimeout)
	}
	if cfg.PollInterval != 0 {
		t.Fatalf("poll interval = %v", cfg.PollInterval)
	}
	if cfg.StorageTTL != 72*time.Hour {
		t.Fatalf("storage ttl = %v", cfg.StorageTTL)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("NEWSAPI_KEY", "env-key")
	t.Setenv("NEWSAPI_COUNTRY", "fr")
	t.Setenv("FETCH_MODE", "ASYNC")
	t.Setenv("POLL_INTERVAL", "300")

	cfg, err := load(viper.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIKey != "env-key" || cfg.Country != "fr" {
		t.Fatalf("env not applied: %#v", cfg)
	}
	if cfg.FetchMode != FetchModeAsync {
		t.Fatalf("fetch mode = %q", cfg.FetchMode)
	}
	if cfg.PollInterval != 5*time.Minute {
		t.Fatalf("poll interval = %v", cfg.PollInterval)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]any{
		"missing key":    {},
		"bad fetch mode": {"newsapi_key": "k", "fetch_mode": "parallel"},
		"zero timeout":   {"newsapi_key": "k", "request_timeout_seconds": 0},
		"negative poll":  {"newsapi_key": "k", "poll_interval": -1},
		"zero ttl":       {"newsapi_key": "k", "storage_ttl_seconds": 0},
		"zero cleanup":   {"newsapi_key": "k", "storage_cleanup_interval_seconds": 0},
	}
	for name, values := range cases {
		v := viper.New()
		for k, val := range values {
			v.Set(k, val)
		}
		if _, err := load(v); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
