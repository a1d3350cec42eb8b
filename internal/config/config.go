package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	APIKey                string        `mapstructure:"newsapi_key"`
	BaseURL               string        `mapstructure:"newsapi_base_url"`
	Endpoint              string        `mapstructure:"newsapi_endpoint"`
	Country               string        `mapstructure:"newsapi_country"`
	FetchMode             string        `mapstructure:"fetch_mode"`
	RequestTimeoutSeconds int64         `mapstructure:"request_timeout_seconds"`
	RequestTimeout        time.Duration `mapstructure:"-"`
	PollIntervalSeconds   int64         `mapstructure:"poll_interval"`
	PollInterval          time.Duration `mapstructure:"-"`
	EnrichArticles        bool          `mapstructure:"enrich_articles"`

	PublishersFile string `mapstructure:"publishers_file"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

const (
	FetchModeBlocking = "blocking"
	FetchModeAsync    = "async"
)

// Load reads configuration from configs/.env and environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("app_name", "samvad-newsapi-relay")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("newsapi_key", "")
	v.SetDefault("newsapi_base_url", "https://newsapi.org/v2")
	v.SetDefault("newsapi_endpoint", "top-headlines")
	v.SetDefault("newsapi_country", "us")
	v.SetDefault("fetch_mode", FetchModeBlocking)
	v.SetDefault("request_timeout_seconds", 15)
	v.SetDefault("poll_interval", 0) // seconds, 0 runs a single pass
	v.SetDefault("enrich_articles", false)
	v.SetDefault("publishers_file", "./configs/publishers.yaml")
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/seen.db")
	v.SetDefault("storage_ttl_seconds", int64((3*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) normalize() error {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if cfg.APIKey == "" {
		return fmt.Errorf("newsapi_key is required")
	}

	cfg.FetchMode = strings.ToLower(strings.TrimSpace(cfg.FetchMode))
	switch cfg.FetchMode {
	case FetchModeBlocking, FetchModeAsync:
	default:
		return fmt.Errorf("invalid fetch_mode %q (expected %s or %s)", cfg.FetchMode, FetchModeBlocking, FetchModeAsync)
	}

	if cfg.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid request_timeout_seconds (must be positive seconds)")
	}
	cfg.RequestTimeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second

	if cfg.PollIntervalSeconds < 0 {
		return fmt.Errorf("invalid poll_interval (must be zero or positive seconds)")
	}
	cfg.PollInterval = time.Duration(cfg.PollIntervalSeconds) * time.Second

	if cfg.StorageTTLSeconds <= 0 {
		return fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return nil
}
