package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Marketplace MarketplaceConfig `mapstructure:"marketplace"`
	Geolocate   GeolocateConfig   `mapstructure:"geolocate"`
	Cache       CacheConfig       `mapstructure:"cache"`
	NATS        NATSConfig        `mapstructure:"nats"`
	Telemetry   TelemetryConfig   `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

// MarketplaceConfig points at the collaborator search endpoint.
type MarketplaceConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// GeolocateConfig configures the location provider and its fallback.
type GeolocateConfig struct {
	URL         string  `mapstructure:"url"`
	TimeoutMS   int     `mapstructure:"timeout_ms"`
	FallbackLat float64 `mapstructure:"fallback_lat"`
	FallbackLon float64 `mapstructure:"fallback_lon"`
}

// CacheConfig selects the result-cache backing store.
type CacheConfig struct {
	Backend          string `mapstructure:"backend"` // "memory" | "valkey"
	ValkeyAddr       string `mapstructure:"valkey_addr"`
	SearchTTLMinutes int    `mapstructure:"search_ttl_minutes"`
}

type NATSConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	OTLPAddr    string `mapstructure:"otlp_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("marketplace.base_url", "http://localhost:3000")
	v.SetDefault("marketplace.timeout_seconds", 10)
	v.SetDefault("geolocate.url", "http://ip-api.com/json")
	v.SetDefault("geolocate.timeout_ms", 3000)
	v.SetDefault("geolocate.fallback_lat", 27.7172)
	v.SetDefault("geolocate.fallback_lon", 85.3240)
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.valkey_addr", "localhost:6379")
	v.SetDefault("cache.search_ttl_minutes", 1440)
	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.otlp_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", false)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: KHOJDEAL_MARKETPLACE_BASE_URL → marketplace.base_url
	v.SetEnvPrefix("KHOJDEAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Marketplace.BaseURL == "" {
		errs = append(errs, "marketplace.base_url is required")
	}
	if c.Marketplace.TimeoutSeconds <= 0 {
		errs = append(errs, "marketplace.timeout_seconds must be positive")
	}
	if c.Geolocate.TimeoutMS <= 0 {
		errs = append(errs, "geolocate.timeout_ms must be positive")
	}
	if c.Geolocate.FallbackLat < -90 || c.Geolocate.FallbackLat > 90 {
		errs = append(errs, fmt.Sprintf("geolocate.fallback_lat out of range: %v", c.Geolocate.FallbackLat))
	}
	if c.Geolocate.FallbackLon < -180 || c.Geolocate.FallbackLon > 180 {
		errs = append(errs, fmt.Sprintf("geolocate.fallback_lon out of range: %v", c.Geolocate.FallbackLon))
	}
	switch c.Cache.Backend {
	case "memory", "valkey":
	default:
		errs = append(errs, fmt.Sprintf("cache.backend must be memory or valkey, got %q", c.Cache.Backend))
	}
	if c.Cache.Backend == "valkey" && c.Cache.ValkeyAddr == "" {
		errs = append(errs, "cache.valkey_addr is required for the valkey backend")
	}
	if c.Cache.SearchTTLMinutes < 0 {
		errs = append(errs, "cache.search_ttl_minutes must not be negative")
	}
	if c.NATS.Enabled && c.NATS.URL == "" {
		errs = append(errs, "nats.url is required when nats is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
