// Package config defines the top-level configuration for the marketplace
// server and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by ATLAS_* environment variables.
type Config struct {
	Server   ServerConfig `toml:"server"`
	Kiln     KilnConfig   `toml:"kiln"`
	Redis    RedisConfig  `toml:"redis"`
	S3       S3Config     `toml:"s3"`
	Notify   NotifyConfig `toml:"notify"`
	Market   MarketConfig `toml:"market"`
	LogLevel string       `toml:"log_level"`
}

// ServerConfig holds the HTTP API parameters.
type ServerConfig struct {
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`

	// APIKey guards all API routes when set. Empty disables auth.
	APIKey string `toml:"api_key"`

	// AdminKey guards the history reset endpoint. Empty disables resets.
	AdminKey string `toml:"admin_key"`
}

// KilnConfig holds the upstream staking API parameters for the node price
// feed.
type KilnConfig struct {
	Enabled         bool     `toml:"enabled"`
	BaseURL         string   `toml:"base_url"`
	APIKey          string   `toml:"api_key"`
	RefreshInterval duration `toml:"refresh_interval"`
}

// RedisConfig holds the optional node price cache parameters.
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// S3Config holds the optional history archive storage parameters.
type S3Config struct {
	Enabled        bool   `toml:"enabled"`
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// NotifyConfig holds the operator alerting parameters. Events limits which
// event types are forwarded; empty forwards all.
type NotifyConfig struct {
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// MarketConfig holds engine startup parameters.
type MarketConfig struct {
	// Seed loads the demo listings, orders, and profiles on startup.
	Seed bool `toml:"seed"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "5m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns the built-in configuration used when the TOML file omits
// a field.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 8080,
		},
		Kiln: KilnConfig{
			Enabled:         true,
			BaseURL:         "https://api.kiln.fi",
			RefreshInterval: duration{5 * time.Minute},
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		S3: S3Config{
			Region: "us-east-1",
			UseSSL: true,
		},
		Market: MarketConfig{
			Seed: true,
		},
		LogLevel: "info",
	}
}

// validLogLevels enumerates the accepted log_level values.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks the configuration for inconsistencies and returns a single
// error listing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server: port %d out of range", c.Server.Port))
	}

	if c.Kiln.Enabled {
		if c.Kiln.BaseURL == "" {
			errs = append(errs, "kiln: base_url must not be empty when enabled")
		}
		if c.Kiln.RefreshInterval.Duration <= 0 {
			errs = append(errs, "kiln: refresh_interval must be positive")
		}
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		errs = append(errs, "redis: addr must not be empty when enabled")
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			errs = append(errs, "s3: bucket must not be empty when enabled")
		}
		if c.S3.Region == "" {
			errs = append(errs, "s3: region must not be empty when enabled")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}
