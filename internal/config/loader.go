package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies ATLAS_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known ATLAS_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject secrets at deploy time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	// ── Server ──
	setInt(&cfg.Server.Port, "ATLAS_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "ATLAS_SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.APIKey, "ATLAS_SERVER_API_KEY")
	setStr(&cfg.Server.AdminKey, "ATLAS_SERVER_ADMIN_KEY")

	// ── Kiln ──
	setBool(&cfg.Kiln.Enabled, "ATLAS_KILN_ENABLED")
	setStr(&cfg.Kiln.BaseURL, "ATLAS_KILN_BASE_URL")
	setStr(&cfg.Kiln.APIKey, "ATLAS_KILN_API_KEY")
	setDuration(&cfg.Kiln.RefreshInterval, "ATLAS_KILN_REFRESH_INTERVAL")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "ATLAS_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "ATLAS_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "ATLAS_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "ATLAS_REDIS_DB")
	setBool(&cfg.Redis.TLSEnabled, "ATLAS_REDIS_TLS_ENABLED")

	// ── S3 ──
	setBool(&cfg.S3.Enabled, "ATLAS_S3_ENABLED")
	setStr(&cfg.S3.Endpoint, "ATLAS_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "ATLAS_S3_REGION")
	setStr(&cfg.S3.Bucket, "ATLAS_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "ATLAS_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "ATLAS_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "ATLAS_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "ATLAS_S3_FORCE_PATH_STYLE")

	// ── Notify ──
	setStr(&cfg.Notify.DiscordWebhookURL, "ATLAS_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "ATLAS_NOTIFY_EVENTS")

	// ── Market ──
	setBool(&cfg.Market.Seed, "ATLAS_MARKET_SEED")

	// ── Top-level ──
	setStr(&cfg.LogLevel, "ATLAS_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
