package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all server settings. Values come from an optional YAML file
// (LINKHOARD_CONFIG) with LINKHOARD_* environment variables taking
// precedence, so a bare `linkhoard-server` run works with defaults.
type Config struct {
	ListenPort      string        `yaml:"listen_port"`      // ex: ":8080"
	BaseURL         string        `yaml:"base_url"`         // ex: "http://localhost:8080"
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // ex: 5s

	LogLevel  string `yaml:"log_level"`  // "debug" | "info" | "warn" | "error"
	PrettyLog bool   `yaml:"pretty_log"` // true => zap dev (color), false => zap prod (JSON)

	DBPath      string        `yaml:"db_path"`      // sqlite database file
	AvatarDir   string        `yaml:"avatar_dir"`   // directory for uploaded avatar images
	WebDist     string        `yaml:"web_dist"`     // static frontend build, empty = API only
	JWTSecret   string        `yaml:"jwt_secret"`   // HMAC secret for session tokens
	TokenTTL    time.Duration `yaml:"token_ttl"`
	ArchiveBase string        `yaml:"archive_base"` // default archive service, ex: "https://web.archive.org/web"

	// Redis (optional). When unset, logout is client-side only and no
	// token denylist is kept.
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	// Rate limiting for the auth endpoints.
	AuthBurst        int `yaml:"auth_burst"`
	AuthRefillPerMin int `yaml:"auth_refill_per_min"`
}

// Load reads the YAML file named by LINKHOARD_CONFIG (if any), then applies
// environment overrides and defaults.
func Load() (*Config, error) {
	cfg := &Config{
		ListenPort:       ":8080",
		BaseURL:          "http://localhost:8080",
		ShutdownTimeout:  5 * time.Second,
		LogLevel:         "info",
		PrettyLog:        true,
		DBPath:           "linkhoard.db",
		AvatarDir:        "avatars",
		WebDist:          "./web/dist",
		TokenTTL:         24 * time.Hour,
		ArchiveBase:      "https://web.archive.org/web",
		AuthBurst:        10,
		AuthRefillPerMin: 30,
	}

	if path := os.Getenv("LINKHOARD_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.ListenPort = getenv("LINKHOARD_LISTEN_PORT", cfg.ListenPort)
	cfg.BaseURL = getenv("LINKHOARD_BASE_URL", cfg.BaseURL)
	cfg.ShutdownTimeout = mustDuration("LINKHOARD_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	cfg.LogLevel = getenv("LINKHOARD_LOG_LEVEL", cfg.LogLevel)
	cfg.PrettyLog = mustBool("LINKHOARD_PRETTY_LOG", cfg.PrettyLog)
	cfg.DBPath = getenv("LINKHOARD_DB_PATH", cfg.DBPath)
	cfg.AvatarDir = getenv("LINKHOARD_AVATAR_DIR", cfg.AvatarDir)
	cfg.WebDist = getenv("LINKHOARD_WEB_DIST", cfg.WebDist)
	cfg.JWTSecret = getenv("LINKHOARD_JWT_SECRET", cfg.JWTSecret)
	cfg.TokenTTL = mustDuration("LINKHOARD_TOKEN_TTL", cfg.TokenTTL)
	cfg.ArchiveBase = getenv("LINKHOARD_ARCHIVE_BASE", cfg.ArchiveBase)
	cfg.RedisAddr = getenv("LINKHOARD_REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = getenv("LINKHOARD_REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = getenvInt("LINKHOARD_REDIS_DB", cfg.RedisDB)
	cfg.AuthBurst = getenvInt("LINKHOARD_AUTH_BURST", cfg.AuthBurst)
	cfg.AuthRefillPerMin = getenvInt("LINKHOARD_AUTH_REFILL_PER_MIN", cfg.AuthRefillPerMin)

	return cfg, nil
}

// helpers

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
