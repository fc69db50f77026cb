// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers a YAML file and environment variables on top of the defaults.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/typerank/internal/adapters/repository"
	"github.com/okian/typerank/internal/auth"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataFile enables the file tier. Empty disables it.
	DataFile string `koanf:"data_file"`

	// RedisURL or RedisAddr enable the Redis tier. The URL wins when both are set.
	RedisURL      string `koanf:"redis_url"`
	RedisAddr     string `koanf:"redis_addr"`
	RedisUsername string `koanf:"redis_username"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
	RedisKey      string `koanf:"redis_key"`

	// RemoteTimeoutMS bounds each Redis call before falling through.
	RemoteTimeoutMS int `koanf:"remote_timeout_ms"`

	// JWTSecret signs admin tokens. Empty means a random per-process secret.
	JWTSecret string `koanf:"jwt_secret"`
	// AdminPasswordHash is a bcrypt hash; AdminPassword is the plain fallback.
	AdminPasswordHash string `koanf:"admin_password_hash"`
	AdminPassword     string `koanf:"admin_password"`
	TokenTTLMinutes   int    `koanf:"token_ttl_minutes"`

	// CORSAllowOrigin is sent as Access-Control-Allow-Origin.
	CORSAllowOrigin string `koanf:"cors_allow_origin"`

	// LoginRatePerMinute and LoginBurst throttle POST /api/admin/login per client IP.
	LoginRatePerMinute int `koanf:"login_rate_per_minute"`
	LoginBurst         int `koanf:"login_burst"`
}

// New creates a Config with defaults. The context is reserved for loaders
// that need it and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":3000",
		DataFile:           "leaderboard.json",
		RedisKey:           repository.DefaultRedisKey,
		RemoteTimeoutMS:    int(repository.DefaultRemoteTimeout / time.Millisecond),
		TokenTTLMinutes:    int(auth.DefaultTokenTTL / time.Minute),
		CORSAllowOrigin:    "*",
		LoginRatePerMinute: 10,
		LoginBurst:         5,
	}
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	case c.RedisDB < 0:
		return fmt.Errorf("%w: redis_db must not be negative", ErrInvalidConfig)
	case c.RemoteTimeoutMS <= 0:
		return fmt.Errorf("%w: remote_timeout_ms must be positive", ErrInvalidConfig)
	case c.TokenTTLMinutes <= 0:
		return fmt.Errorf("%w: token_ttl_minutes must be positive", ErrInvalidConfig)
	case c.LoginRatePerMinute <= 0:
		return fmt.Errorf("%w: login_rate_per_minute must be positive", ErrInvalidConfig)
	case c.LoginBurst <= 0:
		return fmt.Errorf("%w: login_burst must be positive", ErrInvalidConfig)
	}
	return nil
}

// Storage builds the tier configuration. Redis is enabled by a URL or an
// address, the file tier by a data file path.
func (c *Config) Storage() repository.StorageConfig {
	sc := repository.StorageConfig{FilePath: strings.TrimSpace(c.DataFile)}
	if c.RedisURL != "" || c.RedisAddr != "" {
		sc.Remote = &repository.RemoteConfig{
			URL:      c.RedisURL,
			Addr:     c.RedisAddr,
			Username: c.RedisUsername,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
			Key:      c.RedisKey,
			Timeout:  time.Duration(c.RemoteTimeoutMS) * time.Millisecond,
		}
	}
	return sc
}

// Auth builds the authenticator configuration.
func (c *Config) Auth() auth.Config {
	return auth.Config{
		Secret:       c.JWTSecret,
		PasswordHash: c.AdminPasswordHash,
		Password:     c.AdminPassword,
		TokenTTL:     time.Duration(c.TokenTTLMinutes) * time.Minute,
	}
}
