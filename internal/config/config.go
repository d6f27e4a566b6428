// Package config collects runtime settings for the flashdeck server.
// Defaults are suitable for development only; every field can be overridden
// from the environment (optionally loaded from a .env file by main).
package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the server.
//
// Fields:
//   - Addr: bind address for the HTTP listener.
//   - DatabaseDSN: SQLite database path.
//   - JWTSecret: HMAC secret for signing tokens (HS256). Override in prod.
//   - TokenTTL: access token lifetime.
//   - LogLevel: zerolog level name.
//   - ClientOrigin: origin allowed by CORS (credentials-enabled).
type Config struct {
	Addr         string
	DatabaseDSN  string
	JWTSecret    string
	TokenTTL     time.Duration
	LogLevel     string
	ClientOrigin string
}

// LoadDefaults populates Config with development defaults.
// NOTE: The JWT secret here is insecure and must be overridden in production.
func (c *Config) LoadDefaults() {
	c.Addr = ":3000"
	c.DatabaseDSN = "./data/flashdeck.db"
	c.JWTSecret = "dev_secret_change_me"
	c.TokenTTL = time.Hour
	c.LogLevel = "info"
	c.ClientOrigin = "http://localhost:5173"
}

// Load builds a Config by applying defaults and overlaying environment
// variables.
func Load() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()

	if v := os.Getenv("PORT"); v != "" {
		cfg.Addr = ":" + v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.DatabaseDSN = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.TokenTTL = d
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("CLIENT_ORIGIN"); v != "" {
		cfg.ClientOrigin = v
	}
	return cfg
}
