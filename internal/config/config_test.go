package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, c.Addr, ":3000")
	assert.Equal(t, c.DatabaseDSN, "./data/flashdeck.db")
	assert.Equal(t, c.JWTSecret, "dev_secret_change_me")
	assert.Equal(t, c.TokenTTL, time.Hour)
	assert.Equal(t, c.LogLevel, "info")
	assert.Equal(t, c.ClientOrigin, "http://localhost:5173")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_DSN", ":memory:")
	t.Setenv("JWT_SECRET", "prod-secret")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CLIENT_ORIGIN", "https://app.example.com")

	c := Load()
	require.NotNil(t, c)
	assert.Equal(t, c.Addr, ":8080")
	assert.Equal(t, c.DatabaseDSN, ":memory:")
	assert.Equal(t, c.JWTSecret, "prod-secret")
	assert.Equal(t, c.TokenTTL, 30*time.Minute)
	assert.Equal(t, c.LogLevel, "debug")
	assert.Equal(t, c.ClientOrigin, "https://app.example.com")
}

func TestLoad_BadTTLKeepsDefault(t *testing.T) {
	t.Setenv("TOKEN_TTL", "not-a-duration")

	c := Load()
	assert.Equal(t, c.TokenTTL, time.Hour)
}
