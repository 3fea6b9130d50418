package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "recipe_db", cfg.DB.Name)
	assert.Equal(t, 720*time.Hour, cfg.Auth.TokenLifetime)
	assert.Equal(t, 5, cfg.Auth.PasswordMinLength)
	assert.Equal(t, "./media", cfg.Media.Root)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, "recipe", cfg.Metrics.Prefix)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("AUTH_TOKEN_LIFETIME", "24h")
	t.Setenv("AUTH_PASSWORD_MIN_LENGTH", "8")
	t.Setenv("DB_MAX_OPEN_CONNS", "25")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenLifetime)
	assert.Equal(t, 8, cfg.Auth.PasswordMinLength)
	assert.Equal(t, 25, cfg.DB.MaxOpenConns)
}

func TestEnvHelpersIgnoreMalformedValues(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "lots")
	t.Setenv("AUTH_TOKEN_LIFETIME", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.DB.MaxOpenConns)
	assert.Equal(t, 720*time.Hour, cfg.Auth.TokenLifetime)
}

func TestGetDSN(t *testing.T) {
	db := DatabaseConfig{
		Host:     "db.internal",
		Port:     "5433",
		User:     "app",
		Password: "secret",
		Name:     "recipes",
		SSLMode:  "require",
	}
	assert.Equal(t,
		"host=db.internal port=5433 user=app password=secret dbname=recipes sslmode=require",
		db.GetDSN())
}
