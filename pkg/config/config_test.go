package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "config/scoring_rules.yaml", cfg.RulesPath)
	assert.True(t, cfg.CacheEnabled)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.True(t, cfg.AlertsEnabled)
	assert.Equal(t, 5*time.Minute, cfg.AlertCheckInterval)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("DB_MAX_CONNS", "25")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 25, cfg.Database.MaxConns)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("ENV", "sandbox")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidAlertInterval(t *testing.T) {
	t.Setenv("ALERT_CHECK_INTERVAL", "500ms")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "lots")
	t.Setenv("CACHE_ENABLED", "yep")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Database.MaxConns)
	assert.True(t, cfg.CacheEnabled)
}
