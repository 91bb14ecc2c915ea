package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var managedKeys = []string{
	"APP_ENV", "LOG_LEVEL", "SERVER_PORT", "REDIS_URL",
	"SHIPROCKET_URL", "SHIPROCKET_API_TOKEN", "SHIPROCKET_TIMEOUT_SECONDS",
	"SHIPROCKET_RATE_PER_SECOND", "SHIPROCKET_RATE_BURST",
	"TRACKING_CACHE_TTL_SECONDS", "TRACKING_MAX_CONCURRENCY",
	"SCRAPER_PAGE_URL", "SCRAPER_API_PATTERN", "SCRAPER_TIMEOUT_SECONDS",
	"UNMAPPED_REPORT_SCHEDULE", "UNMAPPED_REPORT_TOP_N", "UNMAPPED_MAX_STATUSES", "SLACK_WEBHOOK_URL",
}

// clearEnv unsets every key the config reads, before and after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range managedKeys {
		os.Unsetenv(key)
	}
	t.Cleanup(func() {
		for _, key := range managedKeys {
			os.Unsetenv(key)
		}
	})
}

// TestLoad_Defaults verifies that default values are used when env vars are missing.
func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	os.Setenv("SHIPROCKET_API_TOKEN", "token_default")

	cfg, err := Load(".")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "https://apiv2.shiprocket.in", cfg.Shiprocket.URL)
	assert.Equal(t, 10*time.Second, cfg.Shiprocket.Timeout())
	assert.Equal(t, 5.0, cfg.Shiprocket.RatePerSecond)
	assert.Equal(t, 5, cfg.Shiprocket.RateBurst)
	assert.Equal(t, time.Duration(0), cfg.Tracking.CacheTTL())
	assert.Equal(t, 4, cfg.Tracking.MaxConcurrency)
	assert.Equal(t, 20, cfg.Report.TopN)
	assert.Equal(t, 1000, cfg.Report.MaxStatuses)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Scraper.Enabled())
}

// TestLoad_EnvVars verifies that environment variables override defaults.
func TestLoad_EnvVars(t *testing.T) {
	clearEnv(t)
	os.Setenv("APP_ENV", "production")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("REDIS_URL", "redis://localhost:6379/0")
	os.Setenv("SHIPROCKET_URL", "https://tracking.example.com")
	os.Setenv("SHIPROCKET_API_TOKEN", "token_123")
	os.Setenv("TRACKING_CACHE_TTL_SECONDS", "30")
	os.Setenv("SCRAPER_PAGE_URL", "https://track.example.com/%s")
	os.Setenv("SCRAPER_API_PATTERN", "*/api/track*")
	os.Setenv("UNMAPPED_REPORT_SCHEDULE", "0 9 * * 1-5")

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "https://tracking.example.com", cfg.Shiprocket.URL)
	assert.Equal(t, "token_123", cfg.Shiprocket.APIToken)
	assert.Equal(t, 30*time.Second, cfg.Tracking.CacheTTL())
	assert.True(t, cfg.Scraper.Enabled())
	assert.Equal(t, "0 9 * * 1-5", cfg.Report.Schedule)
}

// TestLoad_File verifies that values are loaded from a .env file.
func TestLoad_File(t *testing.T) {
	clearEnv(t)
	content := []byte(`
APP_ENV=staging
LOG_LEVEL=warn
SERVER_PORT=7070
SHIPROCKET_API_TOKEN=token_staging
UNMAPPED_REPORT_TOP_N=5
`)
	err := os.WriteFile(".env", content, 0644)
	require.NoError(t, err)
	defer os.Remove(".env")

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 7070, cfg.ServerPort)
	assert.Equal(t, "token_staging", cfg.Shiprocket.APIToken)
	assert.Equal(t, 5, cfg.Report.TopN)
}

// TestLoad_ValidationFailure verifies that missing required fields return an error.
func TestLoad_ValidationFailure(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(".")
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "missing required configuration: SHIPROCKET_API_TOKEN")
}

func TestLoad_InvalidConcurrency(t *testing.T) {
	clearEnv(t)
	os.Setenv("SHIPROCKET_API_TOKEN", "token")
	os.Setenv("TRACKING_MAX_CONCURRENCY", "0")

	cfg, err := Load(".")
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "TRACKING_MAX_CONCURRENCY")
}
