package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Server config
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)

	// Sink config
	assert.Equal(t, "", cfg.Sink.URL)
	assert.Equal(t, 30*time.Second, cfg.Sink.Timeout)
	assert.Equal(t, "UNO", cfg.Sink.DefaultTeam)
	assert.Equal(t, "Boeing", cfg.Sink.DefaultCustomer)
	assert.Equal(t, 100000, cfg.Sink.BulkLimit)
	assert.Equal(t, 10, cfg.Sink.RecentLimit)

	// Search config
	assert.Equal(t, 150*time.Millisecond, cfg.Search.Debounce())
	assert.Equal(t, 10, cfg.Search.TopN)
	assert.Equal(t, 30*24*time.Hour, cfg.Search.Window())

	// Logging config
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	// Rate limit config
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoadOrDefault(t *testing.T) {
	// Should return default when no env vars set
	cfg := LoadOrDefault()

	assert.NotNil(t, cfg)
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"PORT":               "9000",
		"HOST":               "127.0.0.1",
		"SINK_URL":           "https://sink.example.com/exec",
		"SINK_TIMEOUT":       "10s",
		"SINK_RETRY_MAX":     "5",
		"DEFAULT_TEAM":       "DOS",
		"DEFAULT_CUSTOMER":   "Spirit",
		"BULK_LIMIT":         "5000",
		"RECENT_LIMIT":       "25",
		"SEARCH_DEBOUNCE_MS": "300",
		"SEARCH_TOP_N":       "20",
		"SEARCH_WINDOW_DAYS": "7",
		"LOG_LEVEL":          "debug",
		"LOG_DEV":            "true",
		"RATE_LIMIT_RPS":     "500",
		"RATE_LIMIT_BURST":   "1000",
		"RATE_LIMIT_ENABLED": "false",
	}

	for key, value := range envVars {
		err := os.Setenv(key, value)
		require.NoError(t, err)
		defer os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)

	assert.Equal(t, "https://sink.example.com/exec", cfg.Sink.URL)
	assert.Equal(t, 10*time.Second, cfg.Sink.Timeout)
	assert.Equal(t, 5, cfg.Sink.RetryMax)
	assert.Equal(t, "DOS", cfg.Sink.DefaultTeam)
	assert.Equal(t, "Spirit", cfg.Sink.DefaultCustomer)
	assert.Equal(t, 5000, cfg.Sink.BulkLimit)
	assert.Equal(t, 25, cfg.Sink.RecentLimit)

	assert.Equal(t, 300*time.Millisecond, cfg.Search.Debounce())
	assert.Equal(t, 20, cfg.Search.TopN)
	assert.Equal(t, 7*24*time.Hour, cfg.Search.Window())

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)

	assert.Equal(t, 500, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 1000, cfg.RateLimit.Burst)
	assert.False(t, cfg.RateLimit.Enabled)
}
