// Package config provides 12-factor configuration management for the quote
// logger service.
//
// Configuration is loaded from environment variables with sensible defaults.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - Sink: remote quote-log endpoint and sync defaults
//   - Search: debounce, display window, and stats horizon
//   - Logging: log level and output format
//   - RateLimit: per-IP rate limiting configuration
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST
//   - SINK_URL, SINK_TIMEOUT, SINK_RETRY_MAX, DEFAULT_TEAM, DEFAULT_CUSTOMER
//   - BULK_LIMIT, RECENT_LIMIT
//   - SEARCH_DEBOUNCE_MS, SEARCH_TOP_N, SEARCH_WINDOW_DAYS
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Sink      SinkConfig
	Search    SearchConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// SinkConfig holds the remote quote-log endpoint and sync defaults.
type SinkConfig struct {
	URL             string        `envconfig:"SINK_URL" default:""`
	Timeout         time.Duration `envconfig:"SINK_TIMEOUT" default:"30s"`
	RetryMax        int           `envconfig:"SINK_RETRY_MAX" default:"2"`
	DefaultTeam     string        `envconfig:"DEFAULT_TEAM" default:"UNO"`
	DefaultCustomer string        `envconfig:"DEFAULT_CUSTOMER" default:"Boeing"`
	BulkLimit       int           `envconfig:"BULK_LIMIT" default:"100000"`
	RecentLimit     int           `envconfig:"RECENT_LIMIT" default:"10"`
}

// SearchConfig holds search tuning.
type SearchConfig struct {
	DebounceMS int `envconfig:"SEARCH_DEBOUNCE_MS" default:"150"`
	TopN       int `envconfig:"SEARCH_TOP_N" default:"10"`
	WindowDays int `envconfig:"SEARCH_WINDOW_DAYS" default:"30"`
}

// Debounce returns the debounce interval as a duration.
func (s SearchConfig) Debounce() time.Duration {
	return time.Duration(s.DebounceMS) * time.Millisecond
}

// Window returns the stats horizon as a duration.
func (s SearchConfig) Window() time.Duration {
	return time.Duration(s.WindowDays) * 24 * time.Hour
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Sink: SinkConfig{
			Timeout:         30 * time.Second,
			RetryMax:        2,
			DefaultTeam:     "UNO",
			DefaultCustomer: "Boeing",
			BulkLimit:       100000,
			RecentLimit:     10,
		},
		Search: SearchConfig{
			DebounceMS: 150,
			TopN:       10,
			WindowDays: 30,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
