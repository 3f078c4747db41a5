package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config represents the complete application configuration.
type Config struct {
	Database  DatabaseConfig  `json:"database"`
	Feed      FeedConfig      `json:"feed"`
	Poller    PollerConfig    `json:"poller"`
	Scheduler SchedulerConfig `json:"scheduler"`
	Seed      SeedConfig      `json:"seed"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	// Host is the database server hostname
	Host string `json:"host"`

	// Port is the database server port
	Port int `json:"port"`

	// Database is the database name
	Database string `json:"database"`

	// Username for database authentication
	Username string `json:"username"`

	// Password for database authentication (should be loaded from environment)
	Password string `json:"password"`

	// SSLMode for PostgreSQL connections (disable, require, verify-ca, verify-full)
	SSLMode string `json:"ssl_mode"`

	// MaxOpenConns is the maximum number of open connections
	MaxOpenConns int `json:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections
	MaxIdleConns int `json:"max_idle_conns"`
}

// FeedConfig contains position feed settings.
type FeedConfig struct {
	// Host is the feed hostname (e.g., "adsbexchange.com")
	Host string `json:"host"`

	// APIKey is the API key for feeds that require authentication
	APIKey string `json:"api_key,omitempty"`

	// TimeoutSeconds bounds each feed request
	TimeoutSeconds int `json:"timeout_seconds"`

	// RateLimitSeconds is the minimum time between feed calls in seconds.
	// 0 = no rate limit.
	RateLimitSeconds float64 `json:"rate_limit_seconds"`
}

// PollerConfig contains the adaptive polling cadence.
type PollerConfig struct {
	// FoundDelayMinutes is the delay before the next poll after a
	// position was stored or deduplicated
	FoundDelayMinutes int `json:"found_delay_minutes"`

	// NoResponseDelayMinutes is the delay before the next poll after a
	// feed failure or an empty response
	NoResponseDelayMinutes int `json:"no_response_delay_minutes"`
}

// SchedulerConfig contains task scheduler settings.
type SchedulerConfig struct {
	// Workers is the number of concurrent job workers
	Workers int `json:"workers"`
}

// SeedConfig contains reference-data bootstrap settings.
type SeedConfig struct {
	// Dir is the directory holding airports.json, engines.json,
	// aircraft.json and people.json
	Dir string `json:"dir"`
}

// Load reads configuration from a JSON file.
// If the file doesn't exist, returns a default configuration.
func Load(path string) (*Config, error) {
	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		cfg.applyEnvironmentOverrides()
		return cfg, nil
	}

	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse JSON
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvironmentOverrides()

	return &cfg, nil
}

// Save writes the configuration to a JSON file.
func (c *Config) Save(path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Marshal to JSON with indentation
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:         "localhost",
			Port:         5432,
			Database:     "flightlog",
			Username:     "flightlog",
			SSLMode:      "disable",
			MaxOpenConns: 25,
			MaxIdleConns: 5,
		},
		Feed: FeedConfig{
			Host:             "adsbexchange.com",
			TimeoutSeconds:   10,
			RateLimitSeconds: 1.0,
		},
		Poller: PollerConfig{
			FoundDelayMinutes:      2,
			NoResponseDelayMinutes: 10,
		},
		Scheduler: SchedulerConfig{
			Workers: 8,
		},
		Seed: SeedConfig{
			Dir: "seed-data",
		},
	}
}

// FoundDelay returns the post-success poll delay as a duration.
func (c *PollerConfig) FoundDelay() time.Duration {
	return time.Duration(c.FoundDelayMinutes) * time.Minute
}

// NoResponseDelay returns the post-failure poll delay as a duration.
func (c *PollerConfig) NoResponseDelay() time.Duration {
	return time.Duration(c.NoResponseDelayMinutes) * time.Minute
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
// This allows sensitive data like passwords to be kept out of config files.
func (c *Config) applyEnvironmentOverrides() {
	if dbHost := os.Getenv("FLIGHTLOG_DB_HOST"); dbHost != "" {
		c.Database.Host = dbHost
	}
	if dbPassword := os.Getenv("FLIGHTLOG_DB_PASSWORD"); dbPassword != "" {
		c.Database.Password = dbPassword
	}
	if feedHost := os.Getenv("FLIGHTLOG_FEED_HOST"); feedHost != "" {
		c.Feed.Host = feedHost
	}
	if apiKey := os.Getenv("FLIGHTLOG_FEED_API_KEY"); apiKey != "" {
		c.Feed.APIKey = apiKey
	}
	if seedDir := os.Getenv("FLIGHTLOG_SEED_DIR"); seedDir != "" {
		c.Seed.Dir = seedDir
	}
}
