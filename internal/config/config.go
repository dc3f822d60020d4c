// Package config defines service configuration and its validation.
package config

import (
	"fmt"
	"time"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFile, when set, also writes logs to a rotated file.
	LogFile string `koanf:"log_file"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// AllowedOrigins lists websocket origins accepted besides same-host.
	AllowedOrigins []string `koanf:"allowed_origins"`

	RegulationSeconds int `koanf:"regulation_seconds"`
	TickIntervalMS    int `koanf:"tick_interval_ms"`

	// StoreDriver selects persistence: sqlite, memory or redis.
	StoreDriver string `koanf:"store_driver"`
	StorePath   string `koanf:"store_path"`
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
	KeyPrefix     string `koanf:"key_prefix"`

	// HomeTeam and AwayTeam are the names used at kickoff and after reset.
	HomeTeam string   `koanf:"home_team"`
	AwayTeam string   `koanf:"away_team"`
	Roster   []string `koanf:"roster"`

	// NotifyURLs are shoutrrr service URLs that receive every notification.
	NotifyURLs      []string `koanf:"notify_urls"`
	NotifyQueueSize int      `koanf:"notify_queue_size"`
	NotifyWorkers   int      `koanf:"notify_workers"`

	// DedupeSize bounds the request id cache.
	DedupeSize int `koanf:"dedupe_size"`
}

// New returns a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		RegulationSeconds: 3600,
		TickIntervalMS:    100,
		StoreDriver:       DriverSQLite,
		StorePath:         "data/touchline.db",
		RedisAddr:         "localhost:6379",
		KeyPrefix:         "touchline:",
		HomeTeam:          "Home",
		AwayTeam:          "Opposition",
		NotifyQueueSize:   256,
		NotifyWorkers:     2,
		DedupeSize:        1024,
	}
}

// TickInterval returns TickIntervalMS as a duration.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMS) * time.Millisecond
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.RegulationSeconds <= 0:
		return fmt.Errorf("%w: regulation_seconds must be positive, got %d", ErrInvalidConfig, c.RegulationSeconds)
	case c.TickIntervalMS <= 0:
		return fmt.Errorf("%w: tick_interval_ms must be positive, got %d", ErrInvalidConfig, c.TickIntervalMS)
	case c.NotifyWorkers <= 0:
		return fmt.Errorf("%w: notify_workers must be positive, got %d", ErrInvalidConfig, c.NotifyWorkers)
	case c.NotifyQueueSize <= 0:
		return fmt.Errorf("%w: notify_queue_size must be positive, got %d", ErrInvalidConfig, c.NotifyQueueSize)
	}
	switch c.StoreDriver {
	case DriverMemory, DriverRedis:
	case DriverSQLite:
		if c.StorePath == "" {
			return fmt.Errorf("%w: store_path is required for sqlite", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, c.StoreDriver)
	}
	return nil
}
