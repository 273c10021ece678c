// Package config provides process configuration from the environment.
// User preferences live in the settings file, not here.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"worktime/internal/platform"

	"github.com/rs/zerolog"
)

// AppName names the data directory and the single-instance port.
const AppName = "WorkTime"

// Config holds all process configuration.
type Config struct {
	DataDir      string
	HTTPAddr     string // empty selects the per-user instance address
	LogLevel     string
	LogJSON      bool
	AlarmPoll    time.Duration
	TickInterval time.Duration
	Headless     bool
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		DataDir:      getEnv("WORKTIME_DATA_DIR", defaultDataDir()),
		HTTPAddr:     getEnv("WORKTIME_HTTP_ADDR", ""),
		LogLevel:     getEnv("WORKTIME_LOG_LEVEL", "info"),
		LogJSON:      getEnvBool("WORKTIME_LOG_JSON", false),
		AlarmPoll:    getEnvDuration("WORKTIME_ALARM_POLL", time.Second),
		TickInterval: getEnvDuration("WORKTIME_TICK", time.Second),
		Headless:     getEnvBool("WORKTIME_HEADLESS", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("WORKTIME_DATA_DIR cannot be empty")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("WORKTIME_LOG_LEVEL: %w", err)
	}
	if c.AlarmPoll <= 0 || c.AlarmPoll > time.Minute {
		return fmt.Errorf("WORKTIME_ALARM_POLL must be between 0 and 1m")
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("WORKTIME_TICK must be > 0")
	}
	return nil
}

// Level returns the parsed log level.
func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

func defaultDataDir() string {
	dir, err := platform.ConfigDir()
	if err != nil {
		return filepath.Join(".", "data")
	}
	return filepath.Join(dir, AppName)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	duration, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return duration
}
