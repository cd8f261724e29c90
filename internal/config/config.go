package config

import (
	"os"
	"strconv"
	"time"

	"gnnreport/internal"
	"gnnreport/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Logging LoggingConfig
	Render  RenderConfig
	Fonts   FontConfig
	Archive ArchiveConfig
	Server  ServerConfig
}

// LoggingConfig holds log verbosity settings
type LoggingConfig struct {
	Level internal.LogLevel
}

// RenderConfig holds figure rendering settings
type RenderConfig struct {
	Workers int
	DPI     float64
}

// FontConfig holds typeface lookup settings
type FontConfig struct {
	Dir string
}

// ArchiveConfig holds optional run-archive settings
type ArchiveConfig struct {
	DSN string
}

// ServerConfig holds preview server settings
type ServerConfig struct {
	Addr        string
	ReadTimeout time.Duration
}

// Enabled reports whether an archive DSN was configured
func (a ArchiveConfig) Enabled() bool {
	return a.DSN != ""
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Logging: loadLoggingConfig(),
		Render:  loadRenderConfig(),
		Fonts:   loadFontConfig(),
		Archive: loadArchiveConfig(),
		Server:  loadServerConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level: internal.ParseLogLevel(os.Getenv("LOG_LEVEL")),
	}
}

func loadRenderConfig() RenderConfig {
	return RenderConfig{
		Workers: getEnvIntOrDefault("RENDER_WORKERS", 4),
		DPI:     getEnvFloatOrDefault("CHART_DPI", 250),
	}
}

func loadFontConfig() FontConfig {
	return FontConfig{
		Dir: getEnvOrDefault("FONT_DIR", ""),
	}
}

func loadArchiveConfig() ArchiveConfig {
	return ArchiveConfig{
		DSN: getEnvOrDefault("ARCHIVE_DSN", ""),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Addr:        getEnvOrDefault("SERVE_ADDR", ":8080"),
		ReadTimeout: getEnvDurationOrDefault("SERVE_READ_TIMEOUT", 10*time.Second),
	}
}

func validateConfig(config *Config) error {
	if config.Render.Workers < 1 {
		return errors.ConfigInvalid("RENDER_WORKERS must be at least 1")
	}
	if config.Render.DPI <= 0 {
		return errors.ConfigInvalid("CHART_DPI must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
