package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment names
const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)

// Labels holds the user-facing text of the directory pages.
// All values are configurable via YAML.
type Labels struct {
	MembersTitle     string `yaml:"membersTitle"`
	PokemastersTitle string `yaml:"pokemastersTitle"`
	Leader           string `yaml:"leader"`
	NotFound         string `yaml:"notFound"`
	ServerError      string `yaml:"serverError"`
}

// DirectoryFile is the layout of the YAML display configuration
type DirectoryFile struct {
	Labels Labels `yaml:"labels"`
}

// DefaultLabels are used when the YAML file is missing or leaves a key empty
var DefaultLabels = Labels{
	MembersTitle:     "All Book Club Members",
	PokemastersTitle: "Pokemasters Directory",
	Leader:           "Leader",
	NotFound:         "Not Found",
	ServerError:      "Something went wrong",
}

// Config is the application configuration, built once at startup
type Config struct {
	Environment     string
	Port            string
	LogLevel        slog.Level
	ShutdownTimeout time.Duration
	AutoMigrate     bool
	Labels          Labels
}

// Load builds the configuration from environment variables and the YAML label file
// at DIRECTORY_CONFIG (default config/directory.yaml)
func Load() (*Config, error) {
	labels, err := LoadLabels(GetEnvOrDefault("DIRECTORY_CONFIG", ""))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Environment:     strings.ToLower(GetEnvOrDefault("ENVIRONMENT", EnvDevelopment)),
		Port:            GetEnvOrDefault("PORT", "4567"),
		LogLevel:        ParseLogLevel(GetEnvOrDefault("LOG_LEVEL", "info")),
		ShutdownTimeout: GetDurationOrDefault("SHUTDOWN_TIMEOUT", 30*time.Second),
		AutoMigrate:     GetBoolOrDefault("AUTO_MIGRATE", true),
		Labels:          *labels,
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return nil, fmt.Errorf("invalid PORT %q: %w", cfg.Port, err)
	}

	return cfg, nil
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// LoadLabels loads display labels from a YAML file.
// If the file is not found, returns default labels.
func LoadLabels(configPath string) (*Labels, error) {
	if configPath == "" {
		configPath = "config/directory.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			labels := DefaultLabels
			return &labels, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var file DirectoryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		slog.Warn("Failed to parse config file, using defaults", "path", configPath, "error", err)
		labels := DefaultLabels
		return &labels, nil
	}

	labels := &file.Labels
	if labels.MembersTitle == "" {
		labels.MembersTitle = DefaultLabels.MembersTitle
	}
	if labels.PokemastersTitle == "" {
		labels.PokemastersTitle = DefaultLabels.PokemastersTitle
	}
	if labels.Leader == "" {
		labels.Leader = DefaultLabels.Leader
	}
	if labels.NotFound == "" {
		labels.NotFound = DefaultLabels.NotFound
	}
	if labels.ServerError == "" {
		labels.ServerError = DefaultLabels.ServerError
	}

	return labels, nil
}

// ParseLogLevel maps a level name to slog.Level, defaulting to info
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// GetEnvOrDefault returns the environment variable value or a default
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetIntOrDefault parses an integer from environment variable or returns default
func GetIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
		slog.Warn("Invalid integer, using default", "key", key, "value", value, "default", defaultValue)
	}
	return defaultValue
}

// GetBoolOrDefault parses a boolean from environment variable or returns default
func GetBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
		slog.Warn("Invalid boolean, using default", "key", key, "value", value, "default", defaultValue)
	}
	return defaultValue
}

// GetDurationOrDefault parses a duration from environment variable or returns default.
// Accepts formats like "1h", "30m", "15s".
func GetDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
		slog.Warn("Invalid duration format, using default", "key", key, "value", value, "default", defaultValue)
	}
	return defaultValue
}
