// Package config provides configuration management for the application.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/amaumene/rdstream/internal/constants"
	"github.com/amaumene/rdstream/pkg/logger"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
// It supports loading from a YAML file and environment variables.
type Config struct {
	// Real-Debrid
	RealDebridToken   string `yaml:"realdebrid_api_token"`
	RealDebridBaseURL string `yaml:"realdebrid_base_url"`

	// Torrent search
	SearchURL string `yaml:"search_url"`
	// SearchLegacyFieldLayout reads size/seeds/leech from the rotated fields the
	// first version of the search endpoint used.
	SearchLegacyFieldLayout bool          `yaml:"search_legacy_field_layout"`
	SearchCacheSize         int           `yaml:"search_cache_size"`
	SearchCacheTTL          time.Duration `yaml:"search_cache_ttl"`

	// DemoFallback lets callers substitute labeled demonstration data when a
	// remote service fails.
	DemoFallback bool `yaml:"demo_fallback"`

	// Acquisition
	PollInterval    time.Duration `yaml:"poll_interval"`
	MaxPollAttempts int           `yaml:"max_poll_attempts"`
	StreamTimeout   time.Duration `yaml:"stream_timeout"`

	// Server and storage
	Port         string `yaml:"port"`
	DatabasePath string `yaml:"database_path"`

	// Logging
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	return &Config{
		RealDebridBaseURL: constants.DefaultRealDebridURL,
		SearchURL:         constants.DefaultSearchURL,
		SearchCacheSize:   constants.DefaultSearchCacheSize,
		SearchCacheTTL:    time.Duration(constants.DefaultSearchCacheTTL) * time.Minute,
		PollInterval:      constants.DefaultPollInterval,
		MaxPollAttempts:   constants.DefaultMaxPollAttempts,
		StreamTimeout:     constants.DefaultStreamTimeout,
		Port:              constants.DefaultPort,
		DatabasePath:      constants.DefaultDatabasePath,
		LogLevel:          constants.DefaultLogLevel,
	}
}

// Load reads configuration from an optional YAML file and environment variables.
// Environment variables take precedence over file values.
// Returns an error if the configuration is invalid.
func Load() (*Config, error) {
	cfg := Default()

	configFile := getEnvOrDefault("CONFIG_FILE", constants.DefaultConfigFile)
	if err := cfg.loadFromFile(configFile); err != nil {
		// Ignore file not found errors
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads configuration from a YAML file.
func (c *Config) loadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

// loadFromEnv loads configuration from environment variables.
func (c *Config) loadFromEnv() error {
	setString(&c.RealDebridToken, "REALDEBRID_API_TOKEN")
	setString(&c.RealDebridBaseURL, "REALDEBRID_BASE_URL")
	setString(&c.SearchURL, "SEARCH_URL")
	setString(&c.Port, "PORT")
	setString(&c.DatabasePath, "DATABASE_PATH")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.LogFile, "LOG_FILE")

	var errs []error
	errs = append(errs,
		setBool(&c.SearchLegacyFieldLayout, "SEARCH_LEGACY_FIELD_LAYOUT"),
		setBool(&c.DemoFallback, "DEMO_FALLBACK"),
		setInt(&c.SearchCacheSize, "SEARCH_CACHE_SIZE"),
		setInt(&c.MaxPollAttempts, "MAX_POLL_ATTEMPTS"),
		setDuration(&c.SearchCacheTTL, "SEARCH_CACHE_TTL"),
		setDuration(&c.PollInterval, "POLL_INTERVAL"),
		setDuration(&c.StreamTimeout, "STREAM_TIMEOUT"),
	)
	return errors.Join(errs...)
}

// Validate checks if the configuration is valid.
// The Real-Debrid token is optional here; it can be stored later through the
// settings API and every debrid call fails with a configuration error until then.
func (c *Config) Validate() error {
	c.RealDebridToken = strings.TrimSpace(c.RealDebridToken)

	if _, err := url.ParseRequestURI(c.RealDebridBaseURL); err != nil {
		return fmt.Errorf("realdebrid_base_url: %w", err)
	}
	if _, err := url.ParseRequestURI(c.SearchURL); err != nil {
		return fmt.Errorf("search_url: %w", err)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval)
	}
	if c.MaxPollAttempts < 1 {
		return fmt.Errorf("max_poll_attempts must be at least 1, got %d", c.MaxPollAttempts)
	}
	if c.StreamTimeout <= 0 {
		return fmt.Errorf("stream_timeout must be positive, got %s", c.StreamTimeout)
	}
	if c.SearchCacheSize < 0 {
		return fmt.Errorf("search_cache_size must not be negative, got %d", c.SearchCacheSize)
	}
	if !logger.ValidLevel(c.LogLevel) {
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

// LoggerOptions returns the logger settings of this configuration.
func (c *Config) LoggerOptions() logger.Options {
	return logger.Options{Level: c.LogLevel, File: c.LogFile}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

// getEnvOrDefault returns environment variable value or default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
