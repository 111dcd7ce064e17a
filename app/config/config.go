package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the session service
type Config struct {
	// Server
	Port     string `yaml:"port" env:"PORT" default:"9500"`
	Host     string `yaml:"host" env:"HOST" default:"0.0.0.0"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" default:"info"`

	// Database
	DatabaseURL      string `yaml:"database_url" env:"DATABASE_URL" required:"true"`
	DatabaseHost     string `yaml:"database_host" env:"DB_HOST" default:"auth-postgres"`
	DatabasePort     string `yaml:"database_port" env:"DB_PORT" default:"5432"`
	DatabaseName     string `yaml:"database_name" env:"DB_NAME" default:"study_auth_db"`
	DatabaseUser     string `yaml:"database_user" env:"DB_USER" default:"study_auth_user"`
	DatabasePassword string `yaml:"database_password" env:"DB_PASSWORD" required:"true"`
	DatabaseSSLMode  string `yaml:"database_ssl_mode" env:"DB_SSL_MODE" default:"require"`

	// Kratos
	KratosPublicURL string `yaml:"kratos_public_url" env:"KRATOS_PUBLIC_URL" required:"true"`
	KratosAdminURL  string `yaml:"kratos_admin_url" env:"KRATOS_ADMIN_URL" required:"true"`

	// Session reconciliation
	ProbeTimeout    time.Duration `yaml:"probe_timeout" env:"PROBE_TIMEOUT" default:"8s"`
	DebounceWindow  time.Duration `yaml:"debounce_window" env:"DEBOUNCE_WINDOW" default:"300ms"`
	GateTimeout     time.Duration `yaml:"gate_timeout" env:"GATE_TIMEOUT" default:"10s"`
	RefreshInterval time.Duration `yaml:"refresh_interval" env:"REFRESH_INTERVAL" default:"15m"`
	ProfileCacheTTL time.Duration `yaml:"profile_cache_ttl" env:"PROFILE_CACHE_TTL" default:"5m"`

	// Session token persistence (empty disables persistence)
	SessionTokenFile string `yaml:"session_token_file" env:"SESSION_TOKEN_FILE" default:""`
}

// Probe timeout bounds. Startup probes shorter than the lower bound flap on
// slow links; longer than the upper bound keeps callers in loading too long.
const (
	minProbeTimeout = 5 * time.Second
	maxProbeTimeout = 10 * time.Second
)

// Load reads configuration from environment variables, optionally overlaid
// with a YAML file named by CONFIG_FILE.
func Load() (*Config, error) {
	config := &Config{}

	// Server configuration
	config.Port = getEnvOrDefault("PORT", "9500")
	config.Host = getEnvOrDefault("HOST", "0.0.0.0")
	config.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")

	// Database configuration
	config.DatabaseURL = os.Getenv("DATABASE_URL")
	if config.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	config.DatabaseHost = getEnvOrDefault("DB_HOST", "auth-postgres")
	config.DatabasePort = getEnvOrDefault("DB_PORT", "5432")
	config.DatabaseName = getEnvOrDefault("DB_NAME", "study_auth_db")
	config.DatabaseUser = getEnvOrDefault("DB_USER", "study_auth_user")
	config.DatabasePassword = os.Getenv("DB_PASSWORD")
	if config.DatabasePassword == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}
	config.DatabaseSSLMode = getEnvOrDefault("DB_SSL_MODE", "require")

	// Kratos configuration
	config.KratosPublicURL = os.Getenv("KRATOS_PUBLIC_URL")
	if config.KratosPublicURL == "" {
		return nil, fmt.Errorf("KRATOS_PUBLIC_URL is required")
	}

	config.KratosAdminURL = os.Getenv("KRATOS_ADMIN_URL")
	if config.KratosAdminURL == "" {
		return nil, fmt.Errorf("KRATOS_ADMIN_URL is required")
	}

	// Reconciliation timing
	var err error
	if config.ProbeTimeout, err = getDurationEnv("PROBE_TIMEOUT", 8*time.Second); err != nil {
		return nil, err
	}
	if config.DebounceWindow, err = getDurationEnv("DEBOUNCE_WINDOW", 300*time.Millisecond); err != nil {
		return nil, err
	}
	if config.GateTimeout, err = getDurationEnv("GATE_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if config.RefreshInterval, err = getDurationEnv("REFRESH_INTERVAL", 15*time.Minute); err != nil {
		return nil, err
	}
	if config.ProfileCacheTTL, err = getDurationEnv("PROFILE_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}

	config.SessionTokenFile = os.Getenv("SESSION_TOKEN_FILE")

	// Optional file overlay
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := config.applyFile(path); err != nil {
			return nil, fmt.Errorf("failed to apply config file: %w", err)
		}
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// applyFile overlays non-zero values from a YAML file onto the config.
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	overlay := &Config{}
	if err := yaml.Unmarshal(data, overlay); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if overlay.Port != "" {
		c.Port = overlay.Port
	}
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.LogLevel != "" {
		c.LogLevel = overlay.LogLevel
	}
	if overlay.KratosPublicURL != "" {
		c.KratosPublicURL = overlay.KratosPublicURL
	}
	if overlay.KratosAdminURL != "" {
		c.KratosAdminURL = overlay.KratosAdminURL
	}
	if overlay.ProbeTimeout != 0 {
		c.ProbeTimeout = overlay.ProbeTimeout
	}
	if overlay.DebounceWindow != 0 {
		c.DebounceWindow = overlay.DebounceWindow
	}
	if overlay.GateTimeout != 0 {
		c.GateTimeout = overlay.GateTimeout
	}
	if overlay.RefreshInterval != 0 {
		c.RefreshInterval = overlay.RefreshInterval
	}
	if overlay.ProfileCacheTTL != 0 {
		c.ProfileCacheTTL = overlay.ProfileCacheTTL
	}
	if overlay.SessionTokenFile != "" {
		c.SessionTokenFile = overlay.SessionTokenFile
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate port
	port, err := strconv.ParseInt(c.Port, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid port: %s", c.Port)
	}
	// Check port range (1-65535)
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535: %s", c.Port)
	}

	// Validate log level
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	if c.ProbeTimeout < minProbeTimeout || c.ProbeTimeout > maxProbeTimeout {
		return fmt.Errorf("probe timeout must be between %v and %v, got: %v", minProbeTimeout, maxProbeTimeout, c.ProbeTimeout)
	}

	if c.DebounceWindow < 0 {
		return fmt.Errorf("debounce window must not be negative, got: %v", c.DebounceWindow)
	}

	if c.GateTimeout < time.Second {
		return fmt.Errorf("gate timeout must be at least 1 second, got: %v", c.GateTimeout)
	}

	if c.RefreshInterval < time.Minute {
		return fmt.Errorf("refresh interval must be at least 1 minute, got: %v", c.RefreshInterval)
	}

	if c.ProfileCacheTTL < time.Second {
		return fmt.Errorf("profile cache TTL must be at least 1 second, got: %v", c.ProfileCacheTTL)
	}

	return nil
}

// Helper functions

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
