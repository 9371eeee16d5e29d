package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ServerConfig holds settings for the HTTP service, read from the environment.
type ServerConfig struct {
	Port            string
	LogLevel        string
	CacheSize       int // 0 disables result caching
	CacheTTL        time.Duration
	DisplayCurrency string
	OverridesFile   string
	ShutdownTimeout time.Duration
}

// LoadServerConfig reads a .env file when present, then the environment.
func LoadServerConfig() *ServerConfig {
	_ = godotenv.Load()

	return &ServerConfig{
		Port:            getEnv("PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		CacheSize:       getEnvInt("CACHE_SIZE", 4096),
		CacheTTL:        getEnvDuration("CACHE_TTL", 10*time.Minute),
		DisplayCurrency: strings.ToUpper(getEnv("DISPLAY_CURRENCY", "")),
		OverridesFile:   getEnv("TAX_OVERRIDES_FILE", ""),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// Addr is the listen address derived from Port.
func (c *ServerConfig) Addr() string {
	return ":" + c.Port
}

// Validate validates the configuration and returns an error if invalid
func (c *ServerConfig) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if c.CacheSize < 0 {
		problems = append(problems, fmt.Sprintf("invalid cache size %d: must not be negative", c.CacheSize))
	}
	if c.CacheTTL < 0 {
		problems = append(problems, fmt.Sprintf("invalid cache ttl %v: must not be negative", c.CacheTTL))
	}
	if c.DisplayCurrency != "" && len(c.DisplayCurrency) != 3 {
		problems = append(problems, fmt.Sprintf("invalid display currency '%s': must be a 3-letter code", c.DisplayCurrency))
	}
	if c.OverridesFile != "" {
		if _, err := os.Stat(c.OverridesFile); err != nil {
			problems = append(problems, fmt.Sprintf("overrides file not readable: %v", err))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
