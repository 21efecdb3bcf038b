// ABOUTME: Configuration management for the application with environment variable support
// ABOUTME: Defines server, cache, rate limit, logging and upstream source settings

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig

	// Cache contains result cache configuration
	Cache CacheConfig

	// RateLimit contains per-client admission limits
	RateLimit RateLimitConfig

	// Resolver contains cascade settings
	Resolver ResolverConfig

	// Log contains logging configuration
	Log LogConfig

	// Sources lists the upstream providers in fallback order
	Sources []SourceConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string

	// ShutdownTimeout bounds graceful shutdown
	ShutdownTimeout time.Duration
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Type specifies the cache backend (memory/redis/sqlite)
	Type string

	// TTL is how long a successful result is served from cache
	TTL time.Duration

	// NegativeTTL is how long an exhausted result is served; zero disables it
	NegativeTTL time.Duration

	// Redis contains Redis-specific configuration
	Redis RedisConfig

	// SQLite contains SQLite-specific configuration
	SQLite SQLiteConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string

	// Password is the Redis authentication password
	Password string

	// DB is the Redis database number
	DB int

	// KeyPrefix namespaces every key written by this service
	KeyPrefix string
}

// SQLiteConfig holds SQLite-specific configuration
type SQLiteConfig struct {
	// Path is the database file
	Path string
}

// RateLimitConfig holds admission limits
type RateLimitConfig struct {
	// Limit is the number of requests admitted per window
	Limit int

	// Window is the window length
	Window time.Duration
}

// ResolverConfig holds cascade settings
type ResolverConfig struct {
	// SingleFlight shares one upstream resolution among identical concurrent requests
	SingleFlight bool
}

// LogConfig holds logging configuration
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string

	// File, when set, receives log output with size based rotation
	File string

	// Format is json (logrus) or text (plain line logger)
	Format string
}

// Cache backend names
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheSQLite = "sqlite"
)

// Log formats
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// LoadFromEnv loads configuration from environment variables. When
// SOURCES_FILE is set the source list is read from that YAML file,
// otherwise it is built from the *_BASE_URL variables.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("PORT", "8000"),
			ShutdownTimeout: getEnvAsDurationOrDefault("SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Cache: CacheConfig{
			Type:        getEnvOrDefault("CACHE_TYPE", CacheMemory),
			TTL:         getEnvAsSecondsOrDefault("CACHE_TTL", 300*time.Second),
			NegativeTTL: getEnvAsSecondsOrDefault("NEGATIVE_CACHE_TTL", 30*time.Second),
			Redis: RedisConfig{
				Address:   getEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
				Password:  getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:        getEnvAsIntOrDefault("REDIS_DB", 0),
				KeyPrefix: getEnvOrDefault("REDIS_KEY_PREFIX", "otakubantu:"),
			},
			SQLite: SQLiteConfig{
				Path: getEnvOrDefault("SQLITE_PATH", "cache.db"),
			},
		},
		RateLimit: RateLimitConfig{
			Limit:  getEnvAsIntOrDefault("RATE_LIMIT", 100),
			Window: getEnvAsDurationOrDefault("RATE_WINDOW", 15*time.Minute),
		},
		Resolver: ResolverConfig{
			SingleFlight: getEnvAsBoolOrDefault("SINGLE_FLIGHT", true),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
			File:   getEnvOrDefault("LOG_FILE", ""),
			Format: strings.ToLower(getEnvOrDefault("LOG_FORMAT", LogFormatJSON)),
		},
	}

	if path := os.Getenv("SOURCES_FILE"); path != "" {
		sources, err := LoadSourcesFile(path)
		if err != nil {
			return nil, err
		}
		cfg.Sources = sources
	} else {
		cfg.Sources = sourcesFromEnv()
	}

	return cfg, nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsSecondsOrDefault reads a whole number of seconds. Zero is kept so a
// TTL can be disabled.
func getEnvAsSecondsOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// getEnvAsDurationOrDefault accepts Go durations ("15m") or plain seconds
func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

// getEnvAsBoolOrDefault returns the environment variable as bool or a default
func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("port cannot be empty")
	}

	switch c.Cache.Type {
	case CacheMemory, CacheRedis, CacheSQLite:
	default:
		return errors.New("cache type must be 'memory', 'redis' or 'sqlite'")
	}

	if c.Cache.Type == CacheRedis && c.Cache.Redis.Address == "" {
		return errors.New("redis address cannot be empty when using redis cache")
	}

	if c.Cache.Type == CacheSQLite && c.Cache.SQLite.Path == "" {
		return errors.New("sqlite path cannot be empty when using sqlite cache")
	}

	if c.Cache.TTL <= 0 {
		return errors.New("cache TTL must be greater than zero")
	}

	if c.Cache.NegativeTTL < 0 {
		return errors.New("negative cache TTL cannot be negative")
	}

	if c.RateLimit.Limit < 1 {
		return errors.New("rate limit must be at least 1")
	}

	if c.RateLimit.Window <= 0 {
		return errors.New("rate window must be greater than zero")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}

	if c.Log.Format != LogFormatJSON && c.Log.Format != LogFormatText {
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}

	return ValidateSources(c.Sources)
}
