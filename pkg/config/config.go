// ABOUTME: Configuration management for the application with environment variable support
// ABOUTME: Defines configuration structures for server, cache, providers, storage and processing

package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig

	// Cache contains cache configuration
	Cache CacheConfig

	// Storage contains result persistence configuration
	Storage StorageConfig

	// Providers contains search provider configuration
	Providers ProvidersConfig

	// Processing contains result pipeline configuration
	Processing ProcessingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string

	// RateLimitPerSecond caps requests per client IP
	RateLimitPerSecond int
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Type specifies the cache backend (redis/memory)
	Type string

	// Redis contains Redis-specific configuration
	Redis RedisConfig

	// Memory contains in-memory cache configuration
	Memory MemoryConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string

	// Password is the Redis authentication password
	Password string

	// DB is the Redis database number
	DB int
}

// MemoryConfig holds in-memory cache configuration
type MemoryConfig struct {
	// DefaultExpiration is the default TTL for cache entries in seconds
	DefaultExpiration int
}

// StorageConfig holds result persistence configuration
type StorageConfig struct {
	// Enabled toggles persisting processed batches
	Enabled bool

	// SQLitePath is the database file path
	SQLitePath string
}

// ProvidersConfig holds search provider configuration
type ProvidersConfig struct {
	// SearchAPIURL is the JSON search API endpoint; empty disables it
	SearchAPIURL string

	// SearchAPIKey authenticates against the search API
	SearchAPIKey string

	// RSSFeeds lists feed URLs queried by the RSS provider
	RSSFeeds []string

	// MaxConcurrent bounds concurrent provider fan-out
	MaxConcurrent int
}

// ProcessingConfig holds result pipeline configuration
type ProcessingConfig struct {
	// DedupThreshold is the title-similarity threshold in (0,1]
	DedupThreshold float64

	// EnableMerging folds duplicate fields into the kept record
	EnableMerging bool

	// MergeStrategy names the default merge strategy
	MergeStrategy string

	// ParallelEnrichment enables per-item fan-out inside the pipeline
	ParallelEnrichment bool

	// MaxConcurrentEnrichment is the enrichment chunk size
	MaxConcurrentEnrichment int

	// ModuleTimeoutSeconds bounds each enrichment module invocation
	ModuleTimeoutSeconds int

	// EnablePageMetadata turns on the page-metadata enrichment module
	EnablePageMetadata bool
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnvOrDefault("PORT", "8000"),
			RateLimitPerSecond: getEnvAsIntOrDefault("RATE_LIMIT_PER_SECOND", 10),
		},
		Cache: CacheConfig{
			Type: getEnvOrDefault("CACHE_TYPE", "memory"),
			Redis: RedisConfig{
				Address:  getEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
				Password: getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:       getEnvAsIntOrDefault("REDIS_DB", 0),
			},
			Memory: MemoryConfig{
				DefaultExpiration: getEnvAsIntOrDefault("MEMORY_CACHE_EXPIRATION", 3600),
			},
		},
		Storage: StorageConfig{
			Enabled:    getEnvAsBoolOrDefault("STORAGE_ENABLED", false),
			SQLitePath: getEnvOrDefault("SQLITE_PATH", "results.db"),
		},
		Providers: ProvidersConfig{
			SearchAPIURL:  getEnvOrDefault("SEARCH_API_URL", ""),
			SearchAPIKey:  getEnvOrDefault("SEARCH_API_KEY", ""),
			RSSFeeds:      getEnvAsListOrDefault("RSS_FEEDS", nil),
			MaxConcurrent: getEnvAsIntOrDefault("PROVIDER_MAX_CONCURRENT", 5),
		},
		Processing: ProcessingConfig{
			DedupThreshold:          getEnvAsFloatOrDefault("DEDUP_THRESHOLD", 0.8),
			EnableMerging:           getEnvAsBoolOrDefault("DEDUP_ENABLE_MERGING", false),
			MergeStrategy:           getEnvOrDefault("DEDUP_MERGE_STRATEGY", "conservative"),
			ParallelEnrichment:      getEnvAsBoolOrDefault("ENRICHMENT_PARALLEL", false),
			MaxConcurrentEnrichment: getEnvAsIntOrDefault("ENRICHMENT_MAX_CONCURRENT", 5),
			ModuleTimeoutSeconds:    getEnvAsIntOrDefault("ENRICHMENT_MODULE_TIMEOUT", 30),
			EnablePageMetadata:      getEnvAsBoolOrDefault("ENRICHMENT_PAGE_METADATA", false),
		},
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

// getEnvAsFloatOrDefault returns the environment variable as float64 or a default
func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsBoolOrDefault returns the environment variable as bool or a default
func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsListOrDefault splits a comma-separated environment variable
func getEnvAsListOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("port cannot be empty")
	}

	if c.Cache.Type != "redis" && c.Cache.Type != "memory" {
		return errors.New("cache type must be 'redis' or 'memory'")
	}

	if c.Cache.Type == "redis" && c.Cache.Redis.Address == "" {
		return errors.New("redis address cannot be empty when using redis cache")
	}

	if c.Processing.DedupThreshold <= 0 || c.Processing.DedupThreshold > 1 {
		return errors.New("dedup threshold must be in (0, 1]")
	}

	if c.Storage.Enabled && c.Storage.SQLitePath == "" {
		return errors.New("sqlite path cannot be empty when storage is enabled")
	}

	return nil
}
