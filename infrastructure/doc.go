// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package. These implementations handle external concerns
// such as caching, HTTP communication, persistence and logging.
//
// The infrastructure package is organized by technical concern:
//
// - cache/memory: In-memory cache built on patrickmn/go-cache
// - cache/redis: Redis-based cache implementation
// - storage/sqlite: SQLite result store for processed batches
// - http/standard: Standard library HTTP client with retry logic and rate limiting
// - logger/logrus: Structured logger built on logrus
// - providers/searchapi: Generic JSON search API provider
// - providers/rss: RSS/Atom feed provider built on gofeed
//
// # Design Philosophy
//
// Infrastructure components are designed to be:
// - Pluggable: Easy to swap implementations
// - Configurable: Accept configuration objects
// - Testable: Include both unit and integration tests
// - Production-ready: Include retries, timeouts, and error handling
//
// # Cache Implementations
//
// Memory Cache Example:
//
//	cache := memory.NewMemoryCache(time.Hour, 10*time.Minute)
//	err := cache.Set(ctx, "key", []byte("value"), 1*time.Hour)
//	value, err := cache.Get(ctx, "key")
//
// Redis Cache Example:
//
//	cfg := config.RedisConfig{
//	    Address:  "localhost:6379",
//	    Password: "",
//	    DB:       0,
//	}
//	cache, err := redis.NewRedisCache(cfg)
//
// # HTTP Client
//
// The HTTP client includes automatic retry logic for transient failures
// and an optional client-side rate limit:
//
//	client := standard.NewStandardHTTPClient(30 * time.Second).WithRateLimit(10, 20)
//	resp, err := client.Get(ctx, "https://example.com")
//	if err != nil {
//	    // Handle error
//	}
//	defer resp.Body().Close()
//
// # Result Store
//
// The SQLite store persists processed batches and duplicate relationships:
//
//	store, err := sqlite.NewStore("results.db")
//	err = store.SaveResults(ctx, "golang", results)
package infrastructure
