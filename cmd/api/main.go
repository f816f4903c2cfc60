// ABOUTME: Main entry point for the search results API server
// ABOUTME: Wires together all components and starts the HTTP server

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"search-results-api/api"
	"search-results-api/api/handlers"
	"search-results-api/core/aggregate"
	"search-results-api/core/dedup"
	"search-results-api/core/enrichment"
	"search-results-api/core/filter"
	"search-results-api/core/interfaces"
	"search-results-api/core/pipeline"
	"search-results-api/core/workers"
	"search-results-api/infrastructure/cache/memory"
	"search-results-api/infrastructure/cache/redis"
	stdhttp "search-results-api/infrastructure/http/standard"
	logruslogger "search-results-api/infrastructure/logger/logrus"
	"search-results-api/infrastructure/providers/rss"
	"search-results-api/infrastructure/providers/searchapi"
	"search-results-api/infrastructure/storage/sqlite"
	"search-results-api/pkg/config"
	"search-results-api/pkg/featureflags"
)

func main() {
	// Load configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Create logger
	logger := logruslogger.NewLogger(os.Getenv("LOG_LEVEL"))
	logger.Info("Starting search results API", map[string]interface{}{
		"port":       cfg.Server.Port,
		"cache_type": cfg.Cache.Type,
	})

	// Create cache
	var cache interfaces.Cache
	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := redis.NewRedisCache(cfg.Cache.Redis)
		if err != nil {
			logger.Error("Failed to create Redis cache, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
			cache = newMemoryCache(cfg)
		} else {
			cache = redisCache
			logger.Info("Using Redis cache", map[string]interface{}{
				"address": cfg.Cache.Redis.Address,
			})
		}
	default:
		cache = newMemoryCache(cfg)
		logger.Info("Using memory cache", nil)
	}

	// Create HTTP client with client-side rate limiting
	httpClient := stdhttp.NewStandardHTTPClient(30 * time.Second).WithRateLimit(10, 20)

	deps := interfaces.Dependencies{
		Cache:      cache,
		HTTPClient: httpClient,
		Logger:     logger,
	}

	// Create search providers
	var providers []interfaces.SearchProvider
	if cfg.Providers.SearchAPIURL != "" {
		providers = append(providers, searchapi.NewProvider(searchapi.Config{
			BaseURL: cfg.Providers.SearchAPIURL,
			APIKey:  cfg.Providers.SearchAPIKey,
		}, httpClient, logger))
	}
	if len(cfg.Providers.RSSFeeds) > 0 {
		providers = append(providers, rss.NewProvider(cfg.Providers.RSSFeeds, logger))
	}
	if len(providers) == 0 {
		logger.Warn("No search providers configured; /api/search will fail", nil)
	}

	// Create deduplication engine; experimental heuristics are gated
	// behind feature flags
	flags := featureflags.NewEnvManager("")
	flagCtx := context.Background()

	dedupOpts := dedup.DefaultOptions()
	dedupOpts.Threshold = cfg.Processing.DedupThreshold
	dedupOpts.EnableMerging = cfg.Processing.EnableMerging
	dedupOpts.MergeStrategy = cfg.Processing.MergeStrategy
	dedupOpts.EnableLogging = true
	if flags.IsEnabled(flagCtx, featureflags.SubdomainCollapse) {
		dedupOpts.TreatSubdomainsAsSame = true
	}
	if flags.IsEnabled(flagCtx, featureflags.IgnoreQueryParams) {
		dedupOpts.IgnoreQueryParams = true
	}
	if flags.IsEnabled(flagCtx, featureflags.CaseInsensitivePaths) {
		dedupOpts.IgnoreCaseInPath = true
	}
	if flags.IsEnabled(flagCtx, featureflags.ComprehensiveMerging) {
		dedupOpts.MergeStrategy = dedup.StrategyComprehensive
	}
	engine := dedup.NewEngine(dedupOpts, logger)

	// Create the enrichment pipeline with the standard modules
	enrichPipeline := enrichment.NewPipeline(enrichment.Config{
		ParallelProcessing: cfg.Processing.ParallelEnrichment,
		MaxConcurrent:      cfg.Processing.MaxConcurrentEnrichment,
		Timeout:            time.Duration(cfg.Processing.ModuleTimeoutSeconds) * time.Second,
		MeasurePerformance: true,
	}, logger)
	enrichPipeline.Register(enrichment.NewReadabilityModule(enrichment.DefaultReadabilityConfig()))
	enrichPipeline.Register(enrichment.NewContentTypeModule(enrichment.DefaultContentTypeConfig()))
	enrichPipeline.Register(enrichment.NewRelevanceModule(enrichment.DefaultRelevanceConfig()))

	pageMetaConfig := enrichment.DefaultPageMetaConfig()
	pageMetaConfig.Enabled = cfg.Processing.EnablePageMetadata
	enrichPipeline.Register(enrichment.NewPageMetaModule(pageMetaConfig, cache, logger))

	// Create filter service
	filterService := filter.NewService(logger)

	// Create the result pipeline facade
	resultPipeline := pipeline.NewService(filterService, engine, enrichPipeline, logger)

	// Create result store when persistence is enabled
	var store interfaces.ResultStore
	if cfg.Storage.Enabled {
		sqliteStore, err := sqlite.NewStore(cfg.Storage.SQLitePath)
		if err != nil {
			log.Fatalf("Failed to open result store: %v", err)
		}
		defer sqliteStore.Close()
		store = sqliteStore
		logger.Info("Persisting results", map[string]interface{}{
			"path": cfg.Storage.SQLitePath,
		})
	}

	// Create the aggregation service
	aggregateService := aggregate.NewService(providers, resultPipeline, store, deps, cfg.Providers.MaxConcurrent)

	// Create the background worker pool
	worker := workers.NewProcessingWorker(resultPipeline, store, logger, workers.DefaultWorkerConfig())
	if err := worker.Start(); err != nil {
		log.Fatalf("Failed to start worker pool: %v", err)
	}

	// Assemble the API
	routeHandlers := api.Handlers{
		Search:  handlers.NewSearchHandler(aggregateService),
		Process: handlers.NewProcessHandler(resultPipeline, worker),
		Filters: handlers.NewFiltersHandler(filterService),
		Health:  handlers.NewHealthHandler(providerNames(providers)),
	}
	if store != nil {
		routeHandlers.Results = handlers.NewResultsHandler(store)
	}

	router := api.NewRouter(api.Config{
		Logger:             logger,
		RateLimitPerSecond: float64(cfg.Server.RateLimitPerSecond),
		RateBurst:          cfg.Server.RateLimitPerSecond * 2,
	}, routeHandlers)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("HTTP server starting", map[string]interface{}{
			"address": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", map[string]interface{}{
				"error": err.Error(),
			})
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Drain queued background jobs before exiting
	if err := worker.Stop(); err != nil {
		logger.Error("Worker pool shutdown failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	logger.Info("Server stopped", nil)
}

func newMemoryCache(cfg *config.Config) interfaces.Cache {
	expiration := time.Duration(cfg.Cache.Memory.DefaultExpiration) * time.Second
	return memory.NewMemoryCache(expiration, 10*time.Minute)
}

func providerNames(providers []interfaces.SearchProvider) []string {
	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, p.Name())
	}
	return names
}
