// Package core contains the business logic for the search results API.
// It is designed to be framework-agnostic and can be used independently
// of any web framework or infrastructure concerns.
//
// The core package is organized into several sub-packages:
//
// - domain: Contains pure domain models (SearchResult, Metadata, DuplicateGroup)
// - dedup: URL normalization, similarity scoring and duplicate detection
// - enrichment: Pluggable enrichment modules and the module pipeline
// - filter: Named filter rule sets applied ahead of deduplication
// - pipeline: The result pipeline facade chaining filter, dedup, enrichment and sort
// - aggregate: Provider fan-out, caching and persistence orchestration
// - workers: Background worker pool for asynchronous batch processing
// - errors: Custom error types for better error handling
// - interfaces: Contracts for external dependencies (cache, HTTP, logger, storage)
//
// # Design Principles
//
// The core package follows clean architecture principles:
// - No external framework dependencies
// - All external dependencies are injected via interfaces
// - Business logic is testable in isolation
// - Domain models are free from persistence concerns
//
// # Usage Example
//
//	import (
//	    "search-results-api/core/dedup"
//	    "search-results-api/core/pipeline"
//	)
//
//	// Create the deduplication engine
//	engine := dedup.NewEngine(dedup.DefaultOptions(), myLogger)
//
//	// Create the pipeline facade
//	service := pipeline.NewService(filterService, engine, enrichPipeline, myLogger)
//
//	// Process a batch
//	outcome, err := service.Process(ctx, records, pipeline.DefaultOptions())
package core
