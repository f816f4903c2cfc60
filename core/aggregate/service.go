// ABOUTME: Aggregation service - fans a query out to search providers and processes the batch
// ABOUTME: Provider failures degrade to partial results; full outcomes are cached and persisted

package aggregate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"search-results-api/core/domain"
	coreerrors "search-results-api/core/errors"
	"search-results-api/core/interfaces"
	"search-results-api/core/pipeline"
)

const (
	defaultMaxConcurrent = 5
	outcomeCacheTTL      = 15 * time.Minute

	minQueryLength = 2
	maxQueryLength = 100
)

// Request is one aggregated search call
type Request struct {
	// Query is the search query sent to every provider
	Query string `json:"query"`

	// Limit caps results per provider (0 means provider default)
	Limit int `json:"limit,omitempty"`

	// Processing selects pipeline stages for the merged batch
	Processing pipeline.Options `json:"processing"`
}

// Outcome is an aggregated search response
type Outcome struct {
	Query string `json:"query"`

	// Results are the processed records across all providers
	Results []domain.SearchResult `json:"results"`

	// ProviderCounts maps provider name to raw results contributed
	ProviderCounts map[string]int `json:"providerCounts"`

	// FailedProviders lists providers whose search errored
	FailedProviders []string `json:"failedProviders,omitempty"`

	// Pipeline carries the processing stage counters
	Pipeline pipeline.Result `json:"pipeline"`

	// Cached is true when the outcome was served from cache
	Cached bool `json:"cached"`
}

// Service aggregates results across providers and runs them through the
// result pipeline
type Service struct {
	providers     []interfaces.SearchProvider
	pipeline      *pipeline.Service
	store         interfaces.ResultStore
	deps          interfaces.Dependencies
	maxConcurrent int
}

// NewService creates the aggregation service. The store may be nil to
// skip persistence; deps.Cache may be nil to skip caching.
func NewService(providers []interfaces.SearchProvider, pipe *pipeline.Service, store interfaces.ResultStore, deps interfaces.Dependencies, maxConcurrent int) *Service {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	return &Service{
		providers:     providers,
		pipeline:      pipe,
		store:         store,
		deps:          deps,
		maxConcurrent: maxConcurrent,
	}
}

// validateQuery validates search query parameters
func validateQuery(query string) error {
	if query == "" {
		return &coreerrors.ValidationError{Field: "query", Message: "cannot be empty"}
	}
	if len(query) < minQueryLength {
		return &coreerrors.ValidationError{Field: "query", Message: fmt.Sprintf("must be at least %d characters", minQueryLength)}
	}
	if len(query) > maxQueryLength {
		return &coreerrors.ValidationError{Field: "query", Message: fmt.Sprintf("cannot exceed %d characters", maxQueryLength)}
	}
	return nil
}

// Search fans the query out, merges provider results in provider
// registration order, and processes the merged batch
func (s *Service) Search(ctx context.Context, req Request) (*Outcome, error) {
	if err := validateQuery(req.Query); err != nil {
		return nil, err
	}
	if len(s.providers) == 0 {
		return nil, fmt.Errorf("no search providers configured")
	}

	// Check cache first
	cacheKey := s.cacheKey(req)
	if s.deps.Cache != nil {
		if data, err := s.deps.Cache.Get(ctx, cacheKey); err == nil && data != nil {
			var cached Outcome
			if err := json.Unmarshal(data, &cached); err == nil {
				cached.Cached = true
				return &cached, nil
			}
		}
	}

	merged, counts, failed := s.fanOut(ctx, req.Query, req.Limit)

	processed, err := s.pipeline.Process(ctx, merged, req.Processing)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{
		Query:           req.Query,
		Results:         processed.Results,
		ProviderCounts:  counts,
		FailedProviders: failed,
		Pipeline:        *processed,
	}
	// The pipeline result embeds the full record list; blank it to avoid
	// serializing every record twice
	outcome.Pipeline.Results = nil

	if s.store != nil {
		if err := s.store.SaveResults(ctx, req.Query, outcome.Results); err != nil {
			s.logWarn("Failed to persist results", req.Query, err)
		} else if err := s.store.SaveDuplicateGroups(ctx, req.Query, processed.DuplicateGroups); err != nil {
			s.logWarn("Failed to persist duplicate groups", req.Query, err)
		}
	}

	if s.deps.Cache != nil && len(outcome.Results) > 0 {
		if data, err := json.Marshal(outcome); err == nil {
			_ = s.deps.Cache.Set(ctx, cacheKey, data, outcomeCacheTTL)
		}
	}

	return outcome, nil
}

// fanOut queries every provider with bounded concurrency and merges the
// results in provider registration order
func (s *Service) fanOut(ctx context.Context, query string, limit int) ([]domain.SearchResult, map[string]int, []string) {
	perProvider := make([][]domain.SearchResult, len(s.providers))
	errs := make([]error, len(s.providers))

	semaphore := make(chan struct{}, s.maxConcurrent)
	var wg sync.WaitGroup

	for i, provider := range s.providers {
		wg.Add(1)
		go func(idx int, p interfaces.SearchProvider) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			results, err := p.Search(ctx, query, limit)
			if err != nil {
				errs[idx] = &coreerrors.ProviderError{Provider: p.Name(), Err: err}
				return
			}
			perProvider[idx] = results
		}(i, provider)
	}
	wg.Wait()

	counts := make(map[string]int, len(s.providers))
	var failed []string
	var merged []domain.SearchResult

	for i, provider := range s.providers {
		if errs[i] != nil {
			failed = append(failed, provider.Name())
			s.logWarn("Provider search failed", query, errs[i])
			continue
		}
		counts[provider.Name()] = len(perProvider[i])
		for _, record := range perProvider[i] {
			if record.Provider == "" {
				record.Provider = provider.Name()
			}
			merged = append(merged, record)
		}
	}

	return merged, counts, failed
}

// cacheKey fingerprints the query together with the processing options,
// so differently-processed batches never collide
func (s *Service) cacheKey(req Request) string {
	opts, _ := json.Marshal(req.Processing)
	sum := sha256.Sum256(append([]byte(fmt.Sprintf("%s|%d|", req.Query, req.Limit)), opts...))
	return "aggregate:" + hex.EncodeToString(sum[:16])
}

func (s *Service) logWarn(msg, query string, err error) {
	if s.deps.Logger == nil {
		return
	}
	s.deps.Logger.Warn(msg, map[string]interface{}{
		"query": query,
		"error": err.Error(),
	})
}
