// ABOUTME: Tests for the aggregation service
// ABOUTME: Covers fan-out merging, provider failure degradation, caching and persistence

package aggregate

import (
	"context"
	"testing"

	"search-results-api/core/dedup"
	"search-results-api/core/domain"
	"search-results-api/core/enrichment"
	"search-results-api/core/interfaces"
	"search-results-api/core/pipeline"
)

func newTestService(providers []interfaces.SearchProvider, store interfaces.ResultStore, cache interfaces.Cache) *Service {
	engine := dedup.NewEngine(dedup.DefaultOptions(), nil)
	pipe := pipeline.NewService(nil, engine, enrichment.NewPipeline(enrichment.DefaultConfig(), nil), nil)
	deps := interfaces.Dependencies{Cache: cache}
	return NewService(providers, pipe, store, deps, 2)
}

func TestSearch_MergesProvidersInOrder(t *testing.T) {
	first := &stubProvider{name: "first", results: []domain.SearchResult{
		result("A", "https://a.com/1", "first"),
		result("B", "https://b.com/2", "first"),
	}}
	second := &stubProvider{name: "second", results: []domain.SearchResult{
		result("C", "https://c.com/3", "second"),
	}}
	s := newTestService([]interfaces.SearchProvider{first, second}, nil, nil)

	out, err := s.Search(context.Background(), Request{Query: "anything", Processing: pipeline.Options{}})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(out.Results) != 3 {
		t.Fatalf("expected 3 merged results, got %d", len(out.Results))
	}
	// Provider registration order, not completion order
	if out.Results[0].Title != "A" || out.Results[2].Title != "C" {
		t.Errorf("merge order wrong: %s ... %s", out.Results[0].Title, out.Results[2].Title)
	}
	if out.ProviderCounts["first"] != 2 || out.ProviderCounts["second"] != 1 {
		t.Errorf("provider counts wrong: %v", out.ProviderCounts)
	}
}

func TestSearch_FailedProviderDegrades(t *testing.T) {
	healthy := &stubProvider{name: "healthy", results: []domain.SearchResult{
		result("A", "https://a.com/1", "healthy"),
	}}
	broken := &stubProvider{name: "broken", err: errProviderDown}
	s := newTestService([]interfaces.SearchProvider{healthy, broken}, nil, nil)

	out, err := s.Search(context.Background(), Request{Query: "anything"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(out.Results) != 1 {
		t.Errorf("expected partial results, got %d", len(out.Results))
	}
	if len(out.FailedProviders) != 1 || out.FailedProviders[0] != "broken" {
		t.Errorf("failed providers wrong: %v", out.FailedProviders)
	}
	if _, ok := out.ProviderCounts["broken"]; ok {
		t.Error("failed provider should not appear in counts")
	}
}

func TestSearch_DeduplicatesAcrossProviders(t *testing.T) {
	first := &stubProvider{name: "first", results: []domain.SearchResult{
		result("Article", "https://site.com/article", "first"),
	}}
	second := &stubProvider{name: "second", results: []domain.SearchResult{
		result("Article", "http://www.site.com/article/", "second"),
	}}
	s := newTestService([]interfaces.SearchProvider{first, second}, nil, nil)

	out, err := s.Search(context.Background(), Request{
		Query:      "anything",
		Processing: pipeline.Options{Deduplicate: true},
	})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(out.Results) != 1 {
		t.Fatalf("expected cross-provider dedup to keep 1, got %d", len(out.Results))
	}
	if out.Results[0].Provider != "first" {
		t.Errorf("earliest provider's record should survive, got %s", out.Results[0].Provider)
	}
	if out.Pipeline.DuplicatesRemoved != 1 {
		t.Errorf("duplicates removed = %d, want 1", out.Pipeline.DuplicatesRemoved)
	}
}

func TestSearch_ValidatesQuery(t *testing.T) {
	s := newTestService([]interfaces.SearchProvider{&stubProvider{name: "p"}}, nil, nil)

	for _, query := range []string{"", "x", string(make([]byte, 101))} {
		if _, err := s.Search(context.Background(), Request{Query: query}); err == nil {
			t.Errorf("expected validation error for query %q", query)
		}
	}
}

func TestSearch_CachesOutcome(t *testing.T) {
	provider := &stubProvider{name: "p", results: []domain.SearchResult{
		result("A", "https://a.com/1", "p"),
	}}
	cache := newMemCache()
	s := newTestService([]interfaces.SearchProvider{provider}, nil, cache)

	req := Request{Query: "cached query"}

	first, err := s.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if first.Cached {
		t.Error("first call should not be cached")
	}

	second, err := s.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if !second.Cached {
		t.Error("second call should be served from cache")
	}
	if provider.calls != 1 {
		t.Errorf("provider called %d times, want 1", provider.calls)
	}
}

func TestSearch_CacheKeyVariesWithProcessing(t *testing.T) {
	provider := &stubProvider{name: "p", results: []domain.SearchResult{
		result("A", "https://a.com/1", "p"),
		result("A", "https://a.com/1", "p"),
	}}
	cache := newMemCache()
	s := newTestService([]interfaces.SearchProvider{provider}, nil, cache)

	raw, err := s.Search(context.Background(), Request{Query: "same query"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	deduped, err := s.Search(context.Background(), Request{
		Query:      "same query",
		Processing: pipeline.Options{Deduplicate: true},
	})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(raw.Results) != 2 || len(deduped.Results) != 1 {
		t.Errorf("processing options collided in cache: raw %d, deduped %d", len(raw.Results), len(deduped.Results))
	}
}

func TestSearch_PersistsResults(t *testing.T) {
	provider := &stubProvider{name: "p", results: []domain.SearchResult{
		result("A", "https://a.com/1", "p"),
	}}
	store := newRecordingStore()
	s := newTestService([]interfaces.SearchProvider{provider}, store, nil)

	if _, err := s.Search(context.Background(), Request{Query: "persist me"}); err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	saved, err := store.GetResults(context.Background(), "persist me")
	if err != nil {
		t.Fatalf("results not persisted: %v", err)
	}
	if len(saved) != 1 || saved[0].Title != "A" {
		t.Errorf("persisted results wrong: %v", saved)
	}
}

func TestSearch_StoreFailureDoesNotFailSearch(t *testing.T) {
	provider := &stubProvider{name: "p", results: []domain.SearchResult{
		result("A", "https://a.com/1", "p"),
	}}
	store := newRecordingStore()
	store.err = errProviderDown
	s := newTestService([]interfaces.SearchProvider{provider}, store, nil)

	out, err := s.Search(context.Background(), Request{Query: "still works"})
	if err != nil {
		t.Fatalf("Search should tolerate store failures: %v", err)
	}
	if len(out.Results) != 1 {
		t.Errorf("expected results despite store failure, got %d", len(out.Results))
	}
}

func TestSearch_NoProviders(t *testing.T) {
	s := newTestService(nil, nil, nil)
	if _, err := s.Search(context.Background(), Request{Query: "anything"}); err == nil {
		t.Error("expected error with no providers")
	}
}
