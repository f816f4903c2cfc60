// ABOUTME: Shared test doubles for API handler tests
// ABOUTME: Stub search providers and an in-memory result store

package handlers

import (
	"context"

	"search-results-api/core/aggregate"
	"search-results-api/core/dedup"
	"search-results-api/core/domain"
	"search-results-api/core/enrichment"
	coreerrors "search-results-api/core/errors"
	"search-results-api/core/interfaces"
	"search-results-api/core/pipeline"
)

type stubProvider struct {
	name    string
	results []domain.SearchResult
	err     error
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Search(_ context.Context, query string, limit int) ([]domain.SearchResult, error) {
	if p.err != nil {
		return nil, p.err
	}
	if limit > 0 && len(p.results) > limit {
		return p.results[:limit], nil
	}
	return p.results, nil
}

type memStore struct {
	saved map[string][]domain.SearchResult
}

func newMemStore() *memStore {
	return &memStore{saved: make(map[string][]domain.SearchResult)}
}

func (s *memStore) SaveResults(_ context.Context, query string, results []domain.SearchResult) error {
	s.saved[query] = results
	return nil
}

func (s *memStore) SaveDuplicateGroups(_ context.Context, _ string, _ []domain.DuplicateGroup) error {
	return nil
}

func (s *memStore) GetResults(_ context.Context, query string) ([]domain.SearchResult, error) {
	if r, ok := s.saved[query]; ok {
		return r, nil
	}
	return nil, &coreerrors.NotFoundError{Resource: "stored results"}
}

func newTestPipeline() *pipeline.Service {
	engine := dedup.NewEngine(dedup.DefaultOptions(), nil)
	return pipeline.NewService(nil, engine, enrichment.NewPipeline(enrichment.DefaultConfig(), nil), nil)
}

func newTestAggregate(providers ...interfaces.SearchProvider) *aggregate.Service {
	return aggregate.NewService(providers, newTestPipeline(), nil, interfaces.Dependencies{}, 2)
}
