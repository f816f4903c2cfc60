// ABOUTME: Shared test doubles for the aggregation service
// ABOUTME: Stub providers, an in-memory cache and a recording result store

package aggregate

import (
	"context"
	"errors"
	"sync"
	"time"

	"search-results-api/core/domain"
)

type stubProvider struct {
	name    string
	results []domain.SearchResult
	err     error
	calls   int
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Search(_ context.Context, query string, limit int) ([]domain.SearchResult, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	if limit > 0 && len(p.results) > limit {
		return p.results[:limit], nil
	}
	return p.results, nil
}

var errProviderDown = errors.New("provider unavailable")

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return nil, errors.New("key not found")
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

type recordingStore struct {
	mu     sync.Mutex
	saved  map[string][]domain.SearchResult
	groups map[string][]domain.DuplicateGroup
	err    error
}

func newRecordingStore() *recordingStore {
	return &recordingStore{
		saved:  make(map[string][]domain.SearchResult),
		groups: make(map[string][]domain.DuplicateGroup),
	}
}

func (s *recordingStore) SaveResults(_ context.Context, query string, results []domain.SearchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.saved[query] = results
	return nil
}

func (s *recordingStore) SaveDuplicateGroups(_ context.Context, query string, groups []domain.DuplicateGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.groups[query] = groups
	return nil
}

func (s *recordingStore) GetResults(_ context.Context, query string) ([]domain.SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.saved[query]; ok {
		return r, nil
	}
	return nil, errors.New("not found")
}

func result(title, url, provider string) domain.SearchResult {
	return domain.SearchResult{Title: title, URL: url, Snippet: "about " + title, Provider: provider}
}
