// ABOUTME: Shared test doubles for the enrichment package
// ABOUTME: Configurable fake modules, an in-memory cache, and a capturing logger

package enrichment

import (
	"context"
	"errors"
	"sync"
	"time"

	"search-results-api/core/domain"
)

// fakeModule is a configurable per-item module
type fakeModule struct {
	name    string
	enabled bool
	fn      func(domain.SearchResult) (domain.SearchResult, error)
	delay   time.Duration

	mu    sync.Mutex
	calls int
}

func newFakeModule(name string, fn func(domain.SearchResult) (domain.SearchResult, error)) *fakeModule {
	return &fakeModule{name: name, enabled: true, fn: fn}
}

func (m *fakeModule) Name() string  { return m.name }
func (m *fakeModule) Enabled() bool { return m.enabled }

func (m *fakeModule) Process(_ context.Context, record domain.SearchResult) (domain.SearchResult, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if m.fn == nil {
		return record, nil
	}
	return m.fn(record)
}

func (m *fakeModule) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// tagModule appends its name to the record's Extra["trace"] slice so
// tests can observe execution order
func tagModule(name string) *fakeModule {
	return newFakeModule(name, func(r domain.SearchResult) (domain.SearchResult, error) {
		out := r.Clone()
		if out.Metadata.Extra == nil {
			out.Metadata.Extra = map[string]interface{}{}
		}
		trace, _ := out.Metadata.Extra["trace"].([]string)
		out.Metadata.Extra["trace"] = append(append([]string(nil), trace...), name)
		return out, nil
	})
}

var errFakeModule = errors.New("fake module failure")

// failingModule always errors
func failingModule(name string) *fakeModule {
	return newFakeModule(name, func(r domain.SearchResult) (domain.SearchResult, error) {
		return domain.SearchResult{}, errFakeModule
	})
}

// panickingModule always panics
func panickingModule(name string) *fakeModule {
	return newFakeModule(name, func(r domain.SearchResult) (domain.SearchResult, error) {
		panic("boom")
	})
}

// fakeBatchModule implements BatchProcessor
type fakeBatchModule struct {
	fakeModule
	batchFn func([]domain.SearchResult) ([]domain.SearchResult, error)
}

func (m *fakeBatchModule) ProcessBatch(_ context.Context, records []domain.SearchResult) ([]domain.SearchResult, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.batchFn == nil {
		return records, nil
	}
	return m.batchFn(records)
}

// mockCache is a minimal in-memory Cache
type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (c *mockCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return nil, nil
}

func (c *mockCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *mockCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

// mockLogger records warn and error messages
type mockLogger struct {
	mu       sync.Mutex
	warnings []string
	errors   []string
}

func (l *mockLogger) Debug(msg string, fields map[string]interface{}) {}
func (l *mockLogger) Info(msg string, fields map[string]interface{})  {}

func (l *mockLogger) Warn(msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, msg)
}

func (l *mockLogger) Error(msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

func (l *mockLogger) warnCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.warnings)
}

// sampleRecord builds a minimal valid result for tests
func sampleRecord(title, rawURL string) domain.SearchResult {
	return domain.SearchResult{
		Title:    title,
		URL:      rawURL,
		Snippet:  "Example snippet text for " + title,
		Provider: "test",
	}
}
