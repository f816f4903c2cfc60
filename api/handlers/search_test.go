// ABOUTME: Tests for the search handler
// ABOUTME: Covers request decoding, validation mapping and default processing

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"search-results-api/core/aggregate"
	"search-results-api/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchHandler_ReturnsResults(t *testing.T) {
	provider := &stubProvider{name: "stub", results: []domain.SearchResult{
		{Title: "Go Tutorial", URL: "https://example.com/go", Snippet: "learn go"},
	}}
	handler := NewSearchHandler(newTestAggregate(provider))

	req := httptest.NewRequest("POST", "/api/search", strings.NewReader(`{"query":"go tutorial"}`))
	rec := httptest.NewRecorder()
	handler.Search(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var out aggregate.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "go tutorial", out.Query)
	assert.Len(t, out.Results, 1)
	assert.Equal(t, "Go Tutorial", out.Results[0].Title)
	assert.Equal(t, 1, out.ProviderCounts["stub"])
}

func TestSearchHandler_DefaultProcessingDeduplicates(t *testing.T) {
	provider := &stubProvider{name: "stub", results: []domain.SearchResult{
		{Title: "Same", URL: "https://example.com/a"},
		{Title: "Same", URL: "http://www.example.com/a/"},
	}}
	handler := NewSearchHandler(newTestAggregate(provider))

	req := httptest.NewRequest("POST", "/api/search", strings.NewReader(`{"query":"anything"}`))
	rec := httptest.NewRecorder()
	handler.Search(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var out aggregate.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Len(t, out.Results, 1)
	assert.Equal(t, 1, out.Pipeline.DuplicatesRemoved)
}

func TestSearchHandler_ExplicitProcessingDisablesDedup(t *testing.T) {
	provider := &stubProvider{name: "stub", results: []domain.SearchResult{
		{Title: "Same", URL: "https://example.com/a"},
		{Title: "Same", URL: "https://example.com/a"},
	}}
	handler := NewSearchHandler(newTestAggregate(provider))

	body := `{"query":"anything","processing":{"deduplicate":false,"enrich":false}}`
	req := httptest.NewRequest("POST", "/api/search", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Search(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var out aggregate.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Len(t, out.Results, 2)
}

func TestSearchHandler_InvalidBody(t *testing.T) {
	handler := NewSearchHandler(newTestAggregate(&stubProvider{name: "stub"}))

	req := httptest.NewRequest("POST", "/api/search", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	handler.Search(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchHandler_ValidationErrorMapsTo400(t *testing.T) {
	handler := NewSearchHandler(newTestAggregate(&stubProvider{name: "stub"}))

	// Single-character queries fail validation in the aggregation service
	req := httptest.NewRequest("POST", "/api/search", strings.NewReader(`{"query":"x"}`))
	rec := httptest.NewRecorder()
	handler.Search(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "query")
}
