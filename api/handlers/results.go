// ABOUTME: Results handler - retrieves the most recently persisted batch for a query
// ABOUTME: Exposes GET /api/results over the result store

package handlers

import (
	"net/http"

	"search-results-api/core/domain"
	"search-results-api/core/interfaces"
)

// ResultsHandler serves previously stored result batches
type ResultsHandler struct {
	store interfaces.ResultStore
}

// NewResultsHandler creates a new results handler
func NewResultsHandler(store interfaces.ResultStore) *ResultsHandler {
	return &ResultsHandler{store: store}
}

// resultsResponse is the GET /api/results body
type resultsResponse struct {
	Query   string                `json:"query"`
	Results []domain.SearchResult `json:"results"`
	Count   int                   `json:"count"`
}

// GetResults handles the GET /api/results endpoint
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Missing query parameter"})
		return
	}

	results, err := h.store.GetResults(r.Context(), query)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resultsResponse{
		Query:   query,
		Results: results,
		Count:   len(results),
	})
}
