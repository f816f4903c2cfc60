// ABOUTME: Search handler - fans a query out to providers and returns the processed batch
// ABOUTME: Exposes POST /api/search over the aggregation service

package handlers

import (
	"encoding/json"
	"net/http"

	"search-results-api/core/aggregate"
	"search-results-api/core/pipeline"
)

// SearchHandler handles aggregated search requests
type SearchHandler struct {
	service *aggregate.Service
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(service *aggregate.Service) *SearchHandler {
	return &SearchHandler{service: service}
}

// searchRequest is the POST /api/search body. Processing is optional;
// omitting it enables deduplication and enrichment with no filtering.
type searchRequest struct {
	Query      string            `json:"query"`
	Limit      int               `json:"limit,omitempty"`
	Processing *pipeline.Options `json:"processing,omitempty"`
}

// Search handles the POST /api/search endpoint
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	processing := pipeline.DefaultOptions()
	if req.Processing != nil {
		processing = *req.Processing
	}

	outcome, err := h.service.Search(r.Context(), aggregate.Request{
		Query:      req.Query,
		Limit:      req.Limit,
		Processing: processing,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}
