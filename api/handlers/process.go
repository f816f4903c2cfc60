// ABOUTME: Process handler - runs a caller-supplied batch through the result pipeline
// ABOUTME: Supports synchronous processing and async hand-off to the worker pool

package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"search-results-api/core/domain"
	"search-results-api/core/pipeline"
	"search-results-api/core/workers"
)

// maxBatchSize bounds caller-supplied batches
const maxBatchSize = 1000

// ProcessHandler handles direct batch processing requests
type ProcessHandler struct {
	pipeline *pipeline.Service
	worker   *workers.ProcessingWorker
}

// NewProcessHandler creates a new process handler. The worker may be nil
// to disable async processing.
func NewProcessHandler(pipe *pipeline.Service, worker *workers.ProcessingWorker) *ProcessHandler {
	return &ProcessHandler{pipeline: pipe, worker: worker}
}

// processRequest is the POST /api/process body
type processRequest struct {
	// Query labels the batch for persistence; optional
	Query string `json:"query,omitempty"`

	// Results is the batch to process
	Results []domain.SearchResult `json:"results"`

	// Options selects pipeline stages; omitting it enables dedup and enrichment
	Options *pipeline.Options `json:"options,omitempty"`

	// Async hands the batch to the background worker pool
	Async bool `json:"async,omitempty"`
}

// acceptedResponse acknowledges an async submission
type acceptedResponse struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// Process handles the POST /api/process endpoint
func (h *ProcessHandler) Process(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	if len(req.Results) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No results provided"})
		return
	}
	if len(req.Results) > maxBatchSize {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "Batch exceeds maximum size"})
		return
	}

	opts := pipeline.DefaultOptions()
	if req.Options != nil {
		opts = *req.Options
	}

	if req.Async {
		if h.worker == nil {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "Async processing is not enabled"})
			return
		}
		// The request context dies with this response; background jobs
		// get their own
		h.worker.ProcessAsync(context.Background(), req.Query, req.Results, opts)
		writeJSON(w, http.StatusAccepted, acceptedResponse{Status: "accepted", Count: len(req.Results)})
		return
	}

	outcome, err := h.pipeline.Process(r.Context(), req.Results, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}
