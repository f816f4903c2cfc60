// ABOUTME: Error handling utilities for API handlers
// ABOUTME: Converts domain errors to appropriate HTTP responses

package handlers

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"search-results-api/core/errors"
)

// errorResponse is the JSON body for failed requests
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError converts domain errors to appropriate HTTP responses
func writeError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	if errors.IsNotFound(err) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}

	if errors.IsValidation(err) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if errors.IsExternalAPI(err) {
		// Map external API status codes to our API status codes
		var apiErr *errors.ExternalAPIError
		if stderrors.As(err, &apiErr) {
			switch {
			case apiErr.StatusCode >= 500:
				writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "External service error"})
			case apiErr.StatusCode == 429:
				writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "Rate limited by external service"})
			case apiErr.StatusCode >= 400:
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "External service request error"})
			default:
				writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Unexpected external service response"})
			}
			return
		}
	}

	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
}
