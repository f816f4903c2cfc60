// ABOUTME: Health handler for service liveness checks
// ABOUTME: Reports configured providers and service status

package handlers

import (
	"net/http"
	"time"
)

// HealthHandler reports service health
type HealthHandler struct {
	providers []string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(providers []string) *HealthHandler {
	return &HealthHandler{providers: providers}
}

// healthResponse is the GET /api/health body
type healthResponse struct {
	Status    string   `json:"status"`
	Providers []string `json:"providers"`
	Time      string   `json:"time"`
}

// Health handles the GET /api/health endpoint
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Providers: h.providers,
		Time:      time.Now().UTC().Format(time.RFC3339),
	})
}
