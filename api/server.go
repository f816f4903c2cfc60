// ABOUTME: HTTP server configuration and route registration
// ABOUTME: Assembles handlers, middleware and CORS into one http.Handler

package api

import (
	"net/http"

	"github.com/rs/cors"
	"search-results-api/api/handlers"
	"search-results-api/api/middleware"
	"search-results-api/core/interfaces"
)

// Config holds configuration for the API
type Config struct {
	Logger interfaces.Logger

	// RateLimitPerSecond caps requests per client IP; 0 disables limiting
	RateLimitPerSecond float64

	// RateBurst is the per-IP burst allowance
	RateBurst int
}

// Handlers collects the route handlers. Nil handlers are skipped, so
// optional surfaces (persistence, async processing) only register when
// their collaborators are configured.
type Handlers struct {
	Search  *handlers.SearchHandler
	Process *handlers.ProcessHandler
	Results *handlers.ResultsHandler
	Filters *handlers.FiltersHandler
	Health  *handlers.HealthHandler
}

// NewRouter builds the HTTP handler with routes, middleware and CORS
func NewRouter(cfg Config, h Handlers) http.Handler {
	mux := http.NewServeMux()

	if h.Search != nil {
		mux.HandleFunc("POST /api/search", h.Search.Search)
	}
	if h.Process != nil {
		mux.HandleFunc("POST /api/process", h.Process.Process)
	}
	if h.Results != nil {
		mux.HandleFunc("GET /api/results", h.Results.GetResults)
	}
	if h.Filters != nil {
		mux.HandleFunc("PUT /api/filters/{id}", h.Filters.PutFilterSet)
	}
	if h.Health != nil {
		mux.HandleFunc("GET /api/health", h.Health.Health)
	}

	var handler http.Handler = mux

	// Innermost first: rate limiting, then request logging, CORS outermost
	if cfg.RateLimitPerSecond > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = int(cfg.RateLimitPerSecond)
		}
		limiter := middleware.NewRateLimiter(cfg.RateLimitPerSecond, burst)
		handler = middleware.RateLimitMiddleware(limiter)(handler)
	}

	if cfg.Logger != nil {
		handler = middleware.RequestLoggingMiddleware(cfg.Logger)(handler)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	return c.Handler(handler)
}
