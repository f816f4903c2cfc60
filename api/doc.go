// Package api provides the HTTP API layer for the search results service.
// It wires plain net/http handlers, per-IP rate limiting, request logging
// and CORS into a single handler.
//
// # Architecture
//
// The API package is structured as follows:
//
// - server.go: route registration and middleware assembly
// - handlers/: HTTP request handlers
// - middleware/: HTTP middleware for cross-cutting concerns
//
// # Endpoints
//
// - POST /api/search: fan a query out to providers and process the batch
// - POST /api/process: run a caller-supplied batch through the pipeline
// - GET /api/results: retrieve the last persisted batch for a query
// - PUT /api/filters/{id}: register a named filter rule set
// - GET /api/health: liveness check
//
// Optional endpoints register only when their collaborators are
// configured: /api/results requires a result store and async
// /api/process requires the worker pool.
package api
