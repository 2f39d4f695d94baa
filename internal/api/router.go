// Package api wires the HTTP surface of the analyzer.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-analyzer/internal/api/handlers"
	"github.com/dvloznov/finance-analyzer/internal/api/middleware"
	"github.com/dvloznov/finance-analyzer/internal/extraction"
)

// RouterConfig holds the router's dependencies.
type RouterConfig struct {
	Extractor      extraction.Extractor
	Gate           *extraction.Gate
	MaxUploadBytes int64
	Log            zerolog.Logger
}

// NewRouter creates the chi router with all API routes mounted.
func NewRouter(cfg RouterConfig) http.Handler {
	gate := cfg.Gate
	if gate == nil {
		gate = extraction.NewGate()
	}
	analyze := handlers.NewAnalyzeHandler(cfg.Extractor, gate, cfg.MaxUploadBytes)

	r := chi.NewRouter()

	// Middleware.
	r.Use(middleware.Recovery(cfg.Log))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Log))
	r.Use(middleware.CORS)

	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", analyze.Analyze)
		r.Get("/schemas", handlers.ListSchemas)
		r.Get("/schemas/{kind}", handlers.GetSchema)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}
