package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dvloznov/finance-analyzer/internal/api"
	"github.com/dvloznov/finance-analyzer/internal/config"
	"github.com/dvloznov/finance-analyzer/internal/extraction"
	"github.com/dvloznov/finance-analyzer/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New().Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Parse command-line flags
	var (
		port   = flag.String("port", cfg.Server.Port, "HTTP server port (or set PORT env)")
		model  = flag.String("model", cfg.Gemini.Model, "Gemini model name (or set GEMINI_MODEL env)")
		strict = flag.Bool("strict", cfg.Gemini.StrictSchema, "Validate model output against the result schema (or set STRICT_SCHEMA env)")
	)
	flag.Parse()

	// Initialize logger
	log := logger.NewWithLevel(cfg.Log.Level)

	if cfg.Gemini.APIKey == "" {
		log.Warn().Msg("No Gemini API key configured - analysis requests will fail until GEMINI_API_KEY is set")
	}

	ctx := context.Background()

	client, err := extraction.NewGeminiClient(ctx, extraction.Options{
		APIKey:       cfg.Gemini.APIKey,
		Model:        *model,
		StrictSchema: *strict,
		Timeout:      cfg.Gemini.Timeout,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create extraction client")
	}

	handler := api.NewRouter(api.RouterConfig{
		Extractor:      client,
		Gate:           extraction.NewGate(),
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		Log:            log,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().
			Str("port", *port).
			Str("model", client.Model()).
			Bool("strict_schema", client.StrictSchema()).
			Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown; in-flight extractions get the full model timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Gemini.Timeout+5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
