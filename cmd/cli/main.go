package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-analyzer/internal/config"
	"github.com/dvloznov/finance-analyzer/internal/domain"
	"github.com/dvloznov/finance-analyzer/internal/extraction"
	"github.com/dvloznov/finance-analyzer/internal/gcs"
	"github.com/dvloznov/finance-analyzer/internal/logger"
	"github.com/dvloznov/finance-analyzer/internal/report"
	"github.com/dvloznov/finance-analyzer/internal/schema"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.New().Fatal().Err(err).Msg("Failed to load configuration")
	}
	log := logger.NewWithLevel(cfg.Log.Level)

	switch os.Args[1] {
	case "analyze":
		runAnalyze(cfg, log)
	case "schema":
		runSchema(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Finance Analyzer CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  analyze   Extract a bank statement or payslip from a local file or GCS")
	fmt.Println("  schema    Print the JSON Schema for a document kind")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func runAnalyze(cfg *config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	kindFlag := fs.String("kind", "", "Document kind: statement or payslip")
	filePath := fs.String("file", "", "Path to a local image or PDF")
	gcsURI := fs.String("gcs-uri", "", "GCS URI of the document (gs://bucket/path)")
	asJSON := fs.Bool("json", false, "Print the result as JSON instead of a text report")
	model := fs.String("model", cfg.Gemini.Model, "Gemini model name")
	fs.Parse(os.Args[2:])

	kind, err := domain.ParseDocumentKind(*kindFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("Usage: cli analyze -kind statement|payslip (-file PATH | -gcs-uri URI) [-json]")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Gemini.Timeout)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	var source gcs.DocumentSource
	if *gcsURI != "" {
		fetcher, err := gcs.NewFetcher(ctx, cfg.Storage.CredentialsFile, cfg.Server.MaxUploadBytes)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create storage client")
		}
		defer fetcher.Close()
		source = fetcher
	}

	req, err := loadDocument(ctx, source, kind, *filePath, *gcsURI)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load document")
	}

	client, err := extraction.NewGeminiClient(ctx, extraction.Options{
		APIKey:       cfg.Gemini.APIKey,
		Model:        *model,
		StrictSchema: cfg.Gemini.StrictSchema,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create extraction client")
	}

	log.Info().
		Str("document_kind", string(kind)).
		Str("mime_type", req.MIMEType).
		Int("bytes", len(req.Data)).
		Msg("Starting analysis")

	result, err := client.Extract(ctx, req)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(exitCode(err))
	}

	if err := writeResult(os.Stdout, result, *asJSON); err != nil {
		log.Fatal().Err(err).Msg("Failed to write result")
	}
}

func runSchema(log zerolog.Logger) {
	fs := flag.NewFlagSet("schema", flag.ExitOnError)
	kindFlag := fs.String("kind", "", "Document kind: statement or payslip")
	fs.Parse(os.Args[2:])

	kind, err := domain.ParseDocumentKind(*kindFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("Usage: cli schema -kind statement|payslip")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(schema.MustFor(kind)); err != nil {
		log.Fatal().Err(err).Msg("Failed to write schema")
	}
}

// loadDocument reads the document from exactly one of filePath or gcsURI.
func loadDocument(ctx context.Context, source gcs.DocumentSource, kind domain.DocumentKind, filePath, gcsURI string) (extraction.Request, error) {
	req := extraction.Request{Kind: kind}

	var (
		data     []byte
		mimeType string
		name     string
		err      error
	)
	switch {
	case filePath != "" && gcsURI != "":
		return req, errors.New("use either -file or -gcs-uri, not both")
	case filePath != "":
		data, err = os.ReadFile(filePath)
		if err != nil {
			return req, fmt.Errorf("read %q: %w", filePath, err)
		}
		name = filepath.Base(filePath)
	case gcsURI != "":
		if source == nil {
			return req, errors.New("no storage client configured")
		}
		obj, err := gcs.ParseURI(gcsURI)
		if err != nil {
			return req, err
		}
		data, mimeType, err = source.Fetch(ctx, gcsURI)
		if err != nil {
			return req, err
		}
		name = obj.Filename()
	default:
		return req, errors.New("one of -file or -gcs-uri is required")
	}

	if len(data) == 0 {
		return req, errors.New("document is empty")
	}
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = extraction.DetectMIMEType(name, data)
	}
	if !extraction.IsSupportedMIMEType(mimeType) {
		return req, fmt.Errorf("unsupported file type %q: use an image or a PDF", mimeType)
	}

	req.Data = data
	req.MIMEType = mimeType
	return req, nil
}

func writeResult(w io.Writer, result domain.AnalysisResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return report.Render(w, result)
}

// exitCode distinguishes configuration problems (2) and retryable failures
// (3) from other extraction errors (1).
func exitCode(err error) int {
	ee, ok := extraction.AsExtractionError(err)
	switch {
	case !ok:
		return 1
	case ee.Kind == extraction.ErrorKindMissingCredential:
		return 2
	case ee.Retryable():
		return 3
	default:
		return 1
	}
}
