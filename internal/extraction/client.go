// Package extraction turns an uploaded financial document into a typed
// AnalysisResult with a single schema-constrained call to Gemini.
package extraction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/dvloznov/finance-analyzer/internal/domain"
	"github.com/dvloznov/finance-analyzer/internal/metrics"
	"github.com/dvloznov/finance-analyzer/internal/schema"
)

// ContentGenerator is the subset of the genai Models service used by the
// client. *genai.Models implements it; tests substitute a fake.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Extractor is implemented by *Client.
type Extractor interface {
	Extract(ctx context.Context, req Request) (domain.AnalysisResult, error)
}

// Request is one document to analyze. It is consumed by a single Extract call
// and not retained.
type Request struct {
	Kind     domain.DocumentKind
	Data     []byte
	MIMEType string // passed to the model unchanged
}

// Options configures a Client.
type Options struct {
	APIKey       string
	Model        string
	StrictSchema bool
	// Timeout bounds the model call. Zero means only the caller's context applies.
	Timeout time.Duration
}

// Client performs extractions. It holds only immutable configuration and is
// safe for concurrent use; see Gate for per-session serialization.
type Client struct {
	apiKey    string
	model     string
	timeout   time.Duration
	gen       ContentGenerator
	validator *Validator
	log       zerolog.Logger
}

// NewGeminiClient creates a Client backed by the Gemini API. Without an API
// key the client is still created, and every Extract call fails with
// MissingCredential before anything is sent.
func NewGeminiClient(ctx context.Context, opts Options, log zerolog.Logger) (*Client, error) {
	var gen ContentGenerator
	if opts.APIKey != "" {
		gc, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  opts.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("NewGeminiClient: create genai client: %w", err)
		}
		gen = gc.Models
	}
	return NewClient(opts, gen, log)
}

// NewClient creates a Client around an arbitrary ContentGenerator.
func NewClient(opts Options, gen ContentGenerator, log zerolog.Logger) (*Client, error) {
	validator, err := NewValidator(opts.StrictSchema, log)
	if err != nil {
		return nil, fmt.Errorf("NewClient: %w", err)
	}
	model := opts.Model
	if model == "" {
		model = DefaultModelName
	}
	return &Client{
		apiKey:    opts.APIKey,
		model:     model,
		timeout:   opts.Timeout,
		gen:       gen,
		validator: validator,
		log:       log,
	}, nil
}

// DefaultModelName is used when Options.Model is empty.
const DefaultModelName = "gemini-3-flash-preview"

// Model returns the model name requests are sent to.
func (c *Client) Model() string {
	return c.model
}

// Extract sends the document to the model and returns the typed result.
// Every error is an *ExtractionError; nothing is retried.
func (c *Client) Extract(ctx context.Context, req Request) (domain.AnalysisResult, error) {
	start := time.Now()
	log := c.log.With().
		Str("request_id", uuid.NewString()).
		Str("document_kind", string(req.Kind)).
		Str("mime_type", req.MIMEType).
		Int("bytes", len(req.Data)).
		Logger()

	result, err := c.extract(ctx, req, log)

	elapsed := time.Since(start)
	metrics.ExtractionDuration.WithLabelValues(string(req.Kind)).Observe(elapsed.Seconds())

	if err != nil {
		ee := Classify(err, req.Kind)
		metrics.ExtractionsTotal.WithLabelValues(string(req.Kind), string(ee.Kind)).Inc()
		log.Error().
			Err(ee.Cause).
			Str("error_kind", string(ee.Kind)).
			Dur("elapsed", elapsed).
			Msg("Extraction failed")
		return nil, ee
	}

	metrics.ExtractionsTotal.WithLabelValues(string(req.Kind), metrics.OutcomeSuccess).Inc()
	log.Info().Dur("elapsed", elapsed).Msg("Extraction completed")
	return result, nil
}

func (c *Client) extract(ctx context.Context, req Request, log zerolog.Logger) (domain.AnalysisResult, error) {
	if c.apiKey == "" || c.gen == nil {
		return nil, NewMissingCredentialError(req.Kind)
	}
	if !req.Kind.Valid() {
		return nil, fmt.Errorf("unsupported document kind %q", req.Kind)
	}
	if len(req.Data) == 0 {
		return nil, errors.New("the uploaded document is empty")
	}

	s, err := schema.For(req.Kind)
	if err != nil {
		return nil, err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	log.Info().Str("model", c.model).Msg("Sending document to model")

	resp, err := c.generate(ctx, req, s)
	if err != nil {
		return nil, err
	}
	if err := responseError(resp); err != nil {
		return nil, err
	}

	if u := resp.UsageMetadata; u != nil {
		log.Debug().
			Int32("tokens_input", u.PromptTokenCount).
			Int32("tokens_output", u.CandidatesTokenCount).
			Msg("Model usage")
	}

	return c.validator.Validate(resp.Text(), req.Kind)
}

// generate makes the single model call, tracked by the in-flight gauge.
func (c *Client) generate(ctx context.Context, req Request, s *schema.Schema) (*genai.GenerateContentResponse, error) {
	metrics.ExtractionsInFlight.Inc()
	defer metrics.ExtractionsInFlight.Dec()
	return c.gen.GenerateContent(ctx, c.model, buildContents(req), generateConfig(s))
}

// StrictSchema reports whether responses are validated against the schema.
func (c *Client) StrictSchema() bool {
	return c.validator.Strict()
}

// buildContents puts the document first and the task prompt second.
func buildContents(req Request) []*genai.Content {
	return []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{
					InlineData: &genai.Blob{
						MIMEType: req.MIMEType,
						Data:     req.Data,
					},
				},
				{Text: taskPrompt(req.Kind)},
			},
		},
	}
}

// generateConfig constrains the response to s. Safety filtering is turned off
// for all four adjustable categories: statements and payslips are full of
// names, account numbers and salaries, which trip the filters.
func generateConfig(s *schema.Schema) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
		SafetySettings: []*genai.SafetySetting{
			{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockNone},
		},
		ResponseMIMEType: "application/json",
		ResponseSchema:   s.GenAI(),
	}
}
