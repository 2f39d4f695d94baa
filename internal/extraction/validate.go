package extraction

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/dvloznov/finance-analyzer/internal/domain"
	"github.com/dvloznov/finance-analyzer/internal/schema"
)

// Validator parses raw model text and shapes it into the AnalysisResult
// variant for the requested kind.
//
// In strict mode the parsed document must also satisfy the kind's schema:
// every required field present, with the declared primitive type. In lenient
// mode only parseability is checked and missing fields decode to zero values.
// Neither mode changes numeric values or element order.
type Validator struct {
	strict   bool
	compiled map[domain.DocumentKind]*jsonschema.Schema
	log      zerolog.Logger
}

// NewValidator compiles the registered schemas when strict is set.
func NewValidator(strict bool, log zerolog.Logger) (*Validator, error) {
	v := &Validator{
		strict: strict,
		log:    log,
	}
	if !strict {
		return v, nil
	}

	v.compiled = make(map[domain.DocumentKind]*jsonschema.Schema, len(domain.DocumentKinds))
	for _, kind := range domain.DocumentKinds {
		s, err := schema.For(kind)
		if err != nil {
			return nil, fmt.Errorf("NewValidator: %w", err)
		}
		compiled, err := s.Compile()
		if err != nil {
			return nil, fmt.Errorf("NewValidator: %s schema: %w", kind, err)
		}
		v.compiled[kind] = compiled
	}
	return v, nil
}

// Strict reports whether schema validation is enabled.
func (v *Validator) Strict() bool {
	return v.strict
}

// Validate parses rawText and returns the result variant for kind. The
// variant is chosen from kind alone; a "type" key in the model output is
// ignored. Failures are MalformedResponse errors carrying rawText.
func (v *Validator) Validate(rawText string, kind domain.DocumentKind) (domain.AnalysisResult, error) {
	if !kind.Valid() {
		return nil, NewTransportError(kind, fmt.Errorf("unsupported document kind %q", kind))
	}

	clean := cleanModelJSON(rawText)

	doc, err := parseDocument(clean)
	if err != nil {
		return nil, v.malformed(kind, rawText, err)
	}

	if v.strict {
		if err := v.compiled[kind].Validate(doc); err != nil {
			return nil, v.malformed(kind, rawText, fmt.Errorf("schema validation: %w", err))
		}
	}

	switch kind {
	case domain.Payslip:
		res := &domain.PayslipResult{}
		if err := json.Unmarshal([]byte(clean), res); err != nil {
			return nil, v.malformed(kind, rawText, fmt.Errorf("decode payslip: %w", err))
		}
		if res.Deductions == nil {
			res.Deductions = []domain.Deduction{}
		}
		if res.Insights == nil {
			res.Insights = []string{}
		}
		return res, nil
	default:
		res := &domain.StatementResult{}
		if err := json.Unmarshal([]byte(clean), res); err != nil {
			return nil, v.malformed(kind, rawText, fmt.Errorf("decode statement: %w", err))
		}
		if res.Transactions == nil {
			res.Transactions = []domain.Transaction{}
		}
		if res.Insights == nil {
			res.Insights = []string{}
		}
		return res, nil
	}
}

func (v *Validator) malformed(kind domain.DocumentKind, rawText string, cause error) *ExtractionError {
	v.log.Debug().
		Err(cause).
		Str("document_kind", string(kind)).
		Str("raw_text", rawText).
		Msg("Model response rejected")
	return NewMalformedResponseError(kind, rawText, cause)
}

// parseDocument decodes exactly one JSON object. Numbers are kept as
// json.Number so schema validation sees them unchanged.
func parseDocument(s string) (any, error) {
	if strings.TrimSpace(s) == "" {
		return nil, errors.New("empty response from model")
	}

	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after JSON document")
	}
	if _, ok := doc.(map[string]any); !ok {
		return nil, fmt.Errorf("top-level JSON is %T, want object", doc)
	}
	return doc, nil
}

// cleanModelJSON strips Markdown code fences and any text around the outer
// JSON object, in case the model ignored the response mime type.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// Handle ```json ... ``` or ``` ... ``` wrappers.
	if strings.HasPrefix(s, "```") {
		idx := strings.Index(s, "\n")
		if idx == -1 {
			return s
		}
		s = strings.TrimSpace(s[idx+1:])
		if end := strings.LastIndex(s, "```"); end != -1 {
			s = s[:end]
		}
		s = strings.TrimSpace(s)
	}

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
