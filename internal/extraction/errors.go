package extraction

import (
	"errors"
	"fmt"

	"github.com/dvloznov/finance-analyzer/internal/domain"
)

// ErrorKind classifies every failure that can leave the extraction client.
type ErrorKind string

const (
	// ErrorKindMissingCredential: no API key configured; nothing was sent.
	ErrorKindMissingCredential ErrorKind = "missing_credential"
	// ErrorKindSafetyRejected: the provider refused the document on content-safety grounds.
	ErrorKindSafetyRejected ErrorKind = "safety_rejected"
	// ErrorKindMalformedResponse: the model answered, but not with usable structured data.
	ErrorKindMalformedResponse ErrorKind = "malformed_response"
	// ErrorKindTransportOrService: network, auth, quota, timeout and anything else.
	ErrorKindTransportOrService ErrorKind = "transport_or_service"
)

const (
	msgMissingCredential = "GEMINI_API_KEY is not set. Add it to the environment or a .env file."
	msgSafetyRejected    = "Analysis blocked by safety filters. Payslips contain sensitive data that some AI settings may restrict."
	msgDefaultTransport  = "Please check your API key and file format."
)

// ExtractionError is the only error type returned by Client.Extract.
type ExtractionError struct {
	Kind         ErrorKind
	DocumentKind domain.DocumentKind
	// Message is safe to show to the end user.
	Message string
	// RawText holds the model output for MalformedResponse, for debugging only.
	RawText string
	Cause   error
}

func (e *ExtractionError) Error() string {
	return e.Message
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// Retryable reports whether simply trying again may succeed. Only a malformed
// response qualifies: the model is not deterministic.
func (e *ExtractionError) Retryable() bool {
	return e.Kind == ErrorKindMalformedResponse
}

// AsExtractionError unwraps err to an *ExtractionError.
func AsExtractionError(err error) (*ExtractionError, bool) {
	var ee *ExtractionError
	if errors.As(err, &ee) {
		return ee, true
	}
	return nil, false
}

// IsKind reports whether err is an ExtractionError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	ee, ok := AsExtractionError(err)
	return ok && ee.Kind == kind
}

func NewMissingCredentialError(kind domain.DocumentKind) *ExtractionError {
	return &ExtractionError{
		Kind:         ErrorKindMissingCredential,
		DocumentKind: kind,
		Message:      msgMissingCredential,
	}
}

func NewSafetyRejectedError(kind domain.DocumentKind, cause error) *ExtractionError {
	return &ExtractionError{
		Kind:         ErrorKindSafetyRejected,
		DocumentKind: kind,
		Message:      msgSafetyRejected,
		Cause:        cause,
	}
}

func NewMalformedResponseError(kind domain.DocumentKind, rawText string, cause error) *ExtractionError {
	return &ExtractionError{
		Kind:         ErrorKindMalformedResponse,
		DocumentKind: kind,
		Message: fmt.Sprintf("Failed to analyze %s. The model returned an invalid response format; please try again.",
			kindLabel(kind)),
		RawText: rawText,
		Cause:   cause,
	}
}

func NewTransportError(kind domain.DocumentKind, cause error) *ExtractionError {
	detail := msgDefaultTransport
	if cause != nil && cause.Error() != "" {
		detail = cause.Error()
	}
	return &ExtractionError{
		Kind:         ErrorKindTransportOrService,
		DocumentKind: kind,
		Message:      fmt.Sprintf("Failed to analyze %s. %s", kindLabel(kind), detail),
		Cause:        cause,
	}
}

func kindLabel(kind domain.DocumentKind) string {
	if kind == "" {
		return "document"
	}
	return string(kind)
}
