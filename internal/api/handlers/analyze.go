package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/dvloznov/finance-analyzer/internal/api/middleware"
	"github.com/dvloznov/finance-analyzer/internal/domain"
	"github.com/dvloznov/finance-analyzer/internal/extraction"
	"github.com/dvloznov/finance-analyzer/internal/logger"
)

// envelopeBytes is allowed on top of the document size for multipart
// boundaries, form fields and base64 expansion slack.
const envelopeBytes = 1 << 20

// SessionHeader identifies the caller's session for in-flight tracking.
const SessionHeader = "X-Session-ID"

// ErrorResponse is the body of every failed analysis.
type ErrorResponse struct {
	Error        string `json:"error"`
	ErrorKind    string `json:"error_kind,omitempty"`
	DocumentKind string `json:"document_kind,omitempty"`
	Retryable    bool   `json:"retryable"`
}

// AnalyzeHandler handles POST /api/analyze.
type AnalyzeHandler struct {
	extractor extraction.Extractor
	gate      *extraction.Gate
	maxBytes  int64
}

// NewAnalyzeHandler creates a new analyze handler. Documents larger than
// maxBytes are rejected with 413.
func NewAnalyzeHandler(extractor extraction.Extractor, gate *extraction.Gate, maxBytes int64) *AnalyzeHandler {
	return &AnalyzeHandler{
		extractor: extractor,
		gate:      gate,
		maxBytes:  maxBytes,
	}
}

// inputError is a request problem detected before extraction.
type inputError struct {
	status  int
	message string
}

func (e *inputError) Error() string { return e.message }

func badRequest(format string, args ...any) *inputError {
	return &inputError{status: http.StatusBadRequest, message: fmt.Sprintf(format, args...)}
}

// Analyze accepts either a multipart form with "file" and "kind" fields or a
// JSON body {"kind", "data", "mime_type"} where data is base64 or a data URI.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	// base64 inflates by 4/3
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes/3*4+envelopeBytes)

	var (
		req extraction.Request
		err error
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		req, err = h.readMultipart(r)
	} else {
		req, err = h.readJSON(r)
	}
	if err != nil {
		var ie *inputError
		if !errors.As(err, &ie) {
			ie = &inputError{status: http.StatusInternalServerError, message: "Failed to read request"}
		}
		log.Warn().Err(err).Int("status", ie.status).Msg("Rejected analyze request")
		middleware.WriteJSON(w, ie.status, ErrorResponse{Error: ie.message, DocumentKind: string(req.Kind)})
		return
	}

	session := sessionID(r)
	log.Info().
		Str("session_id", session).
		Str("document_kind", string(req.Kind)).
		Str("mime_type", req.MIMEType).
		Int("bytes", len(req.Data)).
		Msg("Analyzing document")

	result, err := h.gate.Extract(r.Context(), session, h.extractor, req)
	if err != nil {
		if errors.Is(err, extraction.ErrExtractionInFlight) {
			middleware.WriteJSON(w, http.StatusConflict, ErrorResponse{
				Error:        "An analysis is already in progress. Please wait for it to finish.",
				DocumentKind: string(req.Kind),
			})
			return
		}

		ee, ok := extraction.AsExtractionError(err)
		if !ok {
			log.Error().Err(err).Msg("Unclassified extraction error")
			middleware.WriteError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		middleware.WriteJSON(w, StatusForError(ee.Kind), ErrorResponse{
			Error:        ee.Message,
			ErrorKind:    string(ee.Kind),
			DocumentKind: string(req.Kind),
			Retryable:    ee.Retryable(),
		})
		return
	}

	middleware.WriteJSON(w, http.StatusOK, result)
}

// StatusForError maps an extraction failure to an HTTP status.
func StatusForError(kind extraction.ErrorKind) int {
	switch kind {
	case extraction.ErrorKindMissingCredential:
		return http.StatusServiceUnavailable
	case extraction.ErrorKindSafetyRejected:
		return http.StatusUnprocessableEntity
	case extraction.ErrorKindMalformedResponse, extraction.ErrorKindTransportOrService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *AnalyzeHandler) readMultipart(r *http.Request) (extraction.Request, error) {
	var req extraction.Request

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		if isTooLarge(err) {
			return req, h.tooLarge()
		}
		return req, badRequest("Invalid multipart form: %v", err)
	}

	kind, err := domain.ParseDocumentKind(r.FormValue("kind"))
	if err != nil {
		return req, badRequest("%v", err)
	}
	req.Kind = kind

	file, header, err := r.FormFile("file")
	if err != nil {
		return req, badRequest("A file is required")
	}
	defer file.Close()

	if header.Size > h.maxBytes {
		return req, h.tooLarge()
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return req, fmt.Errorf("read uploaded file: %w", err)
	}
	if len(data) == 0 {
		return req, badRequest("The uploaded file is empty")
	}
	req.Data = data

	req.MIMEType = header.Header.Get("Content-Type")
	if req.MIMEType == "" || req.MIMEType == "application/octet-stream" {
		req.MIMEType = extraction.DetectMIMEType(header.Filename, data)
	}
	if !extraction.IsSupportedMIMEType(req.MIMEType) {
		return req, unsupportedType(req.MIMEType)
	}
	return req, nil
}

func (h *AnalyzeHandler) readJSON(r *http.Request) (extraction.Request, error) {
	var (
		req  extraction.Request
		body struct {
			Kind     string `json:"kind"`
			Data     string `json:"data"`
			MIMEType string `json:"mime_type"`
		}
	)

	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		if isTooLarge(err) {
			return req, h.tooLarge()
		}
		return req, badRequest("Invalid request body")
	}

	kind, err := domain.ParseDocumentKind(body.Kind)
	if err != nil {
		return req, badRequest("%v", err)
	}
	req.Kind = kind

	data, uriMIME, err := extraction.DecodePayload(body.Data)
	if err != nil {
		return req, badRequest("Document data must be base64 or a base64 data URI")
	}
	if int64(len(data)) > h.maxBytes {
		return req, h.tooLarge()
	}
	req.Data = data

	switch {
	case body.MIMEType != "":
		req.MIMEType = body.MIMEType
	case uriMIME != "":
		req.MIMEType = uriMIME
	default:
		req.MIMEType = extraction.DetectMIMEType("", data)
	}
	if !extraction.IsSupportedMIMEType(req.MIMEType) {
		return req, unsupportedType(req.MIMEType)
	}
	return req, nil
}

func (h *AnalyzeHandler) tooLarge() *inputError {
	return &inputError{
		status:  http.StatusRequestEntityTooLarge,
		message: fmt.Sprintf("Document exceeds the %d MB upload limit", h.maxBytes>>20),
	}
}

func unsupportedType(mimeType string) *inputError {
	return &inputError{
		status:  http.StatusUnsupportedMediaType,
		message: fmt.Sprintf("Unsupported file type %q: upload an image or a PDF", mimeType),
	}
}

func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe) || strings.Contains(err.Error(), "request body too large")
}

// sessionID prefers the explicit session header and falls back to the
// client host.
func sessionID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(SessionHeader)); id != "" {
		return id
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
