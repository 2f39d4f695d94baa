package extraction

import (
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/dvloznov/finance-analyzer/internal/domain"
)

// SafetyMarker is the token the provider puts in block reasons and error
// messages when content-safety heuristics reject a request.
const SafetyMarker = "SAFETY"

// errContentBlocked marks a response the provider withheld under a content
// policy, whatever the reason string.
var errContentBlocked = errors.New("content blocked by provider policy")

// policyBlockReasons are the finish and prompt block reasons that mean the
// provider refused the content. Reasons containing SafetyMarker are matched
// separately.
var policyBlockReasons = map[string]struct{}{
	"BLOCKLIST":                {},
	"PROHIBITED_CONTENT":       {},
	"SPII":                     {},
	"IMAGE_PROHIBITED_CONTENT": {},
}

// isPolicyBlock reports whether a finish or block reason is a content-policy refusal.
func isPolicyBlock(reason string) bool {
	if reason == "" {
		return false
	}
	if strings.Contains(reason, SafetyMarker) {
		return true
	}
	_, ok := policyBlockReasons[reason]
	return ok
}

// Classify maps any failure to an *ExtractionError. Errors that are already
// classified pass through unchanged.
func Classify(err error, kind domain.DocumentKind) *ExtractionError {
	if err == nil {
		return nil
	}
	if ee, ok := AsExtractionError(err); ok {
		return ee
	}
	if errors.Is(err, errContentBlocked) || strings.Contains(err.Error(), SafetyMarker) {
		return NewSafetyRejectedError(kind, err)
	}
	return NewTransportError(kind, err)
}

// responseError turns a problem signalled inside an otherwise successful
// response into an error, so it goes through the same classification as call
// errors. Policy blocks wrap errContentBlocked; a response with nothing to
// parse is a service error.
func responseError(resp *genai.GenerateContentResponse) error {
	if resp == nil {
		return errors.New("empty response from model")
	}
	if pf := resp.PromptFeedback; pf != nil && pf.BlockReason != "" {
		reason := string(pf.BlockReason)
		msg := reason
		if pf.BlockReasonMessage != "" {
			msg = reason + ": " + pf.BlockReasonMessage
		}
		if isPolicyBlock(reason) {
			return fmt.Errorf("prompt blocked: %s: %w", msg, errContentBlocked)
		}
		return fmt.Errorf("prompt blocked: %s", msg)
	}
	for _, c := range resp.Candidates {
		if c != nil && isPolicyBlock(string(c.FinishReason)) {
			return fmt.Errorf("response blocked: finish reason %s: %w", c.FinishReason, errContentBlocked)
		}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil ||
		resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return errors.New("empty response from model")
	}
	return nil
}
