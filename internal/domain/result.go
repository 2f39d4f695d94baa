package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts leave the service as JSON numbers, the same shape the model returned.
	decimal.MarshalJSONWithoutQuotes = true
}

// DocumentKind selects which schema and prompt pair is used for an extraction.
type DocumentKind string

const (
	Statement DocumentKind = "statement"
	Payslip   DocumentKind = "payslip"
)

// DocumentKinds lists every supported kind in a stable order.
var DocumentKinds = []DocumentKind{Statement, Payslip}

// ParseDocumentKind converts user input ("statement", "Payslip", ...) into a DocumentKind.
func ParseDocumentKind(s string) (DocumentKind, error) {
	switch DocumentKind(strings.ToLower(strings.TrimSpace(s))) {
	case Statement:
		return Statement, nil
	case Payslip:
		return Payslip, nil
	default:
		return "", fmt.Errorf("unsupported document kind %q (want statement or payslip)", s)
	}
}

// Valid reports whether k is one of the supported kinds.
func (k DocumentKind) Valid() bool {
	return k == Statement || k == Payslip
}

func (k DocumentKind) String() string { return string(k) }

// AnalysisResult is the tagged union of extraction results. It is sealed:
// only *StatementResult and *PayslipResult implement it.
type AnalysisResult interface {
	// Kind returns the discriminant. It is fixed by the concrete type, so it
	// always matches the schema that produced the result.
	Kind() DocumentKind
	// Accept dispatches to the matching Visitor method.
	Accept(v Visitor)

	isAnalysisResult()
}

// Visitor gives renderers exhaustive matching over AnalysisResult: adding a
// variant adds a method here, which breaks every renderer until it handles it.
type Visitor interface {
	VisitStatement(r *StatementResult)
	VisitPayslip(r *PayslipResult)
}

func marshalTagged(kind DocumentKind, body any) ([]byte, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	// body always encodes as a non-empty JSON object.
	tag, err := json.Marshal(kind)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(raw)+len(tag)+8)
	out = append(out, `{"type":`...)
	out = append(out, tag...)
	if len(raw) > 2 {
		out = append(out, ',')
	}
	out = append(out, raw[1:]...)
	return out, nil
}
