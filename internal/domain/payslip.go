package domain

import (
	"github.com/shopspring/decimal"
)

// DeductionType groups payslip deductions.
type DeductionType string

const (
	DeductionTax       DeductionType = "tax"
	DeductionInsurance DeductionType = "insurance"
	DeductionPension   DeductionType = "pension"
	DeductionOther     DeductionType = "other"
)

// Deduction is a single payslip deduction line. Amount keeps the sign printed
// on the document (some payslips print deductions as negative values).
type Deduction struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        DeductionType   `json:"type"`
}

// PayslipSummary holds the payslip header figures.
type PayslipSummary struct {
	EmployerName    string          `json:"employerName"`
	EmployeeName    string          `json:"employeeName"`
	PayPeriod       string          `json:"payPeriod"`
	GrossPay        decimal.Decimal `json:"grossPay"`
	NetPay          decimal.Decimal `json:"netPay"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
	Currency        string          `json:"currency"`
}

// PayslipResult is the AnalysisResult variant for payslips.
type PayslipResult struct {
	Summary    PayslipSummary `json:"summary"`
	Deductions []Deduction    `json:"deductions"`
	Insights   []string       `json:"insights"`
}

// Kind implements AnalysisResult.
func (r *PayslipResult) Kind() DocumentKind { return Payslip }

// Accept implements AnalysisResult.
func (r *PayslipResult) Accept(v Visitor) { v.VisitPayslip(r) }

func (r *PayslipResult) isAnalysisResult() {}

// MarshalJSON adds the "type" discriminant.
func (r *PayslipResult) MarshalJSON() ([]byte, error) {
	type plain PayslipResult
	return marshalTagged(Payslip, (*plain)(r))
}
