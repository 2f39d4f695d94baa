package domain

import (
	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a statement line.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// Transaction represents one statement line produced by the model.
// Values are kept exactly as the model returned them; Amount is not re-signed
// from Type.
type Transaction struct {
	Date        string          `json:"date"`        // YYYY-MM-DD
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"` // income | expense
	Category    string          `json:"category"`
}

// StatementSummary holds the header totals of a bank statement.
type StatementSummary struct {
	BankName      string          `json:"bankName"`
	AccountHolder string          `json:"accountHolder"`
	Period        string          `json:"period"`
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	TotalExpense  decimal.Decimal `json:"totalExpense"`
	NetBalance    decimal.Decimal `json:"netBalance"`
	Currency      string          `json:"currency"`
}

// StatementResult is the AnalysisResult variant for bank statements.
type StatementResult struct {
	Summary      StatementSummary `json:"summary"`
	Transactions []Transaction    `json:"transactions"`
	Insights     []string         `json:"insights"`
}

// Kind implements AnalysisResult.
func (r *StatementResult) Kind() DocumentKind { return Statement }

// Accept implements AnalysisResult.
func (r *StatementResult) Accept(v Visitor) { v.VisitStatement(r) }

func (r *StatementResult) isAnalysisResult() {}

// MarshalJSON adds the "type" discriminant.
func (r *StatementResult) MarshalJSON() ([]byte, error) {
	type plain StatementResult
	return marshalTagged(Statement, (*plain)(r))
}
