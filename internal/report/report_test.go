package report

import (
	"bytes"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/finance-analyzer/internal/domain"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCategoryBreakdown(t *testing.T) {
	txs := []domain.Transaction{
		{Amount: d("-50.25"), Type: domain.TransactionExpense, Category: "Groceries"},
		{Amount: d("2000"), Type: domain.TransactionIncome, Category: "Salary"},
		{Amount: d("-20"), Type: domain.TransactionExpense, Category: "Groceries"},
		{Amount: d("-5"), Type: domain.TransactionExpense, Category: " "},
	}

	got := CategoryBreakdown(txs)
	require.Len(t, got, 3)
	assert.Equal(t, "Groceries", got[0].Category)
	assert.True(t, d("70.25").Equal(got[0].Total))
	assert.Equal(t, "Salary", got[1].Category)
	assert.True(t, d("2000").Equal(got[1].Total))
	assert.Equal(t, uncategorized, got[2].Category)
	assert.True(t, d("5").Equal(got[2].Total))

	assert.Empty(t, CategoryBreakdown(nil))
}

func TestDeductionBreakdown(t *testing.T) {
	got := DeductionBreakdown([]domain.Deduction{
		{Description: "Income Tax", Amount: d("600"), Type: domain.DeductionTax},
		{Description: "National Insurance", Amount: d("-200"), Type: domain.DeductionInsurance},
		{Description: "Pension", Amount: d("100"), Type: domain.DeductionPension},
	})

	require.Len(t, got, 3)
	assert.Equal(t, "Income Tax", got[0].Description)
	assert.True(t, d("66.7").Equal(got[0].Percent), got[0].Percent.String())
	assert.True(t, d("200").Equal(got[1].Amount))
	assert.True(t, d("22.2").Equal(got[1].Percent), got[1].Percent.String())
	assert.True(t, d("11.1").Equal(got[2].Percent), got[2].Percent.String())
}

func TestDeductionBreakdown_ZeroTotal(t *testing.T) {
	got := DeductionBreakdown([]domain.Deduction{{Description: "None", Amount: decimal.Zero}})
	require.Len(t, got, 1)
	assert.True(t, got[0].Percent.IsZero())
}

func TestSignedAmount(t *testing.T) {
	assert.Equal(t, "+5000.00", SignedAmount(domain.Transaction{Amount: d("5000"), Type: domain.TransactionIncome}))
	assert.Equal(t, "-3200.00", SignedAmount(domain.Transaction{Amount: d("-3200"), Type: domain.TransactionExpense}))
	assert.Equal(t, "-12.50", SignedAmount(domain.Transaction{Amount: d("12.5"), Type: domain.TransactionExpense}))
}

func TestRender_Statement(t *testing.T) {
	r := &domain.StatementResult{
		Summary: domain.StatementSummary{
			BankName:     "Acme Bank",
			Period:       "March 2024",
			TotalIncome:  d("5000"),
			TotalExpense: d("3200"),
			NetBalance:   d("1800"),
			Currency:     "USD",
		},
		Transactions: []domain.Transaction{
			{Date: "2024-03-01", Description: "Salary", Amount: d("5000"), Type: domain.TransactionIncome, Category: "Salary"},
			{Date: "2024-03-03", Description: "Rent", Amount: d("-3200"), Type: domain.TransactionExpense, Category: "Housing"},
		},
		Insights: []string{"Rent is 64% of income"},
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, r))
	out := buf.String()

	assert.Contains(t, out, "BANK STATEMENT")
	assert.Contains(t, out, "Acme Bank")
	assert.Contains(t, out, "1800.00 USD")
	assert.Contains(t, out, "TRANSACTIONS (2)")
	assert.Contains(t, out, "+5000.00")
	assert.Contains(t, out, "-3200.00")
	assert.Contains(t, out, "BY CATEGORY")
	assert.Contains(t, out, "- Rent is 64% of income")
}

func TestRender_Payslip(t *testing.T) {
	r := &domain.PayslipResult{
		Summary: domain.PayslipSummary{
			EmployerName:    "Widgets Ltd",
			GrossPay:        d("4000"),
			NetPay:          d("3100"),
			TotalDeductions: d("900"),
			Currency:        "GBP",
		},
		Deductions: []domain.Deduction{
			{Description: "Income Tax", Amount: d("600"), Type: domain.DeductionTax},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, r))
	out := buf.String()

	assert.Contains(t, out, "PAYSLIP")
	assert.Contains(t, out, "3100.00 GBP")
	assert.Contains(t, out, "DEDUCTIONS (1)")
	assert.Contains(t, out, "100.0%")
	assert.NotContains(t, out, "INSIGHTS")
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestRender_WriteError(t *testing.T) {
	err := Render(failingWriter{}, &domain.PayslipResult{})
	assert.Error(t, err)
}
