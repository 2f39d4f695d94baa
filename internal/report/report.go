// Package report renders analysis results as plain text for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-analyzer/internal/domain"
)

// uncategorized labels transactions the model left without a category.
const uncategorized = "Uncategorized"

// CategoryTotal is the sum of absolute transaction amounts in one category.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// CategoryBreakdown groups transactions by category in first-seen order.
func CategoryBreakdown(txs []domain.Transaction) []CategoryTotal {
	var out []CategoryTotal
	index := make(map[string]int)
	for _, tx := range txs {
		cat := strings.TrimSpace(tx.Category)
		if cat == "" {
			cat = uncategorized
		}
		i, ok := index[cat]
		if !ok {
			i = len(out)
			index[cat] = i
			out = append(out, CategoryTotal{Category: cat})
		}
		out[i].Total = out[i].Total.Add(tx.Amount.Abs())
	}
	return out
}

// DeductionShare is one deduction's absolute amount and its share of all
// deductions, in percent rounded to one decimal place.
type DeductionShare struct {
	Description string
	Type        domain.DeductionType
	Amount      decimal.Decimal
	Percent     decimal.Decimal
}

// DeductionBreakdown keeps the payslip order.
func DeductionBreakdown(ds []domain.Deduction) []DeductionShare {
	total := decimal.Zero
	for _, d := range ds {
		total = total.Add(d.Amount.Abs())
	}

	out := make([]DeductionShare, 0, len(ds))
	for _, d := range ds {
		share := DeductionShare{
			Description: d.Description,
			Type:        d.Type,
			Amount:      d.Amount.Abs(),
			Percent:     decimal.Zero,
		}
		if !total.IsZero() {
			share.Percent = share.Amount.Div(total).Mul(decimal.NewFromInt(100)).Round(1)
		}
		out = append(out, share)
	}
	return out
}

// SignedAmount formats a transaction amount with a sign taken from its type,
// since the model is not consistent about negative expense amounts.
func SignedAmount(tx domain.Transaction) string {
	sign := "+"
	if tx.Type == domain.TransactionExpense {
		sign = "-"
	}
	return sign + tx.Amount.Abs().StringFixed(2)
}

// Render writes a text report for r to w.
func Render(w io.Writer, r domain.AnalysisResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rr := &renderer{w: tw}
	r.Accept(rr)
	if rr.err != nil {
		return rr.err
	}
	return tw.Flush()
}

// renderer implements domain.Visitor. The first write error is kept and later
// writes are skipped.
type renderer struct {
	w   io.Writer
	err error
}

func (r *renderer) printf(format string, args ...any) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format, args...)
}

func money(d decimal.Decimal, currency string) string {
	if currency == "" {
		return d.StringFixed(2)
	}
	return d.StringFixed(2) + " " + currency
}

func (r *renderer) VisitStatement(s *domain.StatementResult) {
	sum := s.Summary
	r.printf("BANK STATEMENT\n")
	r.printf("Bank:\t%s\n", sum.BankName)
	r.printf("Account holder:\t%s\n", sum.AccountHolder)
	r.printf("Period:\t%s\n", sum.Period)
	r.printf("Total income:\t%s\n", money(sum.TotalIncome, sum.Currency))
	r.printf("Total expense:\t%s\n", money(sum.TotalExpense, sum.Currency))
	r.printf("Net balance:\t%s\n", money(sum.NetBalance, sum.Currency))

	r.printf("\nTRANSACTIONS (%d)\n", len(s.Transactions))
	for _, tx := range s.Transactions {
		r.printf("%s\t%s\t%s\t%s\n", tx.Date, tx.Description, tx.Category, SignedAmount(tx))
	}

	if cats := CategoryBreakdown(s.Transactions); len(cats) > 0 {
		r.printf("\nBY CATEGORY\n")
		for _, c := range cats {
			r.printf("%s\t%s\n", c.Category, money(c.Total, sum.Currency))
		}
	}

	r.insights(s.Insights)
}

func (r *renderer) VisitPayslip(p *domain.PayslipResult) {
	sum := p.Summary
	r.printf("PAYSLIP\n")
	r.printf("Employer:\t%s\n", sum.EmployerName)
	r.printf("Employee:\t%s\n", sum.EmployeeName)
	r.printf("Pay period:\t%s\n", sum.PayPeriod)
	r.printf("Gross pay:\t%s\n", money(sum.GrossPay, sum.Currency))
	r.printf("Total deductions:\t%s\n", money(sum.TotalDeductions, sum.Currency))
	r.printf("Net pay:\t%s\n", money(sum.NetPay, sum.Currency))

	r.printf("\nDEDUCTIONS (%d)\n", len(p.Deductions))
	for _, d := range DeductionBreakdown(p.Deductions) {
		r.printf("%s\t%s\t%s\t%s%%\n", d.Description, d.Type, money(d.Amount, sum.Currency), d.Percent.StringFixed(1))
	}

	r.insights(p.Insights)
}

func (r *renderer) insights(items []string) {
	if len(items) == 0 {
		return
	}
	r.printf("\nINSIGHTS\n")
	for _, s := range items {
		r.printf("- %s\n", s)
	}
}
