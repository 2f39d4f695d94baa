package extraction

import (
	"github.com/dvloznov/finance-analyzer/internal/domain"
)

// systemInstruction is attached to every request regardless of document kind.
const systemInstruction = `
You are an expert financial analyst. Your task is to analyze financial documents (bank statements or payslips).
The user will provide an image or text of a document.

Guidelines:
1. Handle multiple languages and currencies.
2. Be as accurate as possible with amounts, dates, and names.
3. If a required field is not found, DO NOT leave it out. Use "N/A" for strings and 0 for numbers.
4. For payslips, ensure you extract all deduction line items correctly.
`

const (
	statementPrompt = "Analyze this bank statement. Provide a summary and a list of transactions."
	payslipPrompt   = "Analyze this payslip. Provide a summary including Gross Pay, Net Pay, and a detailed list of deductions."
)

// taskPrompt returns the natural-language instruction for kind.
func taskPrompt(kind domain.DocumentKind) string {
	if kind == domain.Payslip {
		return payslipPrompt
	}
	return statementPrompt
}
