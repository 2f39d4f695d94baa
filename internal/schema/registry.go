package schema

import (
	"fmt"

	"github.com/dvloznov/finance-analyzer/internal/domain"
)

var (
	statementSchema = object(
		[]Property{
			{"summary", object(
				[]Property{
					{"bankName", str("")},
					{"accountHolder", str("")},
					{"period", str("")},
					{"totalIncome", num()},
					{"totalExpense", num()},
					{"netBalance", num()},
					{"currency", str("")},
				},
				"bankName", "accountHolder", "period", "totalIncome", "totalExpense", "netBalance", "currency",
			)},
			{"transactions", array(object(
				[]Property{
					{"date", str("YYYY-MM-DD")},
					{"description", str("")},
					{"amount", num()},
					{"type", str("income or expense")},
					{"category", str("e.g., Food, Rent, Salary, etc.")},
				},
				"date", "description", "amount", "type", "category",
			))},
			{"insights", array(str(""))},
		},
		"summary", "transactions", "insights",
	)

	payslipSchema = object(
		[]Property{
			{"summary", object(
				[]Property{
					{"employerName", str("")},
					{"employeeName", str("")},
					{"payPeriod", str("")},
					{"grossPay", num()},
					{"netPay", num()},
					{"totalDeductions", num()},
					{"currency", str("")},
				},
				"employerName", "employeeName", "payPeriod", "grossPay", "netPay", "totalDeductions", "currency",
			)},
			{"deductions", array(object(
				[]Property{
					{"description", str("")},
					{"amount", num()},
					{"type", str("tax | insurance | pension | other")},
				},
				"description", "amount", "type",
			))},
			{"insights", array(str(""))},
		},
		"summary", "deductions", "insights",
	)
)

// For returns a copy of the schema registered for kind.
func For(kind domain.DocumentKind) (*Schema, error) {
	switch kind {
	case domain.Statement:
		return statementSchema.Clone(), nil
	case domain.Payslip:
		return payslipSchema.Clone(), nil
	default:
		return nil, fmt.Errorf("schema.For: no schema for document kind %q", kind)
	}
}

// MustFor is For for kinds known to be valid.
func MustFor(kind domain.DocumentKind) *Schema {
	s, err := For(kind)
	if err != nil {
		panic(err)
	}
	return s
}

func object(props []Property, required ...string) *Schema {
	return &Schema{Type: TypeObject, Properties: props, Required: required}
}

func array(items *Schema) *Schema {
	return &Schema{Type: TypeArray, Items: items}
}

func str(description string) *Schema {
	return &Schema{Type: TypeString, Description: description}
}

func num() *Schema {
	return &Schema{Type: TypeNumber}
}
