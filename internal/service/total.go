package service

import (
	"expense_manager/internal/model"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// ComputeTotal derives a transaction's total from its amount and tax fields.
// A percentage tax adds amount*taxAmount/100; any other tax type is treated
// as a flat surcharge. Callers normalize negative or malformed inputs to zero
// before calling. The result is rounded to 2 decimal places.
func ComputeTotal(amount decimal.Decimal, taxType string, taxAmount decimal.Decimal) decimal.Decimal {
	if taxType == model.TaxTypePercentage {
		return amount.Add(amount.Mul(taxAmount).Div(oneHundred)).Round(2)
	}
	return amount.Add(taxAmount).Round(2)
}
