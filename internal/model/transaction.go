package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"
)

const (
	TaxTypeFlat       = "flat"
	TaxTypePercentage = "percentage"
)

// Transaction represents an income or expense record. TotalAmount is always
// derived from Amount, TaxType and TaxAmount; it is never client-settable.
type Transaction struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"` // "income" or "expense"
	TaxType     string          `json:"tax_type"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreateTransactionRequest is used for creating a new transaction
type CreateTransactionRequest struct {
	Description string          `json:"description" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Type        string          `json:"type" binding:"required,oneof=income expense"`
	TaxType     string          `json:"tax_type" binding:"omitempty,oneof=flat percentage"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
}

// UpdateTransactionRequest allows partial updates; nil fields keep the stored
// value. The total is recomputed from the merged result on every update.
type UpdateTransactionRequest struct {
	Description *string          `json:"description,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Type        *string          `json:"type,omitempty" binding:"omitempty,oneof=income expense"`
	TaxType     *string          `json:"tax_type,omitempty" binding:"omitempty,oneof=flat percentage"`
	TaxAmount   *decimal.Decimal `json:"tax_amount,omitempty"`
}

// TransactionPage is one page of a user's transactions, newest first
type TransactionPage struct {
	Items      []Transaction `json:"items"`
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
	TotalCount int64         `json:"total_count"`
}

// DashboardSummary aggregates all of a user's transactions
type DashboardSummary struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Balance      decimal.Decimal `json:"balance"`
	TotalRecords int64           `json:"total_records"`
}

// AdminTransaction is a transaction annotated with its owner for admin views
type AdminTransaction struct {
	Transaction
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}
