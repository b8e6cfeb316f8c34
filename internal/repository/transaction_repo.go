package repository

import (
	"context"
	"errors"
	"fmt"

	"expense_manager/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// TransactionRepository defines operations for transaction data. The *ForUser
// variants filter by owner in the query itself; a transaction owned by someone
// else is indistinguishable from one that does not exist.
type TransactionRepository interface {
	Create(ctx context.Context, t *model.Transaction) error
	FindByID(ctx context.Context, id int64) (*model.Transaction, error)
	FindByIDForUser(ctx context.Context, id, userID int64) (*model.Transaction, error)
	FindPageByUser(ctx context.Context, userID int64, limit, offset int) ([]model.Transaction, error)
	CountByUser(ctx context.Context, userID int64) (int64, error)
	Update(ctx context.Context, t *model.Transaction) error
	DeleteForUser(ctx context.Context, id, userID int64) error
	DeleteByID(ctx context.Context, id int64) error
	SummarizeByUser(ctx context.Context, userID int64) (*model.DashboardSummary, error)
	FindAllWithUsers(ctx context.Context) ([]model.AdminTransaction, error)
}

type transactionRepository struct {
	db DB
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(db DB) TransactionRepository {
	return &transactionRepository{db: db}
}

const transactionColumns = `id, user_id, description, amount, type, tax_type, tax_amount, total_amount, created_at, updated_at`

func scanTransaction(row pgx.Row, t *model.Transaction) error {
	return row.Scan(
		&t.ID, &t.UserID, &t.Description, &t.Amount, &t.Type,
		&t.TaxType, &t.TaxAmount, &t.TotalAmount, &t.CreatedAt, &t.UpdatedAt,
	)
}

// Create inserts a new transaction into the database
func (r *transactionRepository) Create(ctx context.Context, t *model.Transaction) error {
	sql := `INSERT INTO transactions (user_id, description, amount, type, tax_type, tax_amount, total_amount, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, sql, t.UserID, t.Description, t.Amount, t.Type, t.TaxType, t.TaxAmount, t.TotalAmount, t.CreatedAt, t.UpdatedAt).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// FindByID retrieves a transaction by its ID regardless of owner (admin use)
func (r *transactionRepository) FindByID(ctx context.Context, id int64) (*model.Transaction, error) {
	t := &model.Transaction{}
	sql := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	err := scanTransaction(r.db.QueryRow(ctx, sql, id), t)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find transaction by ID: %w", err)
	}
	return t, nil
}

// FindByIDForUser retrieves a transaction by ID only if owned by userID
func (r *transactionRepository) FindByIDForUser(ctx context.Context, id, userID int64) (*model.Transaction, error) {
	t := &model.Transaction{}
	sql := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 AND user_id = $2`
	err := scanTransaction(r.db.QueryRow(ctx, sql, id, userID), t)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Absent or owned by someone else, same answer
		}
		return nil, fmt.Errorf("failed to find transaction for user: %w", err)
	}
	return t, nil
}

// FindPageByUser retrieves one page of a user's transactions, newest first.
// The id tiebreak keeps ordering deterministic for rows created at the same
// instant.
func (r *transactionRepository) FindPageByUser(ctx context.Context, userID int64, limit, offset int) ([]model.Transaction, error) {
	sql := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1
            ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, sql, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions by user: %w", err)
	}
	defer rows.Close()

	var transactions []model.Transaction
	for rows.Next() {
		var t model.Transaction
		if err := scanTransaction(rows, &t); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		transactions = append(transactions, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return transactions, nil
}

// CountByUser returns the total number of transactions owned by userID
func (r *transactionRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

// Update modifies an existing transaction. The owner never changes; the
// user_id predicate doubles as the ownership check.
func (r *transactionRepository) Update(ctx context.Context, t *model.Transaction) error {
	sql := `UPDATE transactions
            SET description = $1, amount = $2, type = $3, tax_type = $4, tax_amount = $5, total_amount = $6, updated_at = NOW()
            WHERE id = $7 AND user_id = $8 RETURNING updated_at`
	err := r.db.QueryRow(ctx, sql, t.Description, t.Amount, t.Type, t.TaxType, t.TaxAmount, t.TotalAmount, t.ID, t.UserID).Scan(&t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNoRowsAffected
		}
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return nil
}

// DeleteForUser removes a transaction only if owned by userID
func (r *transactionRepository) DeleteForUser(ctx context.Context, id, userID int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

// DeleteByID removes a transaction regardless of owner (admin use)
func (r *transactionRepository) DeleteByID(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

// SummarizeByUser totals a user's transactions grouped by type in one query
func (r *transactionRepository) SummarizeByUser(ctx context.Context, userID int64) (*model.DashboardSummary, error) {
	summary := &model.DashboardSummary{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	sql := `
        SELECT
            COALESCE(SUM(CASE WHEN type = 'income' THEN total_amount ELSE 0 END), 0) AS total_income,
            COALESCE(SUM(CASE WHEN type = 'expense' THEN total_amount ELSE 0 END), 0) AS total_expense,
            COUNT(id) AS total_records
        FROM transactions WHERE user_id = $1`
	err := r.db.QueryRow(ctx, sql, userID).Scan(&summary.TotalIncome, &summary.TotalExpense, &summary.TotalRecords)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize transactions: %w", err)
	}
	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpense)
	return summary, nil
}

// FindAllWithUsers retrieves every transaction with its owner's name and
// email, newest first (admin listing)
func (r *transactionRepository) FindAllWithUsers(ctx context.Context) ([]model.AdminTransaction, error) {
	sql := `SELECT t.id, t.user_id, t.description, t.amount, t.type, t.tax_type, t.tax_amount, t.total_amount, t.created_at, t.updated_at,
                   u.name, u.email
            FROM transactions t JOIN users u ON t.user_id = u.id
            ORDER BY t.created_at DESC, t.id DESC`
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to query all transactions: %w", err)
	}
	defer rows.Close()

	var transactions []model.AdminTransaction
	for rows.Next() {
		var t model.AdminTransaction
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.Description, &t.Amount, &t.Type,
			&t.TaxType, &t.TaxAmount, &t.TotalAmount, &t.CreatedAt, &t.UpdatedAt,
			&t.UserName, &t.UserEmail,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row for admin: %w", err)
		}
		transactions = append(transactions, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating admin transaction rows: %w", err)
	}
	return transactions, nil
}
