package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"expense_manager/internal/model"
	"expense_manager/internal/repository"

	"github.com/shopspring/decimal"
)

var minAmount = decimal.RequireFromString("0.01")

// TransactionService defines operations over a single user's transactions.
// Every method takes the authenticated user's ID and only ever touches rows
// owned by it; the repository query filter enforces that, not post-hoc checks.
type TransactionService interface {
	Create(ctx context.Context, userID int64, req model.CreateTransactionRequest) (*model.Transaction, error)
	List(ctx context.Context, userID int64, page, limit int) (*model.TransactionPage, error)
	GetByID(ctx context.Context, userID, transactionID int64) (*model.Transaction, error)
	Update(ctx context.Context, userID, transactionID int64, req model.UpdateTransactionRequest) (*model.Transaction, error)
	Delete(ctx context.Context, userID, transactionID int64) error
	DashboardSummary(ctx context.Context, userID int64) (*model.DashboardSummary, error)
}

type transactionService struct {
	repo repository.TransactionRepository
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(repo repository.TransactionRepository) TransactionService {
	return &transactionService{repo: repo}
}

// validateTransactionFields checks the writable fields of a transaction
func validateTransactionFields(description string, amount decimal.Decimal, txType, taxType string, taxAmount decimal.Decimal) error {
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	if amount.LessThan(minAmount) {
		return fmt.Errorf("%w: amount must be at least 0.01", ErrValidation)
	}
	if txType != model.TransactionTypeIncome && txType != model.TransactionTypeExpense {
		return fmt.Errorf("%w: type must be income or expense", ErrValidation)
	}
	if taxType != model.TaxTypeFlat && taxType != model.TaxTypePercentage {
		return fmt.Errorf("%w: tax_type must be flat or percentage", ErrValidation)
	}
	if taxAmount.IsNegative() {
		return fmt.Errorf("%w: tax_amount cannot be negative", ErrValidation)
	}
	return nil
}

// buildTransaction validates a create request and assembles the row with its
// computed total. Shared with the admin create-on-behalf path.
func buildTransaction(userID int64, req model.CreateTransactionRequest) (*model.Transaction, error) {
	taxType := req.TaxType
	if taxType == "" {
		taxType = model.TaxTypeFlat
	}
	if err := validateTransactionFields(req.Description, req.Amount, req.Type, taxType, req.TaxAmount); err != nil {
		return nil, err
	}
	now := time.Now()
	return &model.Transaction{
		UserID:      userID,
		Description: strings.TrimSpace(req.Description),
		Amount:      req.Amount,
		Type:        req.Type,
		TaxType:     taxType,
		TaxAmount:   req.TaxAmount,
		TotalAmount: ComputeTotal(req.Amount, taxType, req.TaxAmount),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// applyTransactionUpdate merges an update request into an existing row,
// revalidates and recomputes the total. The total is never client-settable.
func applyTransactionUpdate(t *model.Transaction, req model.UpdateTransactionRequest) error {
	if req.Description != nil {
		t.Description = strings.TrimSpace(*req.Description)
	}
	if req.Amount != nil {
		t.Amount = *req.Amount
	}
	if req.Type != nil {
		t.Type = *req.Type
	}
	if req.TaxType != nil {
		t.TaxType = *req.TaxType
	}
	if req.TaxAmount != nil {
		t.TaxAmount = *req.TaxAmount
	}
	if err := validateTransactionFields(t.Description, t.Amount, t.Type, t.TaxType, t.TaxAmount); err != nil {
		return err
	}
	t.TotalAmount = ComputeTotal(t.Amount, t.TaxType, t.TaxAmount)
	return nil
}

func (s *transactionService) Create(ctx context.Context, userID int64, req model.CreateTransactionRequest) (*model.Transaction, error) {
	transaction, err := buildTransaction(userID, req)
	if err != nil {
		return nil, err
	}
	ctx, cancel := storeCtx(ctx)
	defer cancel()
	if err := s.repo.Create(ctx, transaction); err != nil {
		return nil, fmt.Errorf("%w: failed to create transaction: %v", ErrStoreUnavailable, err)
	}
	return transaction, nil
}

func (s *transactionService) List(ctx context.Context, userID int64, page, limit int) (*model.TransactionPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	ctx, cancel := storeCtx(ctx)
	defer cancel()

	totalCount, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to count transactions: %v", ErrStoreUnavailable, err)
	}

	offset := (page - 1) * limit
	items, err := s.repo.FindPageByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list transactions: %v", ErrStoreUnavailable, err)
	}
	if items == nil {
		items = []model.Transaction{} // empty page stays a JSON array, not null
	}

	totalPages := int((totalCount + int64(limit) - 1) / int64(limit))

	return &model.TransactionPage{
		Items:      items,
		Page:       page,
		TotalPages: totalPages,
		TotalCount: totalCount,
	}, nil
}

func (s *transactionService) GetByID(ctx context.Context, userID, transactionID int64) (*model.Transaction, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	transaction, err := s.repo.FindByIDForUser(ctx, transactionID, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to find transaction: %v", ErrStoreUnavailable, err)
	}
	if transaction == nil {
		return nil, fmt.Errorf("%w: transaction", ErrNotFound)
	}
	return transaction, nil
}

func (s *transactionService) Update(ctx context.Context, userID, transactionID int64, req model.UpdateTransactionRequest) (*model.Transaction, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	existing, err := s.repo.FindByIDForUser(ctx, transactionID, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to find transaction for update: %v", ErrStoreUnavailable, err)
	}
	if existing == nil {
		return nil, fmt.Errorf("%w: transaction", ErrNotFound)
	}

	if err := applyTransactionUpdate(existing, req); err != nil {
		return nil, err
	}
	existing.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return nil, fmt.Errorf("%w: transaction", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: failed to update transaction: %v", ErrStoreUnavailable, err)
	}
	return existing, nil
}

func (s *transactionService) Delete(ctx context.Context, userID, transactionID int64) error {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	if err := s.repo.DeleteForUser(ctx, transactionID, userID); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return fmt.Errorf("%w: transaction", ErrNotFound)
		}
		return fmt.Errorf("%w: failed to delete transaction: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *transactionService) DashboardSummary(ctx context.Context, userID int64) (*model.DashboardSummary, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	summary, err := s.repo.SummarizeByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to summarize transactions: %v", ErrStoreUnavailable, err)
	}
	return summary, nil
}
