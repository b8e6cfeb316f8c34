package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"expense_manager/internal/model"
	"expense_manager/internal/repository"
	"expense_manager/internal/utils"
)

// AdminService provides cross-user management. The admin role requirement is
// enforced by the route middleware before any of these run; methods here
// operate system-wide without caller scoping.
type AdminService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	CreateUser(ctx context.Context, req model.AdminCreateUserRequest) (*model.User, error)
	UpdateUser(ctx context.Context, userID int64, req model.AdminUpdateUserRequest) (*model.User, error)
	DeleteUser(ctx context.Context, userID int64) error
	CreateTransactionFor(ctx context.Context, userID int64, req model.CreateTransactionRequest) (*model.Transaction, error)
	ListAllTransactions(ctx context.Context) ([]model.AdminTransaction, error)
	UpdateTransaction(ctx context.Context, transactionID int64, req model.UpdateTransactionRequest) (*model.Transaction, error)
	DeleteTransaction(ctx context.Context, transactionID int64) error
	ExportTransactionsCSV(ctx context.Context) (*bytes.Buffer, error)
}

type adminService struct {
	userRepo repository.UserRepository
	txRepo   repository.TransactionRepository
}

// NewAdminService creates a new AdminService
func NewAdminService(userRepo repository.UserRepository, txRepo repository.TransactionRepository) AdminService {
	return &adminService{userRepo: userRepo, txRepo: txRepo}
}

func (s *adminService) ListUsers(ctx context.Context) ([]model.User, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list users: %v", ErrStoreUnavailable, err)
	}
	return users, nil
}

func (s *adminService) CreateUser(ctx context.Context, req model.AdminCreateUserRequest) (*model.User, error) {
	if err := ValidateUserFields(req.Name, req.Email, req.Password); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = model.RoleUser
	}
	if role != model.RoleUser && role != model.RoleAdmin {
		return nil, fmt.Errorf("%w: role must be user or admin", ErrValidation)
	}

	ctx, cancel := storeCtx(ctx)
	defer cancel()

	existing, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to check existing user: %v", ErrStoreUnavailable, err)
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Role:         role,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("%w: failed to create user: %v", ErrStoreUnavailable, err)
	}
	return user, nil
}

func (s *adminService) UpdateUser(ctx context.Context, userID int64, req model.AdminUpdateUserRequest) (*model.User, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to find user: %v", ErrStoreUnavailable, err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: name is required", ErrValidation)
		}
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil && !strings.EqualFold(*req.Email, user.Email) {
		// Format is enforced on update as well as create
		if !emailPattern.MatchString(*req.Email) {
			return nil, fmt.Errorf("%w: invalid email format", ErrValidation)
		}
		holder, err := s.userRepo.FindByEmail(ctx, *req.Email)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to check email: %v", ErrStoreUnavailable, err)
		}
		if holder != nil && holder.ID != userID {
			return nil, ErrDuplicateEmail
		}
		user.Email = *req.Email
	}
	if req.Role != nil {
		if *req.Role != model.RoleUser && *req.Role != model.RoleAdmin {
			return nil, fmt.Errorf("%w: role must be user or admin", ErrValidation)
		}
		user.Role = *req.Role
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateEmail
		}
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: failed to update user: %v", ErrStoreUnavailable, err)
	}
	return user, nil
}

func (s *adminService) DeleteUser(ctx context.Context, userID int64) error {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	if err := s.userRepo.DeleteWithTransactions(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return fmt.Errorf("%w: user", ErrNotFound)
		}
		return fmt.Errorf("%w: failed to delete user: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *adminService) CreateTransactionFor(ctx context.Context, userID int64, req model.CreateTransactionRequest) (*model.Transaction, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	owner, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to find user: %v", ErrStoreUnavailable, err)
	}
	if owner == nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}

	transaction, err := buildTransaction(userID, req)
	if err != nil {
		return nil, err
	}
	if err := s.txRepo.Create(ctx, transaction); err != nil {
		return nil, fmt.Errorf("%w: failed to create transaction: %v", ErrStoreUnavailable, err)
	}
	return transaction, nil
}

func (s *adminService) ListAllTransactions(ctx context.Context) ([]model.AdminTransaction, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	transactions, err := s.txRepo.FindAllWithUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list transactions: %v", ErrStoreUnavailable, err)
	}
	return transactions, nil
}

// UpdateTransaction edits any user's transaction. The total is recomputed
// from the merged fields exactly like the user-facing path; a client-supplied
// total is never honored.
func (s *adminService) UpdateTransaction(ctx context.Context, transactionID int64, req model.UpdateTransactionRequest) (*model.Transaction, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	existing, err := s.txRepo.FindByID(ctx, transactionID)
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

	if err := s.txRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return nil, fmt.Errorf("%w: transaction", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: failed to update transaction: %v", ErrStoreUnavailable, err)
	}
	return existing, nil
}

func (s *adminService) DeleteTransaction(ctx context.Context, transactionID int64) error {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	if err := s.txRepo.DeleteByID(ctx, transactionID); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return fmt.Errorf("%w: transaction", ErrNotFound)
		}
		return fmt.Errorf("%w: failed to delete transaction: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// ExportTransactionsCSV renders every transaction with its owner's email as CSV
func (s *adminService) ExportTransactionsCSV(ctx context.Context) (*bytes.Buffer, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	transactions, err := s.txRepo.FindAllWithUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch transactions for CSV export: %v", ErrStoreUnavailable, err)
	}

	buffer := &bytes.Buffer{}
	writer := csv.NewWriter(buffer)

	header := []string{"ID", "UserID", "UserEmail", "Description", "Amount", "Type", "TaxType", "TaxAmount", "TotalAmount", "CreatedAt"}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, t := range transactions {
		row := []string{
			strconv.FormatInt(t.ID, 10),
			strconv.FormatInt(t.UserID, 10),
			t.UserEmail,
			t.Description,
			t.Amount.StringFixed(2),
			t.Type,
			t.TaxType,
			t.TaxAmount.StringFixed(2),
			t.TotalAmount.StringFixed(2),
			t.CreatedAt.Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("error flushing CSV writer: %w", err)
	}

	return buffer, nil
}
