package repository

import (
	"context"
	"errors"
	"fmt"

	"expense_manager/internal/model"

	"github.com/jackc/pgx/v5"
)

// UserRepository defines operations for user data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindAll(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, user *model.User) error
	DeleteWithTransactions(ctx context.Context, id int64) error
}

type userRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	sql := `INSERT INTO users (name, email, password_hash, role, created_at)
            VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := r.db.QueryRow(ctx, sql, user.Name, user.Email, user.PasswordHash, user.Role, user.CreatedAt).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByEmail retrieves a user by email, case-insensitively
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT id, name, email, password_hash, role, created_at FROM users WHERE LOWER(email) = LOWER($1)`
	err := r.db.QueryRow(ctx, sql, email).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found is not an error here, the service layer decides
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// FindByID retrieves a user by their ID
func (r *userRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT id, name, email, password_hash, role, created_at FROM users WHERE id = $1`
	err := r.db.QueryRow(ctx, sql, id).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// FindAll retrieves every user, newest first
func (r *userRepository) FindAll(ctx context.Context) ([]model.User, error) {
	sql := `SELECT id, name, email, password_hash, role, created_at FROM users ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

// Update modifies a user's name, email and role
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	sql := `UPDATE users SET name = $1, email = $2, role = $3 WHERE id = $4`
	cmdTag, err := r.db.Exec(ctx, sql, user.Name, user.Email, user.Role, user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

// DeleteWithTransactions removes a user and all their transactions in one
// database transaction, dependents first, so an interrupted delete can never
// leave orphaned transactions.
func (r *userRepository) DeleteWithTransactions(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin delete transaction: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM transactions WHERE user_id = $1`, id); err != nil {
		tx.Rollback(ctx)
		return fmt.Errorf("failed to delete user transactions: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		tx.Rollback(ctx)
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		tx.Rollback(ctx)
		return ErrNoRowsAffected
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit user delete: %w", err)
	}
	return nil
}
