package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"expense_manager/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserRepoMock(t *testing.T) (pgxmock.PgxPoolIface, UserRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewUserRepository(mock)
}

func TestUserRepository_Create(t *testing.T) {
	mock, repo := newUserRepoMock(t)

	user := &model.User{
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		Role:         model.RoleUser,
		CreatedAt:    time.Now(),
	}

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs(user.Name, user.Email, user.PasswordHash, user.Role, user.CreatedAt).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

	err := repo.Create(context.Background(), user)

	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_UniqueViolation(t *testing.T) {
	mock, repo := newUserRepoMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &model.User{Email: "dup@example.com"})

	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail(t *testing.T) {
	mock, repo := newUserRepoMock(t)
	created := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE LOWER(email) = LOWER($1)`)).
		WithArgs("Alice@Example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "created_at"}).
			AddRow(int64(1), "Alice", "alice@example.com", "hash", "user", created))

	user, err := repo.FindByEmail(context.Background(), "Alice@Example.com")

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail_NotFoundIsNil(t *testing.T) {
	mock, repo := newUserRepoMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE LOWER(email) = LOWER($1)`)).
		WithArgs("nobody@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "created_at"}))

	user, err := repo.FindByEmail(context.Background(), "nobody@example.com")

	require.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Update_NoRows(t *testing.T) {
	mock, repo := newUserRepoMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET name = $1, email = $2, role = $3 WHERE id = $4`)).
		WithArgs("Ghost", "ghost@example.com", "user", int64(99)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), &model.User{ID: 99, Name: "Ghost", Email: "ghost@example.com", Role: "user"})

	assert.ErrorIs(t, err, ErrNoRowsAffected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_DeleteWithTransactions(t *testing.T) {
	mock, repo := newUserRepoMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM transactions WHERE user_id = $1`)).
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id = $1`)).
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	err := repo.DeleteWithTransactions(context.Background(), 5)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_DeleteWithTransactions_UserMissing(t *testing.T) {
	mock, repo := newUserRepoMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM transactions WHERE user_id = $1`)).
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id = $1`)).
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectRollback()

	err := repo.DeleteWithTransactions(context.Background(), 5)

	assert.ErrorIs(t, err, ErrNoRowsAffected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_DeleteWithTransactions_RollsBackOnFailure(t *testing.T) {
	mock, repo := newUserRepoMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM transactions WHERE user_id = $1`)).
		WithArgs(int64(5)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.DeleteWithTransactions(context.Background(), 5)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
