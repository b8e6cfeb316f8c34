package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the repositories need. pgxmock satisfies
// it too, which is what the repository tests run against.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

var (
	// ErrDuplicate signals a unique constraint violation
	ErrDuplicate = errors.New("duplicate key value")
	// ErrNoRowsAffected signals a write that matched no row
	ErrNoRowsAffected = errors.New("no matching row")
)

const uniqueViolationCode = "23505"

// isUniqueViolation reports whether err is a Postgres unique constraint error
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
