package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	catalog_errors "service-catalog/pkg/errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

// DBTX abstracts *sqlx.DB and *sqlx.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// psql builds postgres statements with $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	return false
}

// get runs a single-row query and maps sql.ErrNoRows to ErrNotFound.
func get(ctx context.Context, db DBTX, dest interface{}, q sq.Sqlizer) error {
	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if err := db.GetContext(ctx, dest, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog_errors.ErrNotFound
		}
		return err
	}
	return nil
}

// exec runs a statement and reports ErrNotFound when it touched no rows.
func exec(ctx context.Context, db DBTX, q sq.Sqlizer) error {
	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %v", catalog_errors.ErrAlreadyExists, err)
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return catalog_errors.ErrNotFound
	}
	return nil
}

// countAndPage runs the count and the page query built from the same
// predicate so the total always describes the returned page.
func countAndPage(ctx context.Context, db DBTX, dest interface{}, base sq.SelectBuilder, columns []string, orderBy []string, offset, limit int) (int, error) {
	countQuery, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}
	var total int
	if err := db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return 0, err
	}
	if total == 0 || offset >= total {
		return total, nil
	}

	pageQuery, pageArgs, err := base.Columns(columns...).
		OrderBy(orderBy...).
		Offset(uint64(offset)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build page query: %w", err)
	}
	if err := db.SelectContext(ctx, dest, pageQuery, pageArgs...); err != nil {
		return 0, err
	}
	return total, nil
}

// WithTx executes fn inside a transaction when db is *sqlx.DB.
// If db is already a *sqlx.Tx, fn is executed directly.
func WithTx(ctx context.Context, db DBTX, fn func(DBTX) error) error {
	if db == nil {
		return catalog_errors.ErrNotInitialized
	}
	if tx, ok := db.(*sqlx.Tx); ok {
		return fn(tx)
	}
	sqlDB, ok := db.(*sqlx.DB)
	if !ok {
		return fn(db)
	}
	tx, err := sqlDB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx error: %v (rollback error: %w)", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}
