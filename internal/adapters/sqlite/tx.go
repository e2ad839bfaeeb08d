package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// txKey carries the store-lock transaction through a context.
type txKey struct{}

// queryer is the subset of *sql.DB and *sql.Tx the repositories use.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conn returns the transaction carried by ctx, or db when there is none.
// Inside WithinLock every query must go through conn: the lock holds the only connection.
func conn(ctx context.Context, db *sql.DB) queryer {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}

// inTx runs fn all-or-nothing. Under a store lock it uses a savepoint of the
// lock's transaction, otherwise a transaction of its own.
func inTx(ctx context.Context, db *sql.DB, fn func(q queryer) error) error {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		if _, err := tx.ExecContext(ctx, "SAVEPOINT repo_write"); err != nil {
			return fmt.Errorf("failed to open savepoint: %w", err)
		}
		if err := fn(tx); err != nil {
			_, _ = tx.ExecContext(ctx, "ROLLBACK TO repo_write")
			_, _ = tx.ExecContext(ctx, "RELEASE repo_write")
			return err
		}
		if _, err := tx.ExecContext(ctx, "RELEASE repo_write"); err != nil {
			return fmt.Errorf("failed to release savepoint: %w", err)
		}
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// withinLock runs fn holding the database write lock. Databases opened with
// db.Open begin transactions IMMEDIATE, so concurrent lockers in other
// processes wait on the busy timeout. Whatever fn wrote is committed even
// when fn fails; writes that must be all-or-nothing use inTx.
func withinLock(ctx context.Context, db *sql.DB, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to acquire store lock: %w", err)
	}
	defer tx.Rollback()

	fnErr := fn(context.WithValue(ctx, txKey{}, tx))
	if err := tx.Commit(); err != nil {
		return errors.Join(fnErr, fmt.Errorf("failed to commit store lock: %w", err))
	}
	return fnErr
}
