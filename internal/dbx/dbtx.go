// Package dbx holds the database handle shared by repositories and the
// transaction helper services use to group repository calls.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is what repositories need from a connection. *sql.DB and *sql.Tx both
// implement it, so a repository bound to a transaction behaves the same.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxFunc is the unit of work run inside a transaction.
type TxFunc func(ctx context.Context, tx DBTX) error

// TxRunner runs fn inside a transaction.
type TxRunner func(ctx context.Context, fn TxFunc) error

// Runner returns a TxRunner over db with default options.
func Runner(db *sql.DB) TxRunner {
	return func(ctx context.Context, fn TxFunc) error {
		return WithTx(ctx, db, nil, fn)
	}
}

// WithTx runs fn in a transaction on db. The transaction commits when fn
// returns nil and rolls back otherwise. A panic in fn rolls back and is
// re-raised.
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//		p, err := repos.Products(tx).Delete(ctx, id)
//		if err != nil {
//			return err
//		}
//		return repos.Assets(tx).Enqueue(ctx, *p.ImagePublicID, "product deleted")
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn TxFunc) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	committed = true
	return tx.Commit()
}
