package sql

import (
	"context"
	"database/sql"
)

// dbExecutor is the part of *sql.DB and *sql.Tx the repositories use.
type dbExecutor interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// executorFor prefers the open transaction over the pool.
func executorFor(db *sql.DB, txn *sql.Tx) dbExecutor {
	if txn != nil {
		return txn
	}
	return db
}
