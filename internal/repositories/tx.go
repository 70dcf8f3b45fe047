package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is the executor subset shared by *sql.DB and *sql.Tx. Mutating
// repository methods take one explicitly so a service can run several writes
// in a single transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// TxFunc runs inside a transaction; returning an error rolls everything back.
type TxFunc func(ctx context.Context, tx DBTX) error

type TxManager interface {
	RunInTx(ctx context.Context, fn TxFunc) error
}

type sqlTxManager struct {
	db *sql.DB
}

func NewTxManager(db *sql.DB) TxManager {
	return &sqlTxManager{db: db}
}

func (m *sqlTxManager) RunInTx(ctx context.Context, fn TxFunc) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
