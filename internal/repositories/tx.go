package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TxFunc runs inside a transaction scope. Every repository call made with
// the given context executes on the same transaction and commits as a unit
// or not at all.
type TxFunc func(ctx context.Context) error

// TxManager scopes repository writes to one database transaction.
// Transactions are kept tight around repository calls and must never span a
// network fetch or download.
//
//go:generate go run go.uber.org/mock/mockgen -source=tx.go -destination=mocks/mock.go
type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

type PgxTxManager struct {
	pool *pgxpool.Pool
}

func NewPgxTxManager(pool *pgxpool.Pool) *PgxTxManager {
	return &PgxTxManager{pool: pool}
}

var _ TxManager = (*PgxTxManager)(nil)

func (m *PgxTxManager) WithinTx(ctx context.Context, fn TxFunc) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(withQuerier(ctx, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type querierKey struct{}

func withQuerier(ctx context.Context, q Querier) context.Context {
	return context.WithValue(ctx, querierKey{}, q)
}

// QuerierFromContext returns the transaction querier installed by
// PgxTxManager.WithinTx, or nil outside a transaction scope. Repositories
// fall back to their pool when no transaction is in flight.
func QuerierFromContext(ctx context.Context) Querier {
	q, _ := ctx.Value(querierKey{}).(Querier)
	return q
}
