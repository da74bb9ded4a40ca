// Package service orchestrates the engine packages: each operation opens a
// single pgx transaction, runs the domain flow under the user row lock, and
// commits. Handlers stay thin; engines never own transactions.
package service

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/phantomapp/rewards/internal/domain"
)

// inTx runs fn inside a transaction, committing on success. Rollback on any
// error path is handled by the deferred call; rolling back a committed tx is
// a no-op.
func inTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.ErrInternal("commit tx", err)
	}
	return nil
}
