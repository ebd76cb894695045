package postgres

import (
	"context"

	"github.com/geocoder89/sewasanjal/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type base struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func (b base) observe(op string, fn func() error) error {
	if b.prom != nil {
		return b.prom.ObserveDB(op, fn)
	}
	return fn()
}

// inTx runs fn inside a transaction; any error rolls everything back.
func (b base) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := b.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}

	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
