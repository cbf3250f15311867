package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vendly/stockcore-api/internal/application/analytics"
	"github.com/vendly/stockcore-api/internal/application/ledger"
	"github.com/vendly/stockcore-api/internal/domain"
	"github.com/vendly/stockcore-api/internal/domain/repository"
)

// maxConflictRetries reintentos internos ante conflicto de serialización
// antes de devolver ErrConflict al caller.
const maxConflictRetries = 3

var _ ledger.TxRunner = (*TxRunner)(nil)
var _ analytics.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Conflictos de serialización (40001) y deadlocks (40P01)
// se reintentan hasta maxConflictRetries veces; agotados los reintentos se
// devuelve ErrConflict.
func (r *TxRunner) Run(ctx context.Context, fn func(
	products repository.ProductRepository,
	movements repository.MovementRepository,
) error) error {
	var err error
	for attempt := 0; attempt <= maxConflictRetries; attempt++ {
		err = r.runOnce(ctx, fn)
		if err == nil || !isRetryableConflict(err) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrConflict, err)
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(
	products repository.ProductRepository,
	movements repository.MovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	products := NewProductRepository(tx)
	movements := NewMovementRepository(tx)

	if err := fn(products, movements); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// isRetryableConflict verifica serialization_failure (40001) o
// deadlock_detected (40P01).
func isRetryableConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
