package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/traslados-api/internal/application/inventory"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool        *pgxpool.Pool
	timeout     time.Duration
	lockTimeout time.Duration
}

// NewTxRunner construye el runner con el pool. timeout acota la transacción completa y
// lockTimeout la espera por cada bloqueo de fila (0 = sin límite).
func NewTxRunner(pool *pgxpool.Pool, timeout, lockTimeout time.Duration) *TxRunner {
	return &TxRunner{pool: pool, timeout: timeout, lockTimeout: lockTimeout}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos inventory.Repos) error) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if r.lockTimeout > 0 {
		ms := fmt.Sprintf("%dms", r.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, `SELECT set_config('lock_timeout', $1, true)`, ms); err != nil {
			return fmt.Errorf("set lock_timeout: %w", err)
		}
	}

	if err := fn(ctx, ReposFor(tx)); err != nil {
		return classify(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return classify(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// ReposFor repositorios atados a q (pool para lecturas, tx dentro de Run).
func ReposFor(q Querier) inventory.Repos {
	return inventory.Repos{
		Transfers:   NewTransferRepository(q),
		Snapshots:   NewSnapshotRepository(q),
		Ledger:      NewStockTransactionRepository(q),
		Serials:     NewSerialRepository(q),
		Corrections: NewCorrectionRepository(q),
	}
}

// References lecturas de datos de referencia sobre el pool.
func References(pool *pgxpool.Pool) inventory.References {
	return inventory.References{
		Locations:  NewLocationRepository(pool),
		Variations: NewVariationRepository(pool),
	}
}
