package inventory

import (
	"context"

	"github.com/jhoicas/traslados-api/internal/domain/repository"
)

// Repos repositorios atados a una misma unidad de trabajo (pool o transacción).
type Repos struct {
	Transfers   repository.TransferRepository
	Snapshots   repository.SnapshotRepository
	Ledger      repository.StockTransactionRepository
	Serials     repository.SerialRepository
	Corrections repository.CorrectionRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error no queda ningún efecto (rollback completo).
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error
}

// References lecturas de datos de referencia (fuera de la transacción).
type References struct {
	Locations  repository.LocationRepository
	Variations repository.VariationRepository
}
