package repository

import (
	"context"

	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SnapshotRepository define el puerto para el stock materializado por variación+sucursal.
// Solo el escritor del libro y el corrector lo modifican, siempre dentro de una transacción.
type SnapshotRepository interface {
	// Get devuelve el snapshot; si no existe devuelve uno con cantidad cero.
	Get(ctx context.Context, key entity.StockKey) (*entity.VariationLocationDetails, error)
	// GetForUpdate crea la fila si no existe y la bloquea (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, businessID, productID string, key entity.StockKey) (*entity.VariationLocationDetails, error)
	// Save escribe cantidad y versión; falla con domain.ErrConcurrencyConflict si la versión cambió.
	Save(ctx context.Context, snapshot *entity.VariationLocationDetails) error
}

// StockVariance diferencia entre la suma del libro y el snapshot para una llave.
type StockVariance struct {
	BusinessID       string
	ProductID        string
	VariationID      string
	LocationID       string
	LedgerQuantity   decimal.Decimal
	SnapshotQuantity decimal.Decimal
}

// Variance devuelve snapshot - libro.
func (v StockVariance) Variance() decimal.Decimal {
	return v.SnapshotQuantity.Sub(v.LedgerQuantity)
}

// StockTransactionRepository define el puerto del libro de inventario (solo inserción).
type StockTransactionRepository interface {
	Create(ctx context.Context, tx *entity.StockTransaction) error
	// SumByKey devuelve la suma de cantidades con signo de la llave.
	SumByKey(ctx context.Context, key entity.StockKey) (decimal.Decimal, error)
	// ListByKey devuelve los asientos en orden de creación.
	ListByKey(ctx context.Context, key entity.StockKey, limit, offset int) ([]*entity.StockTransaction, error)
	ListByReference(ctx context.Context, refType, refID string) ([]*entity.StockTransaction, error)
	// ListVariances devuelve las llaves de la empresa cuyo snapshot difiere de la suma del libro.
	ListVariances(ctx context.Context, businessID string) ([]StockVariance, error)
}

// SerialRepository define el puerto para unidades serializadas.
type SerialRepository interface {
	Create(ctx context.Context, serial *entity.ProductSerialNumber) error
	GetByIDs(ctx context.Context, businessID string, ids []string) ([]*entity.ProductSerialNumber, error)
	// GetByIDsForUpdate bloquea las filas en orden de ID.
	GetByIDsForUpdate(ctx context.Context, businessID string, ids []string) ([]*entity.ProductSerialNumber, error)
	Update(ctx context.Context, serial *entity.ProductSerialNumber) error
}

// CorrectionRepository define el puerto de persistencia para correcciones de inventario.
type CorrectionRepository interface {
	Create(ctx context.Context, c *entity.InventoryCorrection) error
	GetByID(ctx context.Context, businessID, id string) (*entity.InventoryCorrection, error)
	GetForUpdate(ctx context.Context, businessID, id string) (*entity.InventoryCorrection, error)
	Update(ctx context.Context, c *entity.InventoryCorrection) error
	// LastAppliedForKey devuelve la corrección aplicada más reciente de la llave (nil si no hay).
	LastAppliedForKey(ctx context.Context, key entity.StockKey) (*entity.InventoryCorrection, error)
	ListByBusiness(ctx context.Context, businessID string, status entity.CorrectionStatus, limit, offset int) ([]*entity.InventoryCorrection, error)
}
