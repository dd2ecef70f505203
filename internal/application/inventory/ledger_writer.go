package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/traslados-api/internal/application/ports"
	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
)

// LedgerEntry movimiento a registrar en el libro. Quantity lleva signo (+ entra, - sale).
type LedgerEntry struct {
	BusinessID    string
	ProductID     string
	Key           entity.StockKey
	Type          entity.StockTransactionType
	Quantity      decimal.Decimal
	ReferenceType string
	ReferenceID   string
	CreatedBy     string
}

func (e LedgerEntry) validate() error {
	if e.BusinessID == "" || e.ProductID == "" || e.Key.VariationID == "" || e.Key.LocationID == "" {
		return fmt.Errorf("%w: asiento sin empresa, producto o llave", domain.ErrInvalidInput)
	}
	if !e.Type.IsValid() {
		return fmt.Errorf("%w: tipo de asiento %q", domain.ErrInvalidInput, e.Type)
	}
	return nil
}

// LedgerWriter único punto que modifica el snapshot de stock: cada cambio de cantidad
// escribe un asiento en el libro y actualiza el snapshot en la misma transacción.
type LedgerWriter struct {
	metrics ports.Metrics
	now     func() time.Time
}

// NewLedgerWriter construye el escritor del libro.
func NewLedgerWriter(metrics ports.Metrics) *LedgerWriter {
	if metrics == nil {
		metrics = ports.NoopMetrics{}
	}
	return &LedgerWriter{metrics: metrics, now: time.Now}
}

// AppendEntry bloquea (o crea) la fila del snapshot, aplica el delta y escribe el asiento con el saldo.
// Un débito que deje saldo negativo devuelve domain.ErrInsufficientStock y no escribe nada.
func (w *LedgerWriter) AppendEntry(ctx context.Context, repos Repos, e LedgerEntry) (*entity.StockTransaction, error) {
	if err := e.validate(); err != nil {
		return nil, err
	}
	if e.Quantity.IsZero() {
		return nil, fmt.Errorf("%w: asiento con cantidad cero", domain.ErrInvalidInput)
	}
	snap, err := repos.Snapshots.GetForUpdate(ctx, e.BusinessID, e.ProductID, e.Key)
	if err != nil {
		return nil, err
	}
	balance := snap.Quantity.Add(e.Quantity)
	if e.Quantity.IsNegative() && balance.IsNegative() {
		return nil, fmt.Errorf("%w: disponible %s, requerido %s (variación %s, sucursal %s)",
			domain.ErrInsufficientStock, snap.Quantity.String(), e.Quantity.Neg().String(), e.Key.VariationID, e.Key.LocationID)
	}
	return w.post(ctx, repos, snap, e, balance)
}

// Rebase deja el snapshot en target y escribe un único asiento cuyo delta es target - suma del libro,
// de modo que libro, snapshot y conteo físico coinciden después. Solo para correcciones.
// Si libro y snapshot ya valen target no escribe nada y devuelve (nil, nil).
func (w *LedgerWriter) Rebase(ctx context.Context, repos Repos, e LedgerEntry, target decimal.Decimal) (*entity.StockTransaction, error) {
	if err := e.validate(); err != nil {
		return nil, err
	}
	if target.IsNegative() {
		return nil, fmt.Errorf("%w: conteo físico negativo", domain.ErrInvalidInput)
	}
	snap, err := repos.Snapshots.GetForUpdate(ctx, e.BusinessID, e.ProductID, e.Key)
	if err != nil {
		return nil, err
	}
	sum, err := repos.Ledger.SumByKey(ctx, e.Key)
	if err != nil {
		return nil, err
	}
	e.Quantity = target.Sub(sum)
	if e.Quantity.IsZero() && snap.Quantity.Equal(target) {
		return nil, nil
	}
	return w.post(ctx, repos, snap, e, target)
}

func (w *LedgerWriter) post(ctx context.Context, repos Repos, snap *entity.VariationLocationDetails, e LedgerEntry, balance decimal.Decimal) (*entity.StockTransaction, error) {
	now := w.now()
	snap.Quantity = balance
	snap.UpdatedAt = now
	if err := repos.Snapshots.Save(ctx, snap); err != nil {
		return nil, err
	}
	tx := &entity.StockTransaction{
		ID:            uuid.New().String(),
		BusinessID:    e.BusinessID,
		ProductID:     e.ProductID,
		VariationID:   e.Key.VariationID,
		LocationID:    e.Key.LocationID,
		Type:          e.Type,
		Quantity:      e.Quantity,
		Balance:       balance,
		ReferenceType: e.ReferenceType,
		ReferenceID:   e.ReferenceID,
		CreatedBy:     e.CreatedBy,
		CreatedAt:     now,
	}
	if err := repos.Ledger.Create(ctx, tx); err != nil {
		return nil, err
	}
	w.metrics.LedgerEntryPosted(string(e.Type))
	return tx, nil
}
