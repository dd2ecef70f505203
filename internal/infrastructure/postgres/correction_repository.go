package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/domain/repository"
)

var _ repository.CorrectionRepository = (*CorrectionRepo)(nil)

// CorrectionRepo correcciones de inventario (inventory_corrections).
type CorrectionRepo struct {
	q Querier
}

// NewCorrectionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCorrectionRepository(q Querier) *CorrectionRepo {
	return &CorrectionRepo{q: q}
}

const correctionColumns = `
	id, business_id, product_id, variation_id, location_id, system_count, ledger_count, physical_count,
	difference, reason, status, recurring_variance, transfer_id, requested_by, approved_by,
	stock_transaction_id, created_at, applied_at`

// Create inserta la corrección.
func (r *CorrectionRepo) Create(ctx context.Context, c *entity.InventoryCorrection) error {
	query := `INSERT INTO inventory_corrections (` + correctionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.BusinessID, c.ProductID, c.VariationID, c.LocationID, c.SystemCount, c.LedgerCount, c.PhysicalCount,
		c.Difference, c.Reason, string(c.Status), c.RecurringVariance, nullable(c.TransferID), c.RequestedBy,
		nullable(c.ApprovedBy), nullable(c.StockTransactionID), c.CreatedAt, c.AppliedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inventory correction: %w", err)
	}
	return nil
}

// GetByID (nil, nil) si no existe en la empresa.
func (r *CorrectionRepo) GetByID(ctx context.Context, businessID, id string) (*entity.InventoryCorrection, error) {
	return r.get(ctx, businessID, id, "")
}

// GetForUpdate bloquea la corrección hasta el fin de la transacción.
func (r *CorrectionRepo) GetForUpdate(ctx context.Context, businessID, id string) (*entity.InventoryCorrection, error) {
	return r.get(ctx, businessID, id, " FOR UPDATE")
}

func (r *CorrectionRepo) get(ctx context.Context, businessID, id, lock string) (*entity.InventoryCorrection, error) {
	if !isUUID(id) {
		return nil, nil
	}
	query := `SELECT ` + correctionColumns + ` FROM inventory_corrections WHERE business_id = $1 AND id = $2` + lock
	c, err := scanCorrection(r.q.QueryRow(ctx, query, businessID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory correction: %w", err)
	}
	return c, nil
}

// Update persiste estado, conteos y resultado de la aprobación.
func (r *CorrectionRepo) Update(ctx context.Context, c *entity.InventoryCorrection) error {
	query := `
		UPDATE inventory_corrections SET
			system_count = $3, ledger_count = $4, difference = $5, reason = $6, status = $7,
			approved_by = $8, stock_transaction_id = $9, applied_at = $10
		WHERE business_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query, c.BusinessID, c.ID, c.SystemCount, c.LedgerCount, c.Difference, c.Reason,
		string(c.Status), nullable(c.ApprovedBy), nullable(c.StockTransactionID), c.AppliedAt)
	if err != nil {
		return fmt.Errorf("update inventory correction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// LastAppliedForKey corrección aplicada más reciente de la llave; nil si no hay.
func (r *CorrectionRepo) LastAppliedForKey(ctx context.Context, key entity.StockKey) (*entity.InventoryCorrection, error) {
	query := `SELECT ` + correctionColumns + ` FROM inventory_corrections
		WHERE variation_id = $1 AND location_id = $2 AND status = 'applied' AND applied_at IS NOT NULL
		ORDER BY applied_at DESC LIMIT 1`
	c, err := scanCorrection(r.q.QueryRow(ctx, query, key.VariationID, key.LocationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("last applied correction: %w", err)
	}
	return c, nil
}

// ListByBusiness correcciones de la empresa, más recientes primero. status vacío = todas.
func (r *CorrectionRepo) ListByBusiness(ctx context.Context, businessID string, status entity.CorrectionStatus, limit, offset int) ([]*entity.InventoryCorrection, error) {
	query := `SELECT ` + correctionColumns + ` FROM inventory_corrections
		WHERE business_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC, id LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, businessID, string(status), limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list inventory corrections: %w", err)
	}
	defer rows.Close()
	var out []*entity.InventoryCorrection
	for rows.Next() {
		c, err := scanCorrection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory correction: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanCorrection(row pgx.Row) (*entity.InventoryCorrection, error) {
	var (
		c                           entity.InventoryCorrection
		status                      string
		transfer, approved, stockTx *string
		appliedAt                   *time.Time
	)
	err := row.Scan(&c.ID, &c.BusinessID, &c.ProductID, &c.VariationID, &c.LocationID, &c.SystemCount,
		&c.LedgerCount, &c.PhysicalCount, &c.Difference, &c.Reason, &status, &c.RecurringVariance,
		&transfer, &c.RequestedBy, &approved, &stockTx, &c.CreatedAt, &appliedAt)
	if err != nil {
		return nil, err
	}
	c.Status = entity.CorrectionStatus(status)
	c.TransferID, c.ApprovedBy, c.StockTransactionID = deref(transfer), deref(approved), deref(stockTx)
	c.AppliedAt = appliedAt
	return &c, nil
}
