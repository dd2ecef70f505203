package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/domain/repository"
)

var _ repository.SnapshotRepository = (*SnapshotRepo)(nil)

// SnapshotRepo stock materializado por variación y sucursal (variation_location_details).
type SnapshotRepo struct {
	q Querier
}

// NewSnapshotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSnapshotRepository(q Querier) *SnapshotRepo {
	return &SnapshotRepo{q: q}
}

const snapshotColumns = `business_id, product_id, variation_id, location_id, quantity, selling_price, version, updated_at`

// Get devuelve el snapshot; si la fila no existe, cantidad cero.
func (r *SnapshotRepo) Get(ctx context.Context, key entity.StockKey) (*entity.VariationLocationDetails, error) {
	empty := &entity.VariationLocationDetails{VariationID: key.VariationID, LocationID: key.LocationID, Quantity: decimal.Zero}
	if !isUUID(key.VariationID) || !isUUID(key.LocationID) {
		return empty, nil
	}
	query := `SELECT ` + snapshotColumns + ` FROM variation_location_details WHERE variation_id = $1 AND location_id = $2`
	s, err := scanSnapshot(r.q.QueryRow(ctx, query, key.VariationID, key.LocationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return empty, nil
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return s, nil
}

// GetForUpdate crea la fila en cero si falta y la bloquea (SELECT FOR UPDATE).
func (r *SnapshotRepo) GetForUpdate(ctx context.Context, businessID, productID string, key entity.StockKey) (*entity.VariationLocationDetails, error) {
	insert := `
		INSERT INTO variation_location_details (business_id, product_id, variation_id, location_id, quantity)
		VALUES ($1, $2, $3, $4, 0)
		ON CONFLICT (variation_id, location_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, businessID, productID, key.VariationID, key.LocationID); err != nil {
		return nil, fmt.Errorf("ensure snapshot: %w", err)
	}
	query := `SELECT ` + snapshotColumns + ` FROM variation_location_details WHERE variation_id = $1 AND location_id = $2 FOR UPDATE`
	s, err := scanSnapshot(r.q.QueryRow(ctx, query, key.VariationID, key.LocationID))
	if err != nil {
		return nil, fmt.Errorf("get snapshot for update: %w", err)
	}
	return s, nil
}

// Save escribe la cantidad si la versión no cambió desde la lectura.
func (r *SnapshotRepo) Save(ctx context.Context, s *entity.VariationLocationDetails) error {
	query := `
		UPDATE variation_location_details
		SET quantity = $3, version = version + 1, updated_at = now()
		WHERE variation_id = $1 AND location_id = $2 AND version = $4
		RETURNING version, updated_at`
	err := r.q.QueryRow(ctx, query, s.VariationID, s.LocationID, s.Quantity, s.Version).Scan(&s.Version, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrConcurrencyConflict
		}
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func scanSnapshot(row pgx.Row) (*entity.VariationLocationDetails, error) {
	var s entity.VariationLocationDetails
	err := row.Scan(&s.BusinessID, &s.ProductID, &s.VariationID, &s.LocationID, &s.Quantity, &s.SellingPrice, &s.Version, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
