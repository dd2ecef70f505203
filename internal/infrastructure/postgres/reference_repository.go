package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/domain/repository"
)

var (
	_ repository.LocationRepository  = (*LocationRepo)(nil)
	_ repository.VariationRepository = (*VariationRepo)(nil)
)

// LocationRepo lectura de sucursales.
type LocationRepo struct {
	pool *pgxpool.Pool
}

// NewLocationRepository construye el adaptador de sucursales.
func NewLocationRepository(pool *pgxpool.Pool) *LocationRepo {
	return &LocationRepo{pool: pool}
}

// GetByID obtiene una sucursal; (nil, nil) si no existe.
func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	if !isUUID(id) {
		return nil, nil
	}
	query := `
		SELECT id, business_id, name, address, is_active, created_at, updated_at
		FROM locations WHERE id = $1`
	var l entity.Location
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&l.ID, &l.BusinessID, &l.Name, &l.Address, &l.IsActive, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &l, nil
}

// VariationRepo lectura de variaciones de producto.
type VariationRepo struct {
	pool *pgxpool.Pool
}

// NewVariationRepository construye el adaptador de variaciones.
func NewVariationRepository(pool *pgxpool.Pool) *VariationRepo {
	return &VariationRepo{pool: pool}
}

// GetByID obtiene una variación; (nil, nil) si no existe.
func (r *VariationRepo) GetByID(ctx context.Context, id string) (*entity.ProductVariation, error) {
	if !isUUID(id) {
		return nil, nil
	}
	query := `
		SELECT id, business_id, product_id, sku, name, tracks_serials
		FROM product_variations WHERE id = $1`
	var pv entity.ProductVariation
	err := r.pool.QueryRow(ctx, query, id).Scan(&pv.ID, &pv.BusinessID, &pv.ProductID, &pv.SKU, &pv.Name, &pv.TracksSerials)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product variation: %w", err)
	}
	return &pv, nil
}
