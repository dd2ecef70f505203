package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/domain/repository"
)

var _ repository.SerialRepository = (*SerialRepo)(nil)

// SerialRepo unidades serializadas (product_serial_numbers).
type SerialRepo struct {
	q Querier
}

// NewSerialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSerialRepository(q Querier) *SerialRepo {
	return &SerialRepo{q: q}
}

const serialColumns = `id, business_id, product_id, variation_id, serial, status, location_id, current_transfer_id, updated_at`

// Create registra una unidad.
func (r *SerialRepo) Create(ctx context.Context, s *entity.ProductSerialNumber) error {
	query := `INSERT INTO product_serial_numbers (` + serialColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query, s.ID, s.BusinessID, s.ProductID, s.VariationID, s.Serial, string(s.Status),
		nullable(s.LocationID), nullable(s.CurrentTransferID), s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: serial %s ya registrado", domain.ErrInvalidInput, s.Serial)
		}
		return fmt.Errorf("insert serial: %w", err)
	}
	return nil
}

// GetByIDs devuelve las unidades existentes de la empresa; los IDs desconocidos se omiten.
func (r *SerialRepo) GetByIDs(ctx context.Context, businessID string, ids []string) ([]*entity.ProductSerialNumber, error) {
	return r.get(ctx, businessID, ids, "")
}

// GetByIDsForUpdate bloquea las filas en orden de ID para evitar interbloqueos.
func (r *SerialRepo) GetByIDsForUpdate(ctx context.Context, businessID string, ids []string) ([]*entity.ProductSerialNumber, error) {
	return r.get(ctx, businessID, ids, " FOR UPDATE")
}

func (r *SerialRepo) get(ctx context.Context, businessID string, ids []string, lock string) ([]*entity.ProductSerialNumber, error) {
	ids = validIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + serialColumns + ` FROM product_serial_numbers
		WHERE business_id = $1 AND id = ANY($2::uuid[]) ORDER BY id` + lock
	rows, err := r.q.Query(ctx, query, businessID, ids)
	if err != nil {
		return nil, fmt.Errorf("get serials: %w", err)
	}
	defer rows.Close()
	var out []*entity.ProductSerialNumber
	for rows.Next() {
		var (
			s                  entity.ProductSerialNumber
			status             string
			location, transfer *string
		)
		if err := rows.Scan(&s.ID, &s.BusinessID, &s.ProductID, &s.VariationID, &s.Serial, &status,
			&location, &transfer, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan serial: %w", err)
		}
		s.Status = entity.SerialStatus(status)
		s.LocationID = deref(location)
		s.CurrentTransferID = deref(transfer)
		out = append(out, &s)
	}
	return out, rows.Err()
}

// Update persiste estado, ubicación y traslado actual.
func (r *SerialRepo) Update(ctx context.Context, s *entity.ProductSerialNumber) error {
	query := `
		UPDATE product_serial_numbers
		SET status = $3, location_id = $4, current_transfer_id = $5, updated_at = $6
		WHERE business_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query, s.BusinessID, s.ID, string(s.Status), nullable(s.LocationID),
		nullable(s.CurrentTransferID), s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update serial: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
