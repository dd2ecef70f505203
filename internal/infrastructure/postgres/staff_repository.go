package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/traslados-api/internal/infrastructure/authz"
)

var _ authz.StaffCounter = (*StaffRepo)(nil)

// StaffRepo consultas sobre el personal (tabla users).
type StaffRepo struct {
	pool *pgxpool.Pool
}

// NewStaffRepository construye el adaptador.
func NewStaffRepository(pool *pgxpool.Pool) *StaffRepo {
	return &StaffRepo{pool: pool}
}

// CountByRoles cuenta los usuarios activos de la empresa con alguno de los roles.
func (r *StaffRepo) CountByRoles(ctx context.Context, businessID string, roles []string) (int, error) {
	if len(roles) == 0 {
		return 0, nil
	}
	query := `SELECT COUNT(*) FROM users WHERE company_id = $1 AND status = 'active' AND role = ANY($2)`
	var n int
	if err := r.pool.QueryRow(ctx, query, businessID, roles).Scan(&n); err != nil {
		return 0, fmt.Errorf("count staff by roles: %w", err)
	}
	return n, nil
}

// ListBusinessIDs empresas con stock materializado, en orden estable.
func (r *StaffRepo) ListBusinessIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT business_id::text FROM variation_location_details ORDER BY 1`)
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
