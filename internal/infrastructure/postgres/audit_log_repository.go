package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/traslados-api/internal/application/ports"
)

var _ ports.AuditSink = (*AuditLogRepo)(nil)

// AuditLogRepo registro de auditoría en audit_logs.
type AuditLogRepo struct {
	pool *pgxpool.Pool
}

// NewAuditLogRepository construye el adaptador de auditoría.
func NewAuditLogRepository(pool *pgxpool.Pool) *AuditLogRepo {
	return &AuditLogRepo{pool: pool}
}

// Record inserta una entrada; metadata se guarda como JSONB.
func (r *AuditLogRepo) Record(ctx context.Context, e ports.AuditEntry) error {
	metadata := e.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	query := `
		INSERT INTO audit_logs (id, business_id, action, entity_type, entity_ids, actor_id, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.pool.Exec(ctx, query, uuid.NewString(), e.BusinessID, e.Action, e.EntityType,
		nonNil(e.EntityIDs), nullable(e.ActorID), metadata, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}
