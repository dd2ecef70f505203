package ports

import "context"

// AuditEntry registro de auditoría de una operación sobre inventario.
type AuditEntry struct {
	BusinessID string
	Action     string
	EntityType string
	EntityIDs  []string
	ActorID    string
	Metadata   map[string]any
}

// AuditSink puerto de salida para auditoría (best effort, después del commit).
type AuditSink interface {
	Record(ctx context.Context, entry AuditEntry) error
}
