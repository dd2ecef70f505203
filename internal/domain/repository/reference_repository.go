package repository

import (
	"context"

	"github.com/jhoicas/traslados-api/internal/domain/entity"
)

// LocationRepository lectura de sucursales (datos de referencia).
type LocationRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Location, error)
}

// VariationRepository lectura de variaciones de producto (datos de referencia).
type VariationRepository interface {
	GetByID(ctx context.Context, id string) (*entity.ProductVariation, error)
}

// SODSettingsRepository configuración de segregación de funciones por empresa.
// Get devuelve (nil, nil) si la empresa no tiene configuración propia.
type SODSettingsRepository interface {
	Get(ctx context.Context, businessID string) (*entity.SODSettings, error)
	Upsert(ctx context.Context, settings *entity.SODSettings) error
}
