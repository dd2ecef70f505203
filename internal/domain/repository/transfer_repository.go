package repository

import (
	"context"

	"github.com/jhoicas/traslados-api/internal/domain/entity"
)

// TransferFilter filtros para el listado de traslados (proyección de solo lectura).
type TransferFilter struct {
	BusinessID string
	Status     entity.TransferStatus // vacío = todos
	LocationID string                // origen o destino; vacío = todas
	Limit      int
	Offset     int
}

// TransferRepository define el puerto de persistencia para traslados y sus ítems.
// GetByID y GetForUpdate devuelven (nil, nil) si el traslado no existe en la empresa.
type TransferRepository interface {
	Create(ctx context.Context, transfer *entity.StockTransfer) error
	GetByID(ctx context.Context, businessID, id string) (*entity.StockTransfer, error)
	// GetForUpdate bloquea la cabecera del traslado (SELECT FOR UPDATE) para serializar transiciones.
	GetForUpdate(ctx context.Context, businessID, id string) (*entity.StockTransfer, error)
	// Update persiste la cabecera (estado, actores, fechas, banderas).
	Update(ctx context.Context, transfer *entity.StockTransfer) error
	// ReplaceItems reemplaza por completo los ítems del traslado.
	ReplaceItems(ctx context.Context, transferID string, items []*entity.StockTransferItem) error
	UpdateItem(ctx context.Context, item *entity.StockTransferItem) error
	List(ctx context.Context, filter TransferFilter) ([]*entity.StockTransfer, error)
	// Count ignora Limit y Offset.
	Count(ctx context.Context, filter TransferFilter) (int, error)
}
