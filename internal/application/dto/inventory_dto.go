package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/domain/repository"
)

// PostLedgerEntryRequest cuerpo de POST /api/inventory/ledger.
type PostLedgerEntryRequest struct {
	VariationID   string          `json:"variation_id" validate:"required,uuid"`
	LocationID    string          `json:"location_id" validate:"required,uuid"`
	Type          string          `json:"type" validate:"required,oneof=opening_stock purchase sale adjustment"`
	Quantity      decimal.Decimal `json:"quantity" swaggertype:"string" example:"50"`
	ReferenceType string          `json:"reference_type" validate:"max=50"`
	ReferenceID   string          `json:"reference_id" validate:"max=100"`
	// Serials unidades nuevas de un ingreso; SerialIDs unidades existentes de una salida.
	Serials   []string `json:"serials" validate:"omitempty,dive,required,max=100"`
	SerialIDs []string `json:"serial_ids" validate:"omitempty,dive,uuid"`
}

// StockKeyQuery variación + sucursal en la query string.
type StockKeyQuery struct {
	VariationID string `query:"variation_id" validate:"required,uuid"`
	LocationID  string `query:"location_id" validate:"required,uuid"`
}

// LedgerHistoryQuery filtros de GET /api/inventory/ledger.
type LedgerHistoryQuery struct {
	StockKeyQuery
	PageRequest
}

// StockTransactionResponse asiento del libro.
type StockTransactionResponse struct {
	ID            string          `json:"id"`
	VariationID   string          `json:"variation_id"`
	LocationID    string          `json:"location_id"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity" swaggertype:"string"`
	Balance       decimal.Decimal `json:"balance" swaggertype:"string"`
	ReferenceType string          `json:"reference_type,omitempty"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	CreatedBy     string          `json:"created_by,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// NewStockTransactionResponse mapea un asiento.
func NewStockTransactionResponse(tx *entity.StockTransaction) StockTransactionResponse {
	return StockTransactionResponse{
		ID:            tx.ID,
		VariationID:   tx.VariationID,
		LocationID:    tx.LocationID,
		Type:          string(tx.Type),
		Quantity:      tx.Quantity,
		Balance:       tx.Balance,
		ReferenceType: tx.ReferenceType,
		ReferenceID:   tx.ReferenceID,
		CreatedBy:     tx.CreatedBy,
		CreatedAt:     tx.CreatedAt,
	}
}

// StockResponse snapshot de una llave.
type StockResponse struct {
	VariationID string          `json:"variation_id"`
	LocationID  string          `json:"location_id"`
	Quantity    decimal.Decimal `json:"quantity" swaggertype:"string"`
	Version     int64           `json:"version"`
}

// VarianceResponse diferencia entre snapshot y libro.
type VarianceResponse struct {
	ProductID        string          `json:"product_id"`
	VariationID      string          `json:"variation_id"`
	LocationID       string          `json:"location_id"`
	LedgerQuantity   decimal.Decimal `json:"ledger_quantity" swaggertype:"string"`
	SnapshotQuantity decimal.Decimal `json:"snapshot_quantity" swaggertype:"string"`
	Variance         decimal.Decimal `json:"variance" swaggertype:"string"`
}

// NewVarianceResponse mapea una diferencia.
func NewVarianceResponse(v repository.StockVariance) VarianceResponse {
	return VarianceResponse{
		ProductID:        v.ProductID,
		VariationID:      v.VariationID,
		LocationID:       v.LocationID,
		LedgerQuantity:   v.LedgerQuantity,
		SnapshotQuantity: v.SnapshotQuantity,
		Variance:         v.Variance(),
	}
}

// RequestCorrectionRequest cuerpo de POST /api/inventory/corrections.
type RequestCorrectionRequest struct {
	VariationID   string          `json:"variation_id" validate:"required,uuid"`
	LocationID    string          `json:"location_id" validate:"required,uuid"`
	PhysicalCount decimal.Decimal `json:"physical_count" swaggertype:"string" example:"14"`
	Reason        string          `json:"reason" validate:"required,max=500"`
	TransferID    string          `json:"transfer_id" validate:"omitempty,uuid"`
}

// RejectCorrectionRequest cuerpo de POST /api/inventory/corrections/:id/reject.
type RejectCorrectionRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// CorrectionListQuery filtros de GET /api/inventory/corrections.
type CorrectionListQuery struct {
	PageRequest
	Status string `query:"status" validate:"omitempty,oneof=pending applied rejected"`
}

// CorrectionResponse corrección de inventario.
type CorrectionResponse struct {
	ID                 string          `json:"id"`
	VariationID        string          `json:"variation_id"`
	LocationID         string          `json:"location_id"`
	SystemCount        decimal.Decimal `json:"system_count" swaggertype:"string"`
	LedgerCount        decimal.Decimal `json:"ledger_count" swaggertype:"string"`
	PhysicalCount      decimal.Decimal `json:"physical_count" swaggertype:"string"`
	Difference         decimal.Decimal `json:"difference" swaggertype:"string"`
	Reason             string          `json:"reason"`
	Status             string          `json:"status"`
	RecurringVariance  bool            `json:"recurring_variance"`
	TransferID         string          `json:"transfer_id,omitempty"`
	RequestedBy        string          `json:"requested_by"`
	ApprovedBy         string          `json:"approved_by,omitempty"`
	StockTransactionID string          `json:"stock_transaction_id,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	AppliedAt          *time.Time      `json:"applied_at,omitempty"`
}

// NewCorrectionResponse mapea una corrección.
func NewCorrectionResponse(c *entity.InventoryCorrection) CorrectionResponse {
	return CorrectionResponse{
		ID:                 c.ID,
		VariationID:        c.VariationID,
		LocationID:         c.LocationID,
		SystemCount:        c.SystemCount,
		LedgerCount:        c.LedgerCount,
		PhysicalCount:      c.PhysicalCount,
		Difference:         c.Difference,
		Reason:             c.Reason,
		Status:             string(c.Status),
		RecurringVariance:  c.RecurringVariance,
		TransferID:         c.TransferID,
		RequestedBy:        c.RequestedBy,
		ApprovedBy:         c.ApprovedBy,
		StockTransactionID: c.StockTransactionID,
		CreatedAt:          c.CreatedAt,
		AppliedAt:          c.AppliedAt,
	}
}
