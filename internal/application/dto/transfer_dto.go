package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/traslados-api/internal/domain/entity"
)

// TransferItemRequest línea de un traslado en creación o edición.
type TransferItemRequest struct {
	VariationID string          `json:"variation_id" validate:"required,uuid"`
	Quantity    decimal.Decimal `json:"quantity" swaggertype:"string" example:"10"`
	SerialIDs   []string        `json:"serial_ids,omitempty" validate:"omitempty,dive,uuid"`
}

// CreateTransferRequest cuerpo de POST /api/transfers.
type CreateTransferRequest struct {
	SourceLocationID      string                `json:"source_location_id" validate:"required,uuid"`
	DestinationLocationID string                `json:"destination_location_id" validate:"required,uuid,nefield=SourceLocationID"`
	Notes                 string                `json:"notes" validate:"max=500"`
	Items                 []TransferItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateTransferItemsRequest cuerpo de PUT /api/transfers/:id/items.
type UpdateTransferItemsRequest struct {
	Items []TransferItemRequest `json:"items" validate:"required,min=1,dive"`
}

// CancelTransferRequest cuerpo de POST /api/transfers/:id/cancel.
type CancelTransferRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// ReceiptRequest lo recibido en destino para un ítem. Quantity ausente = lo enviado.
type ReceiptRequest struct {
	Quantity *decimal.Decimal `json:"quantity,omitempty" swaggertype:"string" example:"9"`
	Serials  []string         `json:"serials,omitempty" validate:"omitempty,dive,uuid"`
	Notes    string           `json:"notes" validate:"max=500"`
}

// VerifyItemRequest cuerpo de POST /api/transfers/:id/items/:itemId/verify.
type VerifyItemRequest struct {
	ReceiptRequest
}

// VerifyAllRequest cuerpo de POST /api/transfers/:id/verify. Ítems omitidos se reciben completos.
type VerifyAllRequest struct {
	Items map[string]ReceiptRequest `json:"items" validate:"dive,keys,uuid,endkeys"`
}

// TransferListQuery filtros de GET /api/transfers.
type TransferListQuery struct {
	PageRequest
	Status     string `query:"status" validate:"omitempty,oneof=draft submitted checked approved sent arrived verifying verified completed cancelled"`
	LocationID string `query:"location_id" validate:"omitempty,uuid"`
}

// TransferItemResponse ítem de un traslado.
type TransferItemResponse struct {
	ID               string           `json:"id"`
	ProductID        string           `json:"product_id"`
	VariationID      string           `json:"variation_id"`
	Quantity         decimal.Decimal  `json:"quantity" swaggertype:"string"`
	ReceivedQuantity *decimal.Decimal `json:"received_quantity,omitempty" swaggertype:"string"`
	Difference       decimal.Decimal  `json:"difference" swaggertype:"string"`
	Verified         bool             `json:"verified"`
	VerifiedBy       string           `json:"verified_by,omitempty"`
	VerifiedAt       *time.Time       `json:"verified_at,omitempty"`
	HasDiscrepancy   bool             `json:"has_discrepancy"`
	DiscrepancyNotes string           `json:"discrepancy_notes,omitempty"`
	SerialsSent      []string         `json:"serials_sent,omitempty"`
	SerialsReceived  []string         `json:"serials_received,omitempty"`
}

// TransferResponse traslado con sus ítems y la traza de actores.
type TransferResponse struct {
	ID                    string                 `json:"id"`
	RefNo                 string                 `json:"ref_no"`
	SourceLocationID      string                 `json:"source_location_id"`
	DestinationLocationID string                 `json:"destination_location_id"`
	Status                string                 `json:"status"`
	Notes                 string                 `json:"notes,omitempty"`
	CreatedBy             string                 `json:"created_by"`
	SubmittedBy           string                 `json:"submitted_by,omitempty"`
	CheckedBy             string                 `json:"checked_by,omitempty"`
	ApprovedBy            string                 `json:"approved_by,omitempty"`
	SentBy                string                 `json:"sent_by,omitempty"`
	ArrivedBy             string                 `json:"arrived_by,omitempty"`
	VerifiedBy            string                 `json:"verified_by,omitempty"`
	CompletedBy           string                 `json:"completed_by,omitempty"`
	CancelledBy           string                 `json:"cancelled_by,omitempty"`
	CancelReason          string                 `json:"cancel_reason,omitempty"`
	StockDeducted         bool                   `json:"stock_deducted"`
	HasDiscrepancy        bool                   `json:"has_discrepancy"`
	CreatedAt             time.Time              `json:"created_at"`
	UpdatedAt             time.Time              `json:"updated_at"`
	SentAt                *time.Time             `json:"sent_at,omitempty"`
	VerifiedAt            *time.Time             `json:"verified_at,omitempty"`
	CompletedAt           *time.Time             `json:"completed_at,omitempty"`
	CancelledAt           *time.Time             `json:"cancelled_at,omitempty"`
	Items                 []TransferItemResponse `json:"items"`
}

// TransferListResponse página de traslados.
type TransferListResponse struct {
	Items []TransferResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// NewTransferResponse mapea la entidad al cuerpo de respuesta.
func NewTransferResponse(t *entity.StockTransfer) TransferResponse {
	out := TransferResponse{
		ID:                    t.ID,
		RefNo:                 t.RefNo,
		SourceLocationID:      t.SourceLocationID,
		DestinationLocationID: t.DestinationLocationID,
		Status:                string(t.Status),
		Notes:                 t.Notes,
		CreatedBy:             t.CreatedBy,
		SubmittedBy:           t.SubmittedBy,
		CheckedBy:             t.CheckedBy,
		ApprovedBy:            t.ApprovedBy,
		SentBy:                t.SentBy,
		ArrivedBy:             t.ArrivedBy,
		VerifiedBy:            t.VerifiedBy,
		CompletedBy:           t.CompletedBy,
		CancelledBy:           t.CancelledBy,
		CancelReason:          t.CancelReason,
		StockDeducted:         t.StockDeducted,
		HasDiscrepancy:        t.HasDiscrepancy,
		CreatedAt:             t.CreatedAt,
		UpdatedAt:             t.UpdatedAt,
		SentAt:                t.SentAt,
		VerifiedAt:            t.VerifiedAt,
		CompletedAt:           t.CompletedAt,
		CancelledAt:           t.CancelledAt,
		Items:                 make([]TransferItemResponse, 0, len(t.Items)),
	}
	for _, it := range t.Items {
		out.Items = append(out.Items, TransferItemResponse{
			ID:               it.ID,
			ProductID:        it.ProductID,
			VariationID:      it.VariationID,
			Quantity:         it.Quantity,
			ReceivedQuantity: it.ReceivedQuantity,
			Difference:       it.Difference(),
			Verified:         it.Verified,
			VerifiedBy:       it.VerifiedBy,
			VerifiedAt:       it.VerifiedAt,
			HasDiscrepancy:   it.HasDiscrepancy,
			DiscrepancyNotes: it.DiscrepancyNotes,
			SerialsSent:      it.SerialsSent,
			SerialsReceived:  it.SerialsReceived,
		})
	}
	return out
}
