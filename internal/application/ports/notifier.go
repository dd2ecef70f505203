package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DiscrepancyItem un ítem con diferencia entre enviado y recibido.
type DiscrepancyItem struct {
	ItemID      string          `json:"item_id"`
	ProductID   string          `json:"product_id"`
	VariationID string          `json:"variation_id"`
	Sent        decimal.Decimal `json:"sent"`
	Received    decimal.Decimal `json:"received"`
	Difference  decimal.Decimal `json:"difference"`
	Notes       string          `json:"notes,omitempty"`
}

// DiscrepancyAlert aviso que se despacha tras confirmar la verificación de un traslado.
type DiscrepancyAlert struct {
	BusinessID            string            `json:"business_id"`
	TransferID            string            `json:"transfer_id"`
	RefNo                 string            `json:"ref_no"`
	SourceLocationID      string            `json:"source_location_id"`
	DestinationLocationID string            `json:"destination_location_id"`
	Items                 []DiscrepancyItem `json:"items"`
	VerifiedBy            string            `json:"verified_by"`
	VerifiedAt            time.Time         `json:"verified_at"`
}

// DiscrepancyNotifier puerto de salida para avisar diferencias (pub/sub, log, correo...).
// Un fallo nunca revierte la operación que lo originó.
type DiscrepancyNotifier interface {
	NotifyDiscrepancy(ctx context.Context, alert DiscrepancyAlert) error
}
