package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferStatus estado del ciclo de vida de un traslado entre sucursales.
type TransferStatus string

const (
	TransferStatusDraft     TransferStatus = "draft"
	TransferStatusSubmitted TransferStatus = "submitted"
	TransferStatusChecked   TransferStatus = "checked"
	TransferStatusApproved  TransferStatus = "approved"
	TransferStatusSent      TransferStatus = "sent"
	TransferStatusArrived   TransferStatus = "arrived"
	TransferStatusVerifying TransferStatus = "verifying"
	TransferStatusVerified  TransferStatus = "verified"
	TransferStatusCompleted TransferStatus = "completed"
	TransferStatusCancelled TransferStatus = "cancelled"
)

var validTransferStatuses = []TransferStatus{
	TransferStatusDraft,
	TransferStatusSubmitted,
	TransferStatusChecked,
	TransferStatusApproved,
	TransferStatusSent,
	TransferStatusArrived,
	TransferStatusVerifying,
	TransferStatusVerified,
	TransferStatusCompleted,
	TransferStatusCancelled,
}

// IsValid indica si el valor corresponde a un estado conocido.
func (s TransferStatus) IsValid() bool {
	for _, candidate := range validTransferStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal indica si el traslado ya no admite transiciones.
func (s TransferStatus) IsTerminal() bool {
	return s == TransferStatusCompleted || s == TransferStatusCancelled
}

// StockTransfer representa un envío de mercancía de una sucursal (origen) a otra (destino).
// Es dueño de sus ítems; los ítems referencian seriales por ID, nunca por puntero.
type StockTransfer struct {
	ID                    string
	BusinessID            string
	RefNo                 string
	SourceLocationID      string
	DestinationLocationID string
	Status                TransferStatus
	Notes                 string

	CreatedBy   string
	SubmittedBy string
	CheckedBy   string
	ApprovedBy  string
	SentBy      string
	ArrivedBy   string
	VerifiedBy  string
	CompletedBy string
	CancelledBy string

	CreatedAt   time.Time
	UpdatedAt   time.Time
	SubmittedAt *time.Time
	CheckedAt   *time.Time
	ApprovedAt  *time.Time
	SentAt      *time.Time
	ArrivedAt   *time.Time
	VerifyingAt *time.Time
	VerifiedAt  *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time

	StockDeducted  bool
	HasDiscrepancy bool
	CancelReason   string

	Items []*StockTransferItem
}

// ItemByID busca un ítem del traslado.
func (t *StockTransfer) ItemByID(itemID string) *StockTransferItem {
	for _, it := range t.Items {
		if it.ID == itemID {
			return it
		}
	}
	return nil
}

// AllItemsVerified indica si cada ítem ya fue verificado en destino.
func (t *StockTransfer) AllItemsVerified() bool {
	if len(t.Items) == 0 {
		return false
	}
	for _, it := range t.Items {
		if !it.Verified {
			return false
		}
	}
	return true
}

// StockTransferItem una línea del traslado (una por variación de producto).
type StockTransferItem struct {
	ID               string
	TransferID       string
	ProductID        string
	VariationID      string
	Quantity         decimal.Decimal  // cantidad solicitada y descontada en origen
	ReceivedQuantity *decimal.Decimal // nil hasta la verificación
	Verified         bool
	VerifiedBy       string
	VerifiedAt       *time.Time
	HasDiscrepancy   bool
	DiscrepancyNotes string
	SerialsSent      []string
	SerialsReceived  []string
}

// Difference devuelve recibido - enviado (cero si aún no se verifica).
func (i *StockTransferItem) Difference() decimal.Decimal {
	if i.ReceivedQuantity == nil {
		return decimal.Zero
	}
	return i.ReceivedQuantity.Sub(i.Quantity)
}
