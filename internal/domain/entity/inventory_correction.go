package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una corrección de inventario.
type CorrectionStatus string

const (
	CorrectionPending  CorrectionStatus = "pending"
	CorrectionApplied  CorrectionStatus = "applied"
	CorrectionRejected CorrectionStatus = "rejected"
)

// InventoryCorrection conteo físico que reconcilia libro y snapshot.
// Difference = PhysicalCount - SystemCount. LedgerCount es la suma del libro antes de aplicar.
type InventoryCorrection struct {
	ID                 string
	BusinessID         string
	ProductID          string
	VariationID        string
	LocationID         string
	SystemCount        decimal.Decimal
	LedgerCount        decimal.Decimal
	PhysicalCount      decimal.Decimal
	Difference         decimal.Decimal
	Reason             string
	Status             CorrectionStatus
	RecurringVariance  bool
	TransferID         string
	RequestedBy        string
	ApprovedBy         string
	StockTransactionID string
	CreatedAt          time.Time
	AppliedAt          *time.Time
}
