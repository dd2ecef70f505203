package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de asiento del libro de inventario.
type StockTransactionType string

const (
	StockTxOpeningStock   StockTransactionType = "opening_stock"
	StockTxPurchase       StockTransactionType = "purchase"
	StockTxSale           StockTransactionType = "sale"
	StockTxAdjustment     StockTransactionType = "adjustment"
	StockTxTransferOut    StockTransactionType = "transfer_out"
	StockTxTransferIn     StockTransactionType = "transfer_in"
	StockTxTransferCancel StockTransactionType = "transfer_cancel"
	StockTxCorrection     StockTransactionType = "correction"
)

var validStockTransactionTypes = []StockTransactionType{
	StockTxOpeningStock,
	StockTxPurchase,
	StockTxSale,
	StockTxAdjustment,
	StockTxTransferOut,
	StockTxTransferIn,
	StockTxTransferCancel,
	StockTxCorrection,
}

// IsValid indica si el tipo es uno de los tipos canónicos del libro.
func (t StockTransactionType) IsValid() bool {
	for _, candidate := range validStockTransactionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// Tipos de referencia usados en los asientos.
const (
	RefTypeStockTransfer       = "stock_transfer"
	RefTypeInventoryCorrection = "inventory_correction"
	RefTypeManual              = "manual"
)

// StockTransaction asiento inmutable del libro de inventario.
// Balance es el saldo resultante en la sucursal después de aplicar Quantity (desnormalizado).
type StockTransaction struct {
	ID            string
	BusinessID    string
	ProductID     string
	VariationID   string
	LocationID    string
	Type          StockTransactionType
	Quantity      decimal.Decimal // con signo
	Balance       decimal.Decimal
	ReferenceType string
	ReferenceID   string
	CreatedBy     string
	CreatedAt     time.Time
}
