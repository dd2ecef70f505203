package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// VariationLocationDetails stock disponible de una variación en una sucursal (tabla materializada).
// Debe ser igual a la suma de los asientos del libro para la misma llave.
type VariationLocationDetails struct {
	BusinessID   string
	ProductID    string
	VariationID  string
	LocationID   string
	Quantity     decimal.Decimal
	SellingPrice decimal.Decimal
	Version      int64
	UpdatedAt    time.Time
}

// StockKey identifica una fila del snapshot.
type StockKey struct {
	VariationID string
	LocationID  string
}

// Less ordena llaves de forma determinística (orden de bloqueo).
func (k StockKey) Less(o StockKey) bool {
	if k.VariationID != o.VariationID {
		return k.VariationID < o.VariationID
	}
	return k.LocationID < o.LocationID
}
