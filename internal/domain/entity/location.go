package entity

import "time"

// Location representa una sucursal o bodega donde se almacena inventario (multi-sucursal).
type Location struct {
	ID         string
	BusinessID string
	Name       string
	Address    string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ProductVariation una variación vendible (SKU) de un producto.
// TracksSerials indica que cada unidad se sigue con número de serie.
type ProductVariation struct {
	ID            string
	BusinessID    string
	ProductID     string
	SKU           string
	Name          string
	TracksSerials bool
}
