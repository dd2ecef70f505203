package entity

import "time"

// SerialStatus estado de una unidad serializada.
type SerialStatus string

const (
	SerialInStock   SerialStatus = "in_stock"
	SerialInTransit SerialStatus = "in_transit"
	SerialSold      SerialStatus = "sold"
	SerialLost      SerialStatus = "lost" // enviada pero no recibida en destino
)

// ProductSerialNumber una unidad física con seguimiento individual.
// Status y LocationID deben coincidir con el snapshot que la incluye.
type ProductSerialNumber struct {
	ID                string
	BusinessID        string
	ProductID         string
	VariationID       string
	Serial            string
	Status            SerialStatus
	LocationID        string
	CurrentTransferID string
	UpdatedAt         time.Time
}
