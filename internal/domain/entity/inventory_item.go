package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de material inventariable.
const (
	ItemTypeCassiterite = "cassiterite"
	ItemTypeIngot       = "ingot"
	ItemTypeFinishedTin = "finished_tin"
	ItemTypeSlag        = "slag"
)

// Unidades de medida admitidas.
const (
	UnitKg     = "kg"
	UnitTon    = "ton"
	UnitPieces = "pieces"
)

// Estados de un artículo de inventario.
const (
	ItemStatusActive   = "active"
	ItemStatusArchived = "archived"
)

// InventoryItem representa un material en bodega (casiterita, lingote, estaño terminado o escoria).
// Quantity es derivada del ledger: siempre igual a la suma de los deltas de sus transacciones.
type InventoryItem struct {
	ID          string
	Name        string
	Type        string
	Description string
	Quantity    decimal.Decimal // nunca negativa
	Unit        string
	SnContent   decimal.Decimal // % de estaño (0-100)
	Location    string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsArchived indica si el artículo fue archivado.
func (i *InventoryItem) IsArchived() bool {
	return i.Status == ItemStatusArchived
}
