package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de proceso.
const (
	ProcessingKaldoFurnace   = "kaldo_furnace"
	ProcessingRefiningKettle = "refining_kettle"
)

// Roles de los cuatro movimientos de material de un proceso.
const (
	MaterialInputTin   = "input_tin"
	MaterialInputSlag  = "input_slag"
	MaterialOutputTin  = "output_tin"
	MaterialOutputSlag = "output_slag"
)

// Material es un movimiento de material dentro de un proceso. Todos los campos son opcionales.
type Material struct {
	Kilos           *decimal.Decimal
	SnContent       *decimal.Decimal
	InventoryItemID *string
}

// ItemID devuelve la referencia al artículo o "" si no hay.
func (m Material) ItemID() string {
	if m.InventoryItemID == nil {
		return ""
	}
	return *m.InventoryItemID
}

// KilosOrZero devuelve los kilos o cero si no fueron informados.
func (m Material) KilosOrZero() decimal.Decimal {
	if m.Kilos == nil {
		return decimal.Zero
	}
	return *m.Kilos
}

// SnContentOrZero devuelve el % de estaño o cero.
func (m Material) SnContentOrZero() decimal.Decimal {
	if m.SnContent == nil {
		return decimal.Zero
	}
	return *m.SnContent
}

// MaterialSlot es un movimiento con su rol y el tipo de transacción que genera en el ledger.
type MaterialSlot struct {
	Role            string
	TransactionType string // consumption (entradas) o production (salidas)
	Material
}

// Process representa un paso de horno kaldo o caldera de refinación dentro de un lote.
type Process struct {
	ID             string
	BatchID        string
	ProcessNumber  int
	ProcessingType string
	InputTin       Material
	InputSlag      Material
	OutputTin      Material
	OutputSlag     Material
	Notes          string
	CreatedAt      time.Time
}

// Materials devuelve los cuatro movimientos en orden: entradas (consumo) y luego salidas (producción).
func (p *Process) Materials() []MaterialSlot {
	return []MaterialSlot{
		{Role: MaterialInputTin, TransactionType: TransactionTypeConsumption, Material: p.InputTin},
		{Role: MaterialInputSlag, TransactionType: TransactionTypeConsumption, Material: p.InputSlag},
		{Role: MaterialOutputTin, TransactionType: TransactionTypeProduction, Material: p.OutputTin},
		{Role: MaterialOutputSlag, TransactionType: TransactionTypeProduction, Material: p.OutputSlag},
	}
}
