package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción del ledger.
const (
	TransactionTypeConsumption = "consumption" // delta negativo
	TransactionTypeProduction  = "production"  // delta positivo
	TransactionTypeReversal    = "reversal"    // negación exacta de otra transacción
	TransactionTypeAdjustment  = "adjustment"  // ajuste manual, cualquier signo
)

// Tipos de referencia (polimórfica, sin FK).
const (
	ReferenceBatch               = "batch"
	ReferenceManualAdjustment    = "manual_adjustment"
	ReferenceTransactionReversal = "transaction_reversal"
)

// DefaultCurrency moneda usada cuando la transacción no indica otra.
const DefaultCurrency = "USD"

// InventoryTransaction es un asiento inmutable del ledger. Solo Notes puede cambiar después de creado.
type InventoryTransaction struct {
	ID                    string
	InventoryItemID       string
	Type                  string
	Quantity              decimal.Decimal // delta con signo
	UnitPrice             *decimal.Decimal
	Currency              string
	ReferenceType         string
	ReferenceID           string
	ReversesTransactionID string // solo en reversiones
	Notes                 string
	CreatedBy             string
	CreatedAt             time.Time
}

// IsReversal indica si la transacción anula otra.
func (t *InventoryTransaction) IsReversal() bool {
	return t.Type == TransactionTypeReversal
}
