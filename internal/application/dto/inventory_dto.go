package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest body para POST /api/inventory/items.
// Quantity inicial se registra como ajuste en el ledger, nunca se escribe directo.
type CreateItemRequest struct {
	Name        string           `json:"name" validate:"required,max=200"`
	Type        string           `json:"type" validate:"required,oneof=cassiterite ingot finished_tin slag"`
	Description string           `json:"description"`
	Quantity    *decimal.Decimal `json:"quantity" validate:"omitempty,min=0,decimal_places=4"`
	Unit        string           `json:"unit" validate:"required,oneof=kg ton pieces"`
	SnContent   decimal.Decimal  `json:"sn_content" validate:"min=0,max=100,decimal_places=4"`
	Location    string           `json:"location" validate:"max=200"`
}

// UpdateItemRequest campos descriptivos editables (la cantidad solo cambia vía ledger).
type UpdateItemRequest struct {
	Name        *string          `json:"name" validate:"omitempty,max=200"`
	Description *string          `json:"description"`
	SnContent   *decimal.Decimal `json:"sn_content" validate:"omitempty,min=0,max=100,decimal_places=4"`
	Location    *string          `json:"location" validate:"omitempty,max=200"`
}

// ItemListRequest filtros de GET /api/inventory/items.
type ItemListRequest struct {
	PageRequest
	Type   string `query:"type" json:"type" validate:"omitempty,oneof=cassiterite ingot finished_tin slag"`
	Status string `query:"status" json:"status" validate:"omitempty,oneof=active archived"`
}

// ItemResponse artículo de inventario.
type ItemResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	SnContent   decimal.Decimal `json:"sn_content"`
	Location    string          `json:"location"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// AdjustmentRequest body para POST /api/inventory/adjustments. Quantity con signo, distinta de cero.
type AdjustmentRequest struct {
	InventoryItemID string           `json:"inventory_item_id" validate:"required,uuid"`
	Quantity        decimal.Decimal  `json:"quantity" validate:"required,decimal_places=4"`
	UnitPrice       *decimal.Decimal `json:"unit_price" validate:"omitempty,min=0,decimal_places=4"`
	Currency        string           `json:"currency" validate:"omitempty,len=3"`
	Notes           string           `json:"notes"`
}

// UpdateNotesRequest body para PUT /api/inventory/transactions/:id/notes.
type UpdateNotesRequest struct {
	Notes string `json:"notes"`
}

// TransactionListRequest filtros de GET /api/inventory/transactions.
type TransactionListRequest struct {
	PageRequest
	InventoryItemID string `query:"inventory_item_id" json:"inventory_item_id" validate:"omitempty,uuid"`
	Type            string `query:"type" json:"type" validate:"omitempty,oneof=consumption production reversal adjustment"`
	ReferenceType   string `query:"reference_type" json:"reference_type" validate:"omitempty,oneof=batch manual_adjustment transaction_reversal"`
	ReferenceID     string `query:"reference_id" json:"reference_id" validate:"omitempty,uuid"`
	FromDate        string `query:"from_date" json:"from_date" validate:"omitempty,date"`
	ToDate          string `query:"to_date" json:"to_date" validate:"omitempty,date"`
}

// TransactionResponse asiento del ledger.
type TransactionResponse struct {
	ID                    string           `json:"id"`
	InventoryItemID       string           `json:"inventory_item_id"`
	Type                  string           `json:"type"`
	Quantity              decimal.Decimal  `json:"quantity"`
	UnitPrice             *decimal.Decimal `json:"unit_price,omitempty"`
	Currency              string           `json:"currency"`
	ReferenceType         string           `json:"reference_type"`
	ReferenceID           string           `json:"reference_id,omitempty"`
	ReversesTransactionID string           `json:"reverses_transaction_id,omitempty"`
	Notes                 string           `json:"notes"`
	CreatedBy             string           `json:"created_by,omitempty"`
	CreatedAt             time.Time        `json:"created_at"`
}

// ItemVerificationResponse compara la cantidad del artículo con la suma de su ledger.
type ItemVerificationResponse struct {
	InventoryItemID string          `json:"inventory_item_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	LedgerSum       decimal.Decimal `json:"ledger_sum"`
	Consistent      bool            `json:"consistent"`
}
