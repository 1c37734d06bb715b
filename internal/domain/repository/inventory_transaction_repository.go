package repository

import (
	"context"
	"time"

	"github.com/jhoicas/refineria-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// TransactionFilter filtros para listar el ledger.
type TransactionFilter struct {
	ItemID        string
	Type          string
	ReferenceType string
	ReferenceID   string
	From          *time.Time
	To            *time.Time
	Limit         int
	Offset        int
}

// InventoryTransactionRepository define el puerto de persistencia del ledger (solo inserción).
type InventoryTransactionRepository interface {
	Create(ctx context.Context, tx *entity.InventoryTransaction) error
	GetByID(ctx context.Context, id string) (*entity.InventoryTransaction, error)
	// ListOutstandingByReference devuelve los consumos/producciones de la referencia que aún no tienen reversión,
	// en orden de creación.
	ListOutstandingByReference(ctx context.Context, referenceType, referenceID string) ([]*entity.InventoryTransaction, error)
	// GetReversalOf devuelve la reversión de la transacción indicada o (nil, nil).
	GetReversalOf(ctx context.Context, transactionID string) (*entity.InventoryTransaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]*entity.InventoryTransaction, error)
	UpdateNotes(ctx context.Context, id, notes string) error
	// SumByItem suma los deltas de todas las transacciones del artículo.
	SumByItem(ctx context.Context, itemID string) (decimal.Decimal, error)
}
