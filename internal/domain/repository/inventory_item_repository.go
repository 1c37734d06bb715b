package repository

import (
	"context"

	"github.com/jhoicas/refineria-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ItemFilter filtros para listar artículos de inventario.
type ItemFilter struct {
	Type   string
	Status string
	Limit  int
	Offset int
}

// InventoryItemRepository define el puerto de persistencia para InventoryItem.
// GetByID y GetForUpdate devuelven (nil, nil) si el artículo no existe.
type InventoryItemRepository interface {
	Create(ctx context.Context, item *entity.InventoryItem) error
	GetByID(ctx context.Context, id string) (*entity.InventoryItem, error)
	// GetForUpdate bloquea la fila del artículo hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error)
	List(ctx context.Context, filter ItemFilter) ([]*entity.InventoryItem, error)
	// Update persiste los campos descriptivos; nunca toca quantity.
	Update(ctx context.Context, item *entity.InventoryItem) error
	// UpdateQuantity fija la cantidad. Solo el ledger lo invoca.
	UpdateQuantity(ctx context.Context, id string, quantity decimal.Decimal) error
}
