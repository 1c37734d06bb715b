package repository

import (
	"context"

	"github.com/jhoicas/refineria-api/internal/domain/entity"
)

// BatchFilter filtros para listar lotes.
type BatchFilter struct {
	Status string
	Limit  int
	Offset int
}

// BatchRepository define el puerto de persistencia para Batch (sin sus procesos).
type BatchRepository interface {
	Create(ctx context.Context, batch *entity.Batch) error
	GetByID(ctx context.Context, id string) (*entity.Batch, error)
	// GetForUpdate bloquea la fila del lote (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Batch, error)
	GetByNumber(ctx context.Context, batchNumber string) (*entity.Batch, error)
	// ListNumbersWithPrefix devuelve los números de lote que empiezan con prefix (ej. "161026-").
	ListNumbersWithPrefix(ctx context.Context, prefix string) ([]string, error)
	List(ctx context.Context, filter BatchFilter) ([]*entity.Batch, error)
	Update(ctx context.Context, batch *entity.Batch) error
	Delete(ctx context.Context, id string) error
}
