package repository

import (
	"context"

	"github.com/jhoicas/refineria-api/internal/domain/entity"
)

// ProcessFilter filtros para listar procesos fuera de su lote.
type ProcessFilter struct {
	BatchID        string
	ProcessingType string
	Limit          int
	Offset         int
}

// ProcessRepository define el puerto de persistencia para Process.
type ProcessRepository interface {
	Create(ctx context.Context, process *entity.Process) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Process, error)
	ListByBatch(ctx context.Context, batchID string) ([]*entity.Process, error)
	// List ordena del más reciente al más antiguo y, dentro del lote, por número de proceso.
	List(ctx context.Context, filter ProcessFilter) ([]*entity.Process, error)
	DeleteByBatch(ctx context.Context, batchID string) error
}
