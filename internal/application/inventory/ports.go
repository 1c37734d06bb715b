package inventory

import (
	"context"

	"github.com/jhoicas/refineria-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback de todo lo escrito; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repos) error) error
}

// EventSink recibe las notificaciones del ledger después del Commit.
// La entrega es best effort: un error aquí nunca deshace una contabilización.
type EventSink interface {
	Publish(ctx context.Context, events []Event) error
}
