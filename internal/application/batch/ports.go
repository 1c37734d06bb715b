package batch

import (
	"context"
	"time"

	"github.com/jhoicas/refineria-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción de BD con los repositorios atados a ella.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repos) error) error
}

// Locker serializa solicitudes concurrentes sobre el mismo lote entre instancias.
// Obtain devuelve domain.ErrLocked si otro proceso tiene el bloqueo.
type Locker interface {
	Obtain(ctx context.Context, key string) (release func(), err error)
}

// Acciones notificadas a contabilidad.
const (
	ActionCompleted = "completed" // el lote entró a completado
	ActionReverted  = "reverted"  // el lote salió de completado
	ActionReposted  = "reposted"  // lote completado editado
	ActionDeleted   = "deleted"   // lote completado eliminado
)

// BatchEvent mensaje para el sistema contable.
type BatchEvent struct {
	BatchID     string    `json:"batch_id"`
	BatchNumber string    `json:"batch_number"`
	Action      string    `json:"action"`
	Status      string    `json:"status"`
	Postings    int       `json:"postings"`
	OccurredAt  time.Time `json:"occurred_at"`
	Actor       string    `json:"actor,omitempty"`
}

// AccountingSync notifica al sistema contable los cambios de lotes con efecto en el ledger.
// Best effort: un error se registra y no deshace la operación.
type AccountingSync interface {
	Publish(ctx context.Context, ev BatchEvent) error
}

// NoopLocker no bloquea nada (sin Redis configurado).
type NoopLocker struct{}

// Obtain siempre concede el bloqueo.
func (NoopLocker) Obtain(context.Context, string) (func(), error) { return func() {}, nil }

// NoopAccountingSync descarta los eventos.
type NoopAccountingSync struct{}

// Publish no hace nada.
func (NoopAccountingSync) Publish(context.Context, BatchEvent) error { return nil }
