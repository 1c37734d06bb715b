package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/refineria-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// Nombres de eventos del ledger.
const (
	EventTransactionCreated  = "transaction.created"
	EventTransactionReversed = "transaction.reversed"
	EventQuantityChanged     = "item.quantity_changed"
)

// Event notificación emitida después del Commit de una contabilización.
type Event struct {
	Name                  string          `json:"name"`
	InventoryItemID       string          `json:"inventory_item_id"`
	TransactionID         string          `json:"transaction_id,omitempty"`
	OriginalTransactionID string          `json:"original_transaction_id,omitempty"`
	TransactionType       string          `json:"transaction_type,omitempty"`
	Quantity              decimal.Decimal `json:"quantity"`
	OldQuantity           decimal.Decimal `json:"old_quantity"`
	NewQuantity           decimal.Decimal `json:"new_quantity"`
	ReferenceType         string          `json:"reference_type,omitempty"`
	ReferenceID           string          `json:"reference_id,omitempty"`
	OccurredAt            time.Time       `json:"occurred_at"`
}

// EventsFor arma los eventos de un conjunto de contabilizaciones: por cada una, el evento de
// transacción (creada o revertida) y el cambio de cantidad del artículo.
func EventsFor(postings []*Posting) []Event {
	events := make([]Event, 0, len(postings)*2)
	for _, p := range postings {
		tx := p.Transaction
		name := EventTransactionCreated
		if tx.IsReversal() {
			name = EventTransactionReversed
		}
		events = append(events,
			Event{
				Name:                  name,
				InventoryItemID:       tx.InventoryItemID,
				TransactionID:         tx.ID,
				OriginalTransactionID: tx.ReversesTransactionID,
				TransactionType:       tx.Type,
				Quantity:              tx.Quantity,
				ReferenceType:         tx.ReferenceType,
				ReferenceID:           tx.ReferenceID,
				OccurredAt:            tx.CreatedAt,
			},
			Event{
				Name:            EventQuantityChanged,
				InventoryItemID: tx.InventoryItemID,
				TransactionID:   tx.ID,
				Quantity:        tx.Quantity,
				OldQuantity:     p.OldQuantity,
				NewQuantity:     p.NewQuantity,
				OccurredAt:      tx.CreatedAt,
			},
		)
	}
	return events
}

// Dispatcher entrega los eventos al sink; los errores solo se registran.
type Dispatcher struct {
	sink EventSink
	log  *logger.Logger
}

// NewDispatcher construye el despachador. sink nil descarta los eventos.
func NewDispatcher(sink EventSink, log *logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.Nop()
	}
	return &Dispatcher{sink: sink, log: log}
}

// Dispatch publica los eventos de postings. Llamar solo después del Commit.
func (d *Dispatcher) Dispatch(ctx context.Context, postings []*Posting) {
	if d == nil || d.sink == nil || len(postings) == 0 {
		return
	}
	if err := d.sink.Publish(ctx, EventsFor(postings)); err != nil {
		d.log.Warn().Err(err).Int("postings", len(postings)).Msg("no se pudieron publicar eventos de inventario")
	}
}
