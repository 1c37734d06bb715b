// Package events reúne los destinos de los eventos del ledger.
package events

import (
	"context"
	"errors"

	"github.com/jhoicas/refineria-api/internal/application/inventory"
	"github.com/jhoicas/refineria-api/pkg/logger"
)

var (
	_ inventory.EventSink = (*LogSink)(nil)
	_ inventory.EventSink = MultiSink(nil)
)

// LogSink escribe cada evento como una línea de log.
type LogSink struct {
	log *logger.Logger
}

// NewLogSink construye el sink.
func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: log}
}

// Publish nunca falla.
func (s *LogSink) Publish(_ context.Context, events []inventory.Event) error {
	for _, ev := range events {
		e := s.log.Info().
			Str("event", ev.Name).
			Str("item_id", ev.InventoryItemID).
			Str("transaction_id", ev.TransactionID)
		if ev.Name == inventory.EventQuantityChanged {
			e = e.Str("old_quantity", ev.OldQuantity.String()).Str("new_quantity", ev.NewQuantity.String())
		} else {
			e = e.Str("type", ev.TransactionType).Str("quantity", ev.Quantity.String()).
				Str("reference_type", ev.ReferenceType).Str("reference_id", ev.ReferenceID)
		}
		e.Msg("evento de inventario")
	}
	return nil
}

// MultiSink reparte los eventos a varios sinks; entrega a todos aunque alguno falle.
type MultiSink []inventory.EventSink

// Publish devuelve la unión de los errores.
func (m MultiSink) Publish(ctx context.Context, events []inventory.Event) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Publish(ctx, events); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
