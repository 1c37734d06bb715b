package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/refineria-api/internal/application/inventory"
	goredis "github.com/redis/go-redis/v9"
)

var _ inventory.EventSink = (*EventPublisher)(nil)

// EventPublisher publica los eventos del ledger con PUBLISH en un canal.
type EventPublisher struct {
	rdb     *goredis.Client
	channel string
}

// NewEventPublisher construye el publicador.
func NewEventPublisher(rdb *goredis.Client, channel string) *EventPublisher {
	return &EventPublisher{rdb: rdb, channel: channel}
}

// EncodeEvents serializa cada evento como JSON.
func EncodeEvents(events []inventory.Event) ([][]byte, error) {
	out := make([][]byte, 0, len(events))
	for _, ev := range events {
		b, err := json.Marshal(ev)
		if err != nil {
			return nil, fmt.Errorf("encode event %s: %w", ev.Name, err)
		}
		out = append(out, b)
	}
	return out, nil
}

// Publish envía todos los eventos en un pipeline.
func (p *EventPublisher) Publish(ctx context.Context, events []inventory.Event) error {
	if len(events) == 0 {
		return nil
	}
	payloads, err := EncodeEvents(events)
	if err != nil {
		return err
	}
	pipe := p.rdb.Pipeline()
	for _, payload := range payloads {
		pipe.Publish(ctx, p.channel, payload)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish %d events to %s: %w", len(payloads), p.channel, err)
	}
	return nil
}
