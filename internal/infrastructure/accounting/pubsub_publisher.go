// Package accounting notifica a contabilidad los cambios de lotes vía Google Cloud Pub/Sub.
package accounting

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/jhoicas/refineria-api/internal/application/batch"
	"github.com/jhoicas/refineria-api/pkg/config"
	"google.golang.org/api/option"
)

var _ batch.AccountingSync = (*AccountingPublisher)(nil)

// AccountingPublisher publica un mensaje por evento de lote en el tópico de contabilidad.
type AccountingPublisher struct {
	client  *pubsub.Client
	topic   *pubsub.Topic
	timeout time.Duration
}

// DefaultPublishTimeout espera máxima por la confirmación cuando la config no la fija.
const DefaultPublishTimeout = 5 * time.Second

// NewAccountingPublisher crea el cliente con PUBSUB_CREDENTIALS_JSON o, si está vacío,
// con las credenciales por defecto de la aplicación. opts se agregan al final (endpoint, emulador).
func NewAccountingPublisher(ctx context.Context, cfg config.PubSubConfig, opts ...option.ClientOption) (*AccountingPublisher, error) {
	timeout := cfg.PublishTimeout
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	if cfg.CredentialsJSON != "" {
		opts = append([]option.ClientOption{option.WithCredentialsJSON([]byte(cfg.CredentialsJSON))}, opts...)
	}
	client, err := pubsub.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("pubsub client (project_id=%s): %w", cfg.ProjectID, err)
	}
	topic := client.Topic(cfg.AccountingTopic)
	// Mismo lote, mismo orden de entrega.
	topic.EnableMessageOrdering = true
	topic.PublishSettings.Timeout = timeout
	return &AccountingPublisher{client: client, topic: topic, timeout: timeout}, nil
}

// NewMessage arma el mensaje: cuerpo JSON, atributos para filtrar y clave de orden por lote.
func NewMessage(ev batch.BatchEvent) (*pubsub.Message, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encode batch event: %w", err)
	}
	return &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"action":   ev.Action,
			"batch_id": ev.BatchID,
			"status":   ev.Status,
			"postings": strconv.Itoa(ev.Postings),
		},
		OrderingKey: ev.BatchID,
	}, nil
}

// Publish publica y espera la confirmación del servidor, como máximo el timeout configurado.
func (p *AccountingPublisher) Publish(ctx context.Context, ev batch.BatchEvent) error {
	msg, err := NewMessage(ev)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if _, err := p.topic.Publish(ctx, msg).Get(ctx); err != nil {
		p.topic.ResumePublish(msg.OrderingKey)
		return fmt.Errorf("publish batch event %s/%s: %w", ev.BatchID, ev.Action, err)
	}
	return nil
}

// Close vacía los mensajes pendientes y cierra el cliente.
func (p *AccountingPublisher) Close() error {
	p.topic.Stop()
	return p.client.Close()
}
