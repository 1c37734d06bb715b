package accounting_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jhoicas/refineria-api/internal/application/batch"
	"github.com/jhoicas/refineria-api/internal/infrastructure/accounting"
	"github.com/jhoicas/refineria-api/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestNewMessage(t *testing.T) {
	ev := batch.BatchEvent{
		BatchID:     "b-1",
		BatchNumber: "161026-001",
		Action:      batch.ActionCompleted,
		Status:      "completed",
		Postings:    4,
		OccurredAt:  time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC),
		Actor:       "operador",
	}
	msg, err := accounting.NewMessage(ev)
	require.NoError(t, err)

	assert.Equal(t, "b-1", msg.OrderingKey)
	assert.Equal(t, map[string]string{
		"action":   "completed",
		"batch_id": "b-1",
		"status":   "completed",
		"postings": "4",
	}, msg.Attributes)

	var body batch.BatchEvent
	require.NoError(t, json.Unmarshal(msg.Data, &body))
	assert.Equal(t, ev, body)
}

func TestPublish_ServidorInalcanzableRespetaElTimeout(t *testing.T) {
	cfg := config.PubSubConfig{
		ProjectID:       "refineria-test",
		AccountingTopic: "contabilidad",
		PublishTimeout:  200 * time.Millisecond,
	}
	pub, err := accounting.NewAccountingPublisher(context.Background(), cfg,
		option.WithEndpoint("127.0.0.1:1"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pub.Close() })

	start := time.Now()
	err = pub.Publish(context.Background(), batch.BatchEvent{BatchID: "b-1", Action: batch.ActionCompleted})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "b-1")
	assert.Less(t, time.Since(start), 5*time.Second)
}
