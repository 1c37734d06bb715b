package redis_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jhoicas/refineria-api/internal/application/inventory"
	"github.com/jhoicas/refineria-api/internal/infrastructure/redis"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockKey(t *testing.T) {
	assert.Equal(t, "refineria:lock:batch:abc", redis.LockKey("batch:abc"))
}

func TestEncodeEvents(t *testing.T) {
	at := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	payloads, err := redis.EncodeEvents([]inventory.Event{
		{
			Name:            inventory.EventQuantityChanged,
			InventoryItemID: "item-1",
			TransactionID:   "tx-1",
			Quantity:        decimal.RequireFromString("-100"),
			OldQuantity:     decimal.RequireFromString("1000"),
			NewQuantity:     decimal.RequireFromString("900"),
			OccurredAt:      at,
		},
	})
	require.NoError(t, err)
	require.Len(t, payloads, 1)

	var got map[string]any
	require.NoError(t, json.Unmarshal(payloads[0], &got))
	assert.Equal(t, "item.quantity_changed", got["name"])
	assert.Equal(t, "item-1", got["inventory_item_id"])
	assert.Equal(t, "900", got["new_quantity"])
	assert.NotContains(t, got, "reference_type", "los campos vacíos se omiten")
}

func TestEncodeEvents_Vacio(t *testing.T) {
	payloads, err := redis.EncodeEvents(nil)
	require.NoError(t, err)
	assert.Empty(t, payloads)
}
