package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/refineria-api/internal/application/batch"
	"github.com/jhoicas/refineria-api/internal/application/dto"
	"github.com/jhoicas/refineria-api/internal/application/inventory"
	"github.com/jhoicas/refineria-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/refineria-api/internal/interfaces/http"
)

var fixedNow = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

// missingID UUID bien formado que no corresponde a ningún registro.
const missingID = "6f1c2d3e-4b5a-4c7d-8e9f-0a1b2c3d4e5f"

// buildTestApp construye la aplicación Fiber completa sobre el almacenamiento en memoria.
func buildTestApp() *fiber.App {
	store := memory.NewStore()
	repos := store.Repos()
	now := func() time.Time { return fixedNow }
	ledger := inventory.NewLedger(now, "")
	dispatcher := inventory.NewDispatcher(nil, nil)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ServiceName: "refineria-api-test",
		InventoryUC: inventory.NewUseCase(inventory.Deps{
			TxRunner:     store,
			Items:        repos.Items,
			Transactions: repos.Transactions,
			Ledger:       ledger,
			Dispatcher:   dispatcher,
			Now:          now,
		}),
		BatchUC: batch.NewUseCase(batch.Deps{
			TxRunner:   store,
			Batches:    repos.Batches,
			Processes:  repos.Processes,
			Ledger:     ledger,
			Dispatcher: dispatcher,
			Now:        now,
		}),
	})
	return app
}

// doJSON lanza la petición y devuelve la respuesta con su cuerpo leído.
func doJSON(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apphttp.HeaderActor, "operador@refineria")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func createItem(t *testing.T, app *fiber.App, name, typ, qty string) dto.ItemResponse {
	t.Helper()
	body := `{"name":"` + name + `","type":"` + typ + `","unit":"kg","quantity":"` + qty + `","sn_content":"0"}`
	resp, raw := doJSON(t, app, http.MethodPost, "/api/inventory/items", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var out dto.ItemResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func getItem(t *testing.T, app *fiber.App, id string) dto.ItemResponse {
	t.Helper()
	resp, raw := doJSON(t, app, http.MethodGet, "/api/inventory/items/"+id, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var out dto.ItemResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func decodeError(t *testing.T, raw []byte) dto.ErrorResponse {
	t.Helper()
	var out dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestHealth(t *testing.T) {
	app := buildTestApp()
	resp, raw := doJSON(t, app, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `"status":"ok"`)
}

func TestInventario_CrearYConsultarArticulo(t *testing.T) {
	app := buildTestApp()
	item := createItem(t, app, "Casiterita Mina Norte", "cassiterite", "1000")
	assert.True(t, item.Quantity.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, "active", item.Status)

	got := getItem(t, app, item.ID)
	assert.Equal(t, item.Name, got.Name)

	resp, raw := doJSON(t, app, http.MethodGet, "/api/inventory/transactions?inventory_item_id="+item.ID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var txs []dto.TransactionResponse
	require.NoError(t, json.Unmarshal(raw, &txs))
	require.Len(t, txs, 1, "la cantidad inicial se registra como un ajuste")
	assert.Equal(t, "adjustment", txs[0].Type)
	assert.Equal(t, "operador@refineria", txs[0].CreatedBy)
}

func TestInventario_ValidacionDevuelve422ConCampos(t *testing.T) {
	app := buildTestApp()
	resp, raw := doJSON(t, app, http.MethodPost, "/api/inventory/items", `{"name":"X","type":"gold","unit":"kg"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	e := decodeError(t, raw)
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Contains(t, e.Fields, "type")
}

func TestInventario_CuerpoInvalido_Retorna400(t *testing.T) {
	app := buildTestApp()
	resp, raw := doJSON(t, app, http.MethodPost, "/api/inventory/adjustments", `{"quantity":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", decodeError(t, raw).Code)
}

func TestInventario_ArticuloInexistente_Retorna404(t *testing.T) {
	app := buildTestApp()
	resp, _ := doJSON(t, app, http.MethodGet, "/api/inventory/items/no-existe", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, raw := doJSON(t, app, http.MethodPost, "/api/inventory/adjustments", `{"inventory_item_id":"`+missingID+`","quantity":"5"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "ITEM_NOT_FOUND", decodeError(t, raw).Code)
}

func TestInventario_IDQueNoEsUUID_NoEsReintentable(t *testing.T) {
	app := buildTestApp()

	resp, raw := doJSON(t, app, http.MethodPost, "/api/inventory/adjustments", `{"inventory_item_id":"abc","quantity":"5"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	e := decodeError(t, raw)
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Equal(t, "debe ser un UUID válido", e.Fields["inventory_item_id"])

	resp, raw = doJSON(t, app, http.MethodGet, "/api/inventory/transactions?inventory_item_id=abc", "")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, decodeError(t, raw).Fields, "inventory_item_id")

	resp, raw = doJSON(t, app, http.MethodPost, "/api/inventory/transactions/abc/reverse", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeError(t, raw).Code)

	resp, _ = doJSON(t, app, http.MethodPut, "/api/batches/abc/status", `{"status":"completed"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestInventario_AjusteConMasDeCuatroDecimales_Retorna422(t *testing.T) {
	app := buildTestApp()
	item := createItem(t, app, "Escoria", "slag", "10")

	resp, raw := doJSON(t, app, http.MethodPost, "/api/inventory/adjustments",
		`{"inventory_item_id":"`+item.ID+`","quantity":"0.00004"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, decodeError(t, raw).Fields, "quantity")
	assert.True(t, getItem(t, app, item.ID).Quantity.Equal(decimal.NewFromInt(10)))
}

func TestInventario_AjusteQueDejaNegativo_Retorna409(t *testing.T) {
	app := buildTestApp()
	item := createItem(t, app, "Escoria", "slag", "10")

	resp, raw := doJSON(t, app, http.MethodPost, "/api/inventory/adjustments",
		`{"inventory_item_id":"`+item.ID+`","quantity":"-11"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_QUANTITY", decodeError(t, raw).Code)
	assert.True(t, getItem(t, app, item.ID).Quantity.Equal(decimal.NewFromInt(10)))
}

func TestInventario_RevertirAjusteDosVeces_Retorna409(t *testing.T) {
	app := buildTestApp()
	item := createItem(t, app, "Lingote", "ingot", "100")

	resp, raw := doJSON(t, app, http.MethodPost, "/api/inventory/adjustments",
		`{"inventory_item_id":"`+item.ID+`","quantity":"50","notes":"conteo físico"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var adj dto.TransactionResponse
	require.NoError(t, json.Unmarshal(raw, &adj))

	resp, raw = doJSON(t, app, http.MethodPost, "/api/inventory/transactions/"+adj.ID+"/reverse", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var rev dto.TransactionResponse
	require.NoError(t, json.Unmarshal(raw, &rev))
	assert.Equal(t, "reversal", rev.Type)
	assert.Equal(t, adj.ID, rev.ReversesTransactionID)
	assert.True(t, rev.Quantity.Equal(decimal.NewFromInt(-50)))

	resp, raw = doJSON(t, app, http.MethodPost, "/api/inventory/transactions/"+adj.ID+"/reverse", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "ALREADY_REVERSED", decodeError(t, raw).Code)
	assert.True(t, getItem(t, app, item.ID).Quantity.Equal(decimal.NewFromInt(100)))
}

func TestInventario_EditarNotasYArchivar(t *testing.T) {
	app := buildTestApp()
	item := createItem(t, app, "Estaño fino", "finished_tin", "5")

	_, raw := doJSON(t, app, http.MethodGet, "/api/inventory/transactions?inventory_item_id="+item.ID, "")
	var txs []dto.TransactionResponse
	require.NoError(t, json.Unmarshal(raw, &txs))
	require.Len(t, txs, 1)

	resp, raw := doJSON(t, app, http.MethodPut, "/api/inventory/transactions/"+txs[0].ID+"/notes", `{"notes":"revisado"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Contains(t, string(raw), `"notes":"revisado"`)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/inventory/items/"+item.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "archived", getItem(t, app, item.ID).Status)

	resp, raw = doJSON(t, app, http.MethodGet, "/api/inventory/items/"+item.ID+"/verify", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var ver dto.ItemVerificationResponse
	require.NoError(t, json.Unmarshal(raw, &ver))
	assert.True(t, ver.Consistent)
}

func batchBody(number, status, inputID, outputID string) string {
	return `{"batch_number":"` + number + `","date":"2026-10-16","status":"` + status + `","processes":[` +
		`{"process_number":1,"processing_type":"kaldo_furnace",` +
		`"input_tin_kilos":"60","input_tin_sn_content":"70.5","input_tin_inventory_item_id":"` + inputID + `",` +
		`"output_tin_kilos":"41","output_tin_sn_content":"99.9","output_tin_inventory_item_id":"` + outputID + `"}]}`
}

func TestLotes_CicloCompleto(t *testing.T) {
	app := buildTestApp()
	cas := createItem(t, app, "Casiterita", "cassiterite", "1000")
	tin := createItem(t, app, "Estaño refinado", "finished_tin", "0")

	resp, raw := doJSON(t, app, http.MethodGet, "/api/batches/next-number", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var next dto.NextNumberResponse
	require.NoError(t, json.Unmarshal(raw, &next))
	assert.Equal(t, 1, next.NextNumber)
	assert.Equal(t, "161026-001", next.BatchNumber)

	resp, raw = doJSON(t, app, http.MethodPost, "/api/batches", batchBody(next.BatchNumber, "completed", cas.ID, tin.ID))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var b dto.BatchResponse
	require.NoError(t, json.Unmarshal(raw, &b))
	require.Len(t, b.Processes, 1)
	assert.Equal(t, "2026-10-16", b.Date)

	assert.True(t, getItem(t, app, cas.ID).Quantity.Equal(decimal.NewFromInt(940)))
	assert.True(t, getItem(t, app, tin.ID).Quantity.Equal(decimal.NewFromInt(41)))

	resp, raw = doJSON(t, app, http.MethodGet, "/api/batches/next-number", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &next))
	assert.Equal(t, "161026-002", next.BatchNumber)

	resp, raw = doJSON(t, app, http.MethodPut, "/api/batches/"+b.ID+"/status", `{"status":"in_progress"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.True(t, getItem(t, app, cas.ID).Quantity.Equal(decimal.NewFromInt(1000)))
	assert.True(t, getItem(t, app, tin.ID).Quantity.IsZero())

	resp, raw = doJSON(t, app, http.MethodGet, "/api/batches?status=in_progress", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []dto.BatchResponse
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/batches/"+b.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = doJSON(t, app, http.MethodGet, "/api/batches/"+b.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLotes_NumeroDuplicado_Retorna409(t *testing.T) {
	app := buildTestApp()
	cas := createItem(t, app, "Casiterita", "cassiterite", "1000")
	tin := createItem(t, app, "Estaño refinado", "finished_tin", "0")

	resp, raw := doJSON(t, app, http.MethodPost, "/api/batches", batchBody("161026-001", "in_progress", cas.ID, tin.ID))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	resp, raw = doJSON(t, app, http.MethodPost, "/api/batches", batchBody("161026-001", "in_progress", cas.ID, tin.ID))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	e := decodeError(t, raw)
	assert.Equal(t, "DUPLICATE_BATCH_NUMBER", e.Code)
	assert.Contains(t, e.Fields, "batch_number")
}

func TestLotes_CompletarSinExistencia_Retorna409YNoMueveInventario(t *testing.T) {
	app := buildTestApp()
	cas := createItem(t, app, "Casiterita", "cassiterite", "10")
	tin := createItem(t, app, "Estaño refinado", "finished_tin", "0")

	resp, raw := doJSON(t, app, http.MethodPost, "/api/batches", batchBody("161026-001", "completed", cas.ID, tin.ID))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_QUANTITY", decodeError(t, raw).Code)

	assert.True(t, getItem(t, app, cas.ID).Quantity.Equal(decimal.NewFromInt(10)))
	assert.True(t, getItem(t, app, tin.ID).Quantity.IsZero())

	resp, raw = doJSON(t, app, http.MethodGet, "/api/batches", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestLotes_ReferenciaDeArticuloInvalida_Retorna422(t *testing.T) {
	app := buildTestApp()
	tin := createItem(t, app, "Estaño refinado", "finished_tin", "0")

	tests := []struct {
		name string
		ref  string
		msg  string
	}{
		{"no es UUID", "no-existe", "debe ser un UUID válido"},
		{"UUID sin artículo", missingID, "el artículo de inventario no existe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, raw := doJSON(t, app, http.MethodPost, "/api/batches", batchBody("161026-001", "completed", tt.ref, tin.ID))
			assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
			assert.Equal(t, tt.msg, decodeError(t, raw).Fields["processes[0].input_tin_inventory_item_id"])
		})
	}
}

func TestLotes_KilosConMasDeCuatroDecimales_Retorna422(t *testing.T) {
	app := buildTestApp()
	cas := createItem(t, app, "Casiterita", "cassiterite", "1000")
	tin := createItem(t, app, "Estaño refinado", "finished_tin", "0")

	body := strings.Replace(batchBody("161026-001", "completed", cas.ID, tin.ID), `"output_tin_kilos":"41"`, `"output_tin_kilos":"0.00004"`, 1)
	resp, raw := doJSON(t, app, http.MethodPost, "/api/batches", body)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "admite como máximo 4 decimales", decodeError(t, raw).Fields["processes[0].output_tin_kilos"])
	assert.True(t, getItem(t, app, cas.ID).Quantity.Equal(decimal.NewFromInt(1000)))
}

func TestProcesos_ListarYObtener(t *testing.T) {
	app := buildTestApp()
	cas := createItem(t, app, "Casiterita", "cassiterite", "1000")
	tin := createItem(t, app, "Estaño refinado", "finished_tin", "0")
	resp, raw := doJSON(t, app, http.MethodPost, "/api/batches", batchBody("161026-001", "in_progress", cas.ID, tin.ID))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var b dto.BatchResponse
	require.NoError(t, json.Unmarshal(raw, &b))

	resp, raw = doJSON(t, app, http.MethodGet, "/api/processes?batch_id="+b.ID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var list []dto.ProcessResponse
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list, 1)
	assert.Equal(t, b.Processes[0].ID, list[0].ID)
	assert.Equal(t, b.ID, list[0].BatchID)

	resp, raw = doJSON(t, app, http.MethodGet, "/api/processes/"+list[0].ID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var p dto.ProcessResponse
	require.NoError(t, json.Unmarshal(raw, &p))
	assert.Equal(t, "kaldo_furnace", p.ProcessingType)

	resp, raw = doJSON(t, app, http.MethodGet, "/api/processes?processing_type=refining_kettle", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "[]", string(raw))

	resp, _ = doJSON(t, app, http.MethodGet, "/api/processes/"+missingID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = doJSON(t, app, http.MethodGet, "/api/processes/abc", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, raw = doJSON(t, app, http.MethodGet, "/api/processes?batch_id=abc", "")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "debe ser un UUID válido", decodeError(t, raw).Fields["batch_id"])
}
