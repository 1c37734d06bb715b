package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jhoicas/refineria-api/internal/application/dto"
	"github.com/jhoicas/refineria-api/internal/application/inventory"
	"github.com/jhoicas/refineria-api/internal/domain"
	"github.com/jhoicas/refineria-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateItem_CantidadInicialComoAjuste(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := f.item(t, "Lingote 1", entity.ItemTypeIngot, "250.5")

	assert.True(t, dec("250.5").Equal(f.qty(t, id)))
	list, err := f.uc.ListTransactions(ctx, dto.TransactionListRequest{InventoryItemID: id})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, entity.TransactionTypeAdjustment, list[0].Type)
	assert.Equal(t, entity.ReferenceManualAdjustment, list[0].ReferenceType)
	assert.Equal(t, "tester", list[0].CreatedBy)
	f.assertConsistent(t, id)
}

func TestCreateItem_Validacion(t *testing.T) {
	f := newFixture()
	_, err := f.uc.CreateItem(context.Background(), "tester", dto.CreateItemRequest{Type: "oro", Unit: entity.UnitKg})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "type")
}

func TestGetItem_NoEncontrado(t *testing.T) {
	f := newFixture()
	_, err := f.uc.GetItem(context.Background(), "nada")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestUpdateItem_NoTocaCantidad(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := f.item(t, "Escoria", entity.ItemTypeSlag, "40")
	res, err := f.uc.UpdateItem(ctx, id, dto.UpdateItemRequest{Name: strPtr("Escoria rica"), SnContent: decPtr("12.5")})
	require.NoError(t, err)
	assert.Equal(t, "Escoria rica", res.Name)
	assert.True(t, dec("12.5").Equal(res.SnContent))
	assert.True(t, dec("40").Equal(f.qty(t, id)))
}

func TestArchiveItem_ConservaHistorial(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := f.item(t, "Casiterita vieja", entity.ItemTypeCassiterite, "5")
	require.NoError(t, f.uc.ArchiveItem(ctx, id))

	res, err := f.uc.GetItem(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entity.ItemStatusArchived, res.Status)

	active, err := f.uc.ListItems(ctx, dto.ItemListRequest{Status: entity.ItemStatusActive})
	require.NoError(t, err)
	assert.Empty(t, active)
	f.assertConsistent(t, id)
}

func TestAdjust_SobregiroRechazado(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := f.item(t, "Estaño", entity.ItemTypeFinishedTin, "10")

	_, err := f.uc.Adjust(ctx, "tester", dto.AdjustmentRequest{InventoryItemID: id, Quantity: dec("-10.0001")})
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	tx, err := f.uc.Adjust(ctx, "tester", dto.AdjustmentRequest{InventoryItemID: id, Quantity: dec("-10"), UnitPrice: decPtr("31.2"), Currency: "BOB"})
	require.NoError(t, err)
	assert.Equal(t, "BOB", tx.Currency)
	assert.True(t, f.qty(t, id).IsZero())
	f.assertConsistent(t, id)
}

func TestAdjust_CantidadCeroEsValidacion(t *testing.T) {
	f := newFixture()
	id := f.item(t, "Estaño", entity.ItemTypeFinishedTin, "10")
	_, err := f.uc.Adjust(context.Background(), "tester", dto.AdjustmentRequest{InventoryItemID: id})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "quantity")
}

func TestAdjust_PublicaEventos(t *testing.T) {
	f := newFixture()
	id := f.item(t, "Estaño", entity.ItemTypeFinishedTin, "")
	require.Empty(t, f.sink.events)

	_, err := f.uc.Adjust(context.Background(), "tester", dto.AdjustmentRequest{InventoryItemID: id, Quantity: dec("7")})
	require.NoError(t, err)
	require.Len(t, f.sink.events, 2)
	assert.Equal(t, inventory.EventTransactionCreated, f.sink.events[0].Name)
	assert.Equal(t, inventory.EventQuantityChanged, f.sink.events[1].Name)
	assert.True(t, f.sink.events[1].OldQuantity.IsZero())
	assert.True(t, dec("7").Equal(f.sink.events[1].NewQuantity))
}

func TestAdjust_ErrorDelSinkNoDeshaceElAjuste(t *testing.T) {
	f := newFixture()
	f.sink.err = errors.New("redis caído")
	id := f.item(t, "Estaño", entity.ItemTypeFinishedTin, "3")
	assert.True(t, dec("3").Equal(f.qty(t, id)))
}

func TestReverseTransaction(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := f.item(t, "Estaño", entity.ItemTypeFinishedTin, "")
	adj, err := f.uc.Adjust(ctx, "tester", dto.AdjustmentRequest{InventoryItemID: id, Quantity: dec("20")})
	require.NoError(t, err)

	rev, err := f.uc.ReverseTransaction(ctx, "supervisor", adj.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransactionTypeReversal, rev.Type)
	assert.Equal(t, entity.ReferenceTransactionReversal, rev.ReferenceType)
	assert.Equal(t, adj.ID, rev.ReversesTransactionID)
	assert.True(t, dec("-20").Equal(rev.Quantity))
	assert.True(t, f.qty(t, id).IsZero())

	_, err = f.uc.ReverseTransaction(ctx, "supervisor", adj.ID)
	assert.True(t, errors.Is(err, domain.ErrAlreadyReversed))

	_, err = f.uc.ReverseTransaction(ctx, "supervisor", rev.ID)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = f.uc.ReverseTransaction(ctx, "supervisor", "no-existe")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	f.assertConsistent(t, id)
}

func TestUpdateTransactionNotes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := f.item(t, "Estaño", entity.ItemTypeFinishedTin, "1")
	list, err := f.uc.ListTransactions(ctx, dto.TransactionListRequest{InventoryItemID: id})
	require.NoError(t, err)
	require.Len(t, list, 1)

	res, err := f.uc.UpdateTransactionNotes(ctx, list[0].ID, "conteo físico")
	require.NoError(t, err)
	assert.Equal(t, "conteo físico", res.Notes)
	assert.True(t, dec("1").Equal(res.Quantity))

	_, err = f.uc.UpdateTransactionNotes(ctx, "no-existe", "x")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestListTransactions_FiltroPorFecha(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.item(t, "Estaño", entity.ItemTypeFinishedTin, "1")

	same, err := f.uc.ListTransactions(ctx, dto.TransactionListRequest{FromDate: "2026-10-16", ToDate: "2026-10-16"})
	require.NoError(t, err)
	assert.Len(t, same, 1)

	later, err := f.uc.ListTransactions(ctx, dto.TransactionListRequest{FromDate: "2026-10-17"})
	require.NoError(t, err)
	assert.Empty(t, later)

	_, err = f.uc.ListTransactions(ctx, dto.TransactionListRequest{FromDate: "16/10/2026"})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "from_date")
}

func TestListTransactions_RangoInvertidoEsValidacion(t *testing.T) {
	f := newFixture()
	_, err := f.uc.ListTransactions(context.Background(), dto.TransactionListRequest{FromDate: "2026-10-17", ToDate: "2026-10-16"})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "debe ser igual o posterior a from_date", verr.Fields["to_date"])
}
