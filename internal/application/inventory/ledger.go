package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/refineria-api/internal/domain"
	"github.com/jhoicas/refineria-api/internal/domain/entity"
	"github.com/jhoicas/refineria-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// PostInput datos de una contabilización. Quantity es el delta con signo.
type PostInput struct {
	ItemID                string
	Quantity              decimal.Decimal
	Type                  string
	ReferenceType         string
	ReferenceID           string
	ReversesTransactionID string
	UnitPrice             *decimal.Decimal
	Currency              string
	Notes                 string
	Actor                 string
}

// Posting resultado de una contabilización: la transacción creada y la cantidad antes/después.
type Posting struct {
	Transaction *entity.InventoryTransaction
	OldQuantity decimal.Decimal
	NewQuantity decimal.Decimal
}

// Ledger es el único componente que modifica cantidades de inventario.
// No abre transacciones: opera sobre los repositorios de la unidad de trabajo que recibe,
// así el llamador decide qué se confirma en bloque.
type Ledger struct {
	now      func() time.Time
	currency string
}

// NewLedger construye el ledger. now nil usa time.Now; currency vacío usa USD.
func NewLedger(now func() time.Time, currency string) *Ledger {
	if now == nil {
		now = time.Now
	}
	if currency == "" {
		currency = entity.DefaultCurrency
	}
	return &Ledger{now: now, currency: currency}
}

// Post bloquea la fila del artículo (SELECT FOR UPDATE), verifica que la cantidad no quede negativa,
// inserta la transacción y actualiza la cantidad. Ambas escrituras viven en la misma transacción de BD.
func (l *Ledger) Post(ctx context.Context, repos repository.Repos, in PostInput) (*Posting, error) {
	if in.Quantity.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	item, err := repos.Items.GetForUpdate(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, &domain.ItemNotFoundError{ItemID: in.ItemID}
	}

	newQty := item.Quantity.Add(in.Quantity)
	if newQty.IsNegative() {
		return nil, &domain.InsufficientQuantityError{
			ItemID:    item.ID,
			ItemName:  item.Name,
			Required:  in.Quantity.Neg(),
			Available: item.Quantity,
		}
	}

	currency := in.Currency
	if currency == "" {
		currency = l.currency
	}
	tx := &entity.InventoryTransaction{
		ID:                    uuid.New().String(),
		InventoryItemID:       item.ID,
		Type:                  in.Type,
		Quantity:              in.Quantity,
		UnitPrice:             in.UnitPrice,
		Currency:              currency,
		ReferenceType:         in.ReferenceType,
		ReferenceID:           in.ReferenceID,
		ReversesTransactionID: in.ReversesTransactionID,
		Notes:                 in.Notes,
		CreatedBy:             in.Actor,
		CreatedAt:             l.now(),
	}
	if err := repos.Transactions.Create(ctx, tx); err != nil {
		return nil, err
	}
	if err := repos.Items.UpdateQuantity(ctx, item.ID, newQty); err != nil {
		return nil, err
	}
	return &Posting{Transaction: tx, OldQuantity: item.Quantity, NewQuantity: newQty}, nil
}

// PostBatchMaterials contabiliza los movimientos de material de un proceso: las entradas como consumo
// (delta negativo) y las salidas como producción (delta positivo). Un movimiento sin artículo o sin kilos
// positivos se omite.
func (l *Ledger) PostBatchMaterials(ctx context.Context, repos repository.Repos, batch *entity.Batch, process *entity.Process, actor string) ([]*Posting, error) {
	return l.PostBatch(ctx, repos, batch, []*entity.Process{process}, actor)
}

// PostBatch contabiliza los materiales de varios procesos. Bloquea primero todos los artículos
// involucrados en orden ascendente de ID para que dos lotes concurrentes no se bloqueen mutuamente.
func (l *Ledger) PostBatch(ctx context.Context, repos repository.Repos, batch *entity.Batch, processes []*entity.Process, actor string) ([]*Posting, error) {
	var inputs []PostInput
	for _, p := range processes {
		inputs = append(inputs, materialPostings(batch, p, actor)...)
	}
	if len(inputs) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(inputs))
	for _, in := range inputs {
		ids = append(ids, in.ItemID)
	}
	if err := lockItems(ctx, repos, ids); err != nil {
		return nil, err
	}

	postings := make([]*Posting, 0, len(inputs))
	for _, in := range inputs {
		p, err := l.Post(ctx, repos, in)
		if err != nil {
			return nil, err
		}
		postings = append(postings, p)
	}
	return postings, nil
}

// Reverse anula todas las contabilizaciones pendientes del lote creando una reversión por cada una,
// en orden inverso al de creación. Las transacciones originales no se tocan.
// Una contabilización ya revertida no se vuelve a revertir.
func (l *Ledger) Reverse(ctx context.Context, repos repository.Repos, batch *entity.Batch, actor string) ([]*Posting, error) {
	originals, err := repos.Transactions.ListOutstandingByReference(ctx, entity.ReferenceBatch, batch.ID)
	if err != nil {
		return nil, err
	}
	if len(originals) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(originals))
	for _, t := range originals {
		ids = append(ids, t.InventoryItemID)
	}
	if err := lockItems(ctx, repos, ids); err != nil {
		return nil, err
	}

	postings := make([]*Posting, 0, len(originals))
	for i := len(originals) - 1; i >= 0; i-- {
		orig := originals[i]
		p, err := l.Post(ctx, repos, PostInput{
			ItemID:                orig.InventoryItemID,
			Quantity:              orig.Quantity.Neg(),
			Type:                  entity.TransactionTypeReversal,
			ReferenceType:         entity.ReferenceBatch,
			ReferenceID:           batch.ID,
			ReversesTransactionID: orig.ID,
			UnitPrice:             orig.UnitPrice,
			Currency:              orig.Currency,
			Notes:                 fmt.Sprintf("Reversión de %s del lote %s", reversalLabel(orig.Type), batch.BatchNumber),
			Actor:                 actor,
		})
		if err != nil {
			return nil, err
		}
		postings = append(postings, p)
	}
	return postings, nil
}

// ReverseTransaction anula una transacción puntual con referencia transaction_reversal.
// No se permite revertir una reversión ni revertir dos veces la misma transacción.
func (l *Ledger) ReverseTransaction(ctx context.Context, repos repository.Repos, transactionID, actor string) (*Posting, error) {
	orig, err := repos.Transactions.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if orig == nil {
		return nil, domain.ErrNotFound
	}
	if orig.IsReversal() {
		return nil, domain.ErrInvalidInput
	}
	existing, err := repos.Transactions.GetReversalOf(ctx, orig.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrAlreadyReversed
	}
	return l.Post(ctx, repos, PostInput{
		ItemID:                orig.InventoryItemID,
		Quantity:              orig.Quantity.Neg(),
		Type:                  entity.TransactionTypeReversal,
		ReferenceType:         entity.ReferenceTransactionReversal,
		ReferenceID:           orig.ID,
		ReversesTransactionID: orig.ID,
		UnitPrice:             orig.UnitPrice,
		Currency:              orig.Currency,
		Notes:                 "Reversión de la transacción " + orig.ID,
		Actor:                 actor,
	})
}

func materialPostings(batch *entity.Batch, p *entity.Process, actor string) []PostInput {
	var out []PostInput
	for _, slot := range p.Materials() {
		itemID := slot.ItemID()
		kilos := slot.KilosOrZero()
		if itemID == "" || !kilos.IsPositive() {
			continue
		}
		in := PostInput{
			ItemID:        itemID,
			Quantity:      kilos,
			Type:          slot.TransactionType,
			ReferenceType: entity.ReferenceBatch,
			ReferenceID:   batch.ID,
			Notes:         fmt.Sprintf("Producido en lote %s (proceso %d, %s)", batch.BatchNumber, p.ProcessNumber, slot.Role),
			Actor:         actor,
		}
		if slot.TransactionType == entity.TransactionTypeConsumption {
			in.Quantity = kilos.Neg()
			in.Notes = fmt.Sprintf("Consumido en lote %s (proceso %d, %s)", batch.BatchNumber, p.ProcessNumber, slot.Role)
		}
		out = append(out, in)
	}
	return out
}

// lockItems toma el bloqueo de fila de cada artículo distinto en orden ascendente de ID.
func lockItems(ctx context.Context, repos repository.Repos, ids []string) error {
	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	sort.Strings(unique)
	for _, id := range unique {
		item, err := repos.Items.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return &domain.ItemNotFoundError{ItemID: id}
		}
	}
	return nil
}

func reversalLabel(txType string) string {
	switch txType {
	case entity.TransactionTypeConsumption:
		return "consumo"
	case entity.TransactionTypeProduction:
		return "producción"
	}
	return txType
}
