// Package memory implementa los repositorios y el TxRunner en memoria (DB_DRIVER=memory y pruebas).
package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/refineria-api/internal/application/batch"
	"github.com/jhoicas/refineria-api/internal/application/inventory"
	"github.com/jhoicas/refineria-api/internal/domain"
	"github.com/jhoicas/refineria-api/internal/domain/entity"
	"github.com/jhoicas/refineria-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ inventory.TxRunner = (*Store)(nil)
var _ batch.TxRunner = (*Store)(nil)

// Store guarda el estado completo en mapas protegidos por mutex.
// Run serializa las unidades de trabajo y restaura una copia del estado si fn falla,
// lo que equivale al Rollback de PostgreSQL.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	items     map[string]entity.InventoryItem
	txs       []entity.InventoryTransaction
	batches   map[string]entity.Batch
	processes map[string][]entity.Process // por batch_id

	// failOn fuerza un error de persistencia en la operación indicada (pruebas de rollback).
	failOn string
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		items:     make(map[string]entity.InventoryItem),
		batches:   make(map[string]entity.Batch),
		processes: make(map[string][]entity.Process),
	}
}

// FailOn hace que la operación op (ej. "process.create") devuelva un PersistenceError. "" lo desactiva.
func (s *Store) FailOn(op string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOn = op
}

func (s *Store) fail(op string) error {
	if s.failOn != "" && s.failOn == op {
		return domain.Persistence(op, errSimulated)
	}
	return nil
}

var errSimulated = errors.New("falla simulada de almacenamiento")

// Repos devuelve los repositorios sobre el almacén (lecturas fuera de transacción).
func (s *Store) Repos() repository.Repos {
	return repository.Repos{
		Items:        &itemRepo{s: s},
		Transactions: &transactionRepo{s: s},
		Batches:      &batchRepo{s: s},
		Processes:    &processRepo{s: s},
	}
}

// Run ejecuta fn como unidad de trabajo: si devuelve error, el estado vuelve al previo.
func (s *Store) Run(ctx context.Context, fn func(repos repository.Repos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return domain.Persistence("begin transaction", err)
	}

	snap := s.snapshot()
	if err := fn(s.Repos()); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type state struct {
	items     map[string]entity.InventoryItem
	txs       []entity.InventoryTransaction
	batches   map[string]entity.Batch
	processes map[string][]entity.Process
}

func (s *Store) snapshot() state {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := state{
		items:     make(map[string]entity.InventoryItem, len(s.items)),
		txs:       append([]entity.InventoryTransaction(nil), s.txs...),
		batches:   make(map[string]entity.Batch, len(s.batches)),
		processes: make(map[string][]entity.Process, len(s.processes)),
	}
	for k, v := range s.items {
		st.items[k] = v
	}
	for k, v := range s.batches {
		st.batches[k] = v
	}
	for k, v := range s.processes {
		st.processes[k] = append([]entity.Process(nil), v...)
	}
	return st
}

func (s *Store) restore(st state) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = st.items
	s.txs = st.txs
	s.batches = st.batches
	s.processes = st.processes
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

// --- artículos ---

type itemRepo struct{ s *Store }

func (r *itemRepo) Create(_ context.Context, item *entity.InventoryItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("item.create"); err != nil {
		return err
	}
	r.s.items[item.ID] = *item
	return nil
}

func (r *itemRepo) GetByID(_ context.Context, id string) (*entity.InventoryItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	it, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (r *itemRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return r.GetByID(ctx, id)
}

func (r *itemRepo) List(_ context.Context, f repository.ItemFilter) ([]*entity.InventoryItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.InventoryItem, 0, len(r.s.items))
	for _, it := range r.s.items {
		if f.Type != "" && it.Type != f.Type {
			continue
		}
		if f.Status != "" && it.Status != f.Status {
			continue
		}
		it := it
		list = append(list, &it)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return page(list, f.Limit, f.Offset), nil
}

func (r *itemRepo) Update(_ context.Context, item *entity.InventoryItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.items[item.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Name = item.Name
	cur.Description = item.Description
	cur.SnContent = item.SnContent
	cur.Location = item.Location
	cur.Status = item.Status
	cur.UpdatedAt = item.UpdatedAt
	r.s.items[item.ID] = cur
	return nil
}

func (r *itemRepo) UpdateQuantity(_ context.Context, id string, quantity decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("item.update_quantity"); err != nil {
		return err
	}
	cur, ok := r.s.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Quantity = quantity
	r.s.items[id] = cur
	return nil
}

// --- ledger ---

type transactionRepo struct{ s *Store }

func (r *transactionRepo) Create(_ context.Context, tx *entity.InventoryTransaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("transaction.create"); err != nil {
		return err
	}
	r.s.txs = append(r.s.txs, *tx)
	return nil
}

func (r *transactionRepo) GetByID(_ context.Context, id string) (*entity.InventoryTransaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, t := range r.s.txs {
		if t.ID == id {
			t := t
			return &t, nil
		}
	}
	return nil, nil
}

func (r *transactionRepo) ListOutstandingByReference(_ context.Context, refType, refID string) ([]*entity.InventoryTransaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	reversed := make(map[string]struct{})
	for _, t := range r.s.txs {
		if t.ReversesTransactionID != "" {
			reversed[t.ReversesTransactionID] = struct{}{}
		}
	}
	var out []*entity.InventoryTransaction
	for _, t := range r.s.txs {
		if t.ReferenceType != refType || t.ReferenceID != refID {
			continue
		}
		if t.Type != entity.TransactionTypeConsumption && t.Type != entity.TransactionTypeProduction {
			continue
		}
		if _, ok := reversed[t.ID]; ok {
			continue
		}
		t := t
		out = append(out, &t)
	}
	return out, nil
}

func (r *transactionRepo) GetReversalOf(_ context.Context, txID string) (*entity.InventoryTransaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, t := range r.s.txs {
		if t.ReversesTransactionID == txID {
			t := t
			return &t, nil
		}
	}
	return nil, nil
}

// List devuelve el ledger filtrado, del más reciente al más antiguo.
func (r *transactionRepo) List(_ context.Context, f repository.TransactionFilter) ([]*entity.InventoryTransaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.InventoryTransaction
	for i := len(r.s.txs) - 1; i >= 0; i-- {
		t := r.s.txs[i]
		if f.ItemID != "" && t.InventoryItemID != f.ItemID {
			continue
		}
		if f.Type != "" && t.Type != f.Type {
			continue
		}
		if f.ReferenceType != "" && t.ReferenceType != f.ReferenceType {
			continue
		}
		if f.ReferenceID != "" && t.ReferenceID != f.ReferenceID {
			continue
		}
		if f.From != nil && t.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && t.CreatedAt.After(*f.To) {
			continue
		}
		list = append(list, &t)
	}
	return page(list, f.Limit, f.Offset), nil
}

func (r *transactionRepo) UpdateNotes(_ context.Context, id, notes string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.txs {
		if r.s.txs[i].ID == id {
			r.s.txs[i].Notes = notes
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *transactionRepo) SumByItem(_ context.Context, itemID string) (decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sum := decimal.Zero
	for _, t := range r.s.txs {
		if t.InventoryItemID == itemID {
			sum = sum.Add(t.Quantity)
		}
	}
	return sum, nil
}

// --- lotes ---

type batchRepo struct{ s *Store }

func (r *batchRepo) Create(_ context.Context, b *entity.Batch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("batch.create"); err != nil {
		return err
	}
	for _, other := range r.s.batches {
		if other.BatchNumber == b.BatchNumber {
			return &domain.DuplicateBatchNumberError{BatchNumber: b.BatchNumber, ExistingBatchID: other.ID}
		}
	}
	cp := *b
	cp.Processes = nil
	r.s.batches[b.ID] = cp
	return nil
}

func (r *batchRepo) GetByID(_ context.Context, id string) (*entity.Batch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.batches[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *batchRepo) GetForUpdate(ctx context.Context, id string) (*entity.Batch, error) {
	return r.GetByID(ctx, id)
}

func (r *batchRepo) GetByNumber(_ context.Context, number string) (*entity.Batch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, b := range r.s.batches {
		if b.BatchNumber == number {
			b := b
			return &b, nil
		}
	}
	return nil, nil
}

func (r *batchRepo) ListNumbersWithPrefix(_ context.Context, prefix string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []string
	for _, b := range r.s.batches {
		if strings.HasPrefix(b.BatchNumber, prefix) {
			out = append(out, b.BatchNumber)
		}
	}
	sort.Strings(out)
	return out, nil
}

// List devuelve los lotes del más reciente al más antiguo (fecha y luego creación).
func (r *batchRepo) List(_ context.Context, f repository.BatchFilter) ([]*entity.Batch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.Batch, 0, len(r.s.batches))
	for _, b := range r.s.batches {
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		b := b
		list = append(list, &b)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.After(list[j].Date)
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return page(list, f.Limit, f.Offset), nil
}

func (r *batchRepo) Update(_ context.Context, b *entity.Batch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("batch.update"); err != nil {
		return err
	}
	if _, ok := r.s.batches[b.ID]; !ok {
		return domain.ErrNotFound
	}
	for _, other := range r.s.batches {
		if other.ID != b.ID && other.BatchNumber == b.BatchNumber {
			return &domain.DuplicateBatchNumberError{BatchNumber: b.BatchNumber, ExistingBatchID: other.ID}
		}
	}
	cp := *b
	cp.Processes = nil
	r.s.batches[b.ID] = cp
	return nil
}

func (r *batchRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.batches[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.batches, id)
	delete(r.s.processes, id)
	return nil
}

// --- procesos ---

type processRepo struct{ s *Store }

func (r *processRepo) Create(_ context.Context, p *entity.Process) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("process.create"); err != nil {
		return err
	}
	r.s.processes[p.BatchID] = append(r.s.processes[p.BatchID], *p)
	return nil
}

func (r *processRepo) ListByBatch(_ context.Context, batchID string) ([]*entity.Process, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	src := r.s.processes[batchID]
	out := make([]*entity.Process, 0, len(src))
	for i := range src {
		p := src[i]
		out = append(out, &p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ProcessNumber < out[j].ProcessNumber })
	return out, nil
}

func (r *processRepo) GetByID(_ context.Context, id string) (*entity.Process, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, list := range r.s.processes {
		for i := range list {
			if list[i].ID == id {
				p := list[i]
				return &p, nil
			}
		}
	}
	return nil, nil
}

func (r *processRepo) List(_ context.Context, f repository.ProcessFilter) ([]*entity.Process, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Process
	for batchID, src := range r.s.processes {
		if f.BatchID != "" && batchID != f.BatchID {
			continue
		}
		for i := range src {
			if f.ProcessingType != "" && src[i].ProcessingType != f.ProcessingType {
				continue
			}
			p := src[i]
			list = append(list, &p)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		if a.BatchID != b.BatchID {
			return a.BatchID < b.BatchID
		}
		return a.ProcessNumber < b.ProcessNumber
	})
	return page(list, f.Limit, f.Offset), nil
}

func (r *processRepo) DeleteByBatch(_ context.Context, batchID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.processes, batchID)
	return nil
}
