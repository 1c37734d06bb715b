package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/refineria-api/internal/domain"
	"github.com/jhoicas/refineria-api/internal/domain/entity"
	"github.com/jhoicas/refineria-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.InventoryTransactionRepository = (*InventoryTransactionRepo)(nil)

const transactionColumns = `t.id, t.inventory_item_id, t.type, t.quantity, t.unit_price, t.currency,
	t.reference_type, COALESCE(t.reference_id, ''), COALESCE(t.reverses_transaction_id::text, ''),
	t.notes, t.created_by, t.created_at`

// InventoryTransactionRepo ledger de inventario sobre PostgreSQL. Solo inserta; la única
// modificación admitida es la de notas.
type InventoryTransactionRepo struct {
	q Querier
}

// NewInventoryTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryTransactionRepository(q Querier) *InventoryTransactionRepo {
	return &InventoryTransactionRepo{q: q}
}

func scanTransaction(row pgx.Row) (*entity.InventoryTransaction, error) {
	var t entity.InventoryTransaction
	err := row.Scan(&t.ID, &t.InventoryItemID, &t.Type, &t.Quantity, &t.UnitPrice, &t.Currency,
		&t.ReferenceType, &t.ReferenceID, &t.ReversesTransactionID, &t.Notes, &t.CreatedBy, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *InventoryTransactionRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.InventoryTransaction, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Persistence(op, err)
	}
	defer rows.Close()
	var list []*entity.InventoryTransaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, domain.Persistence(op, err)
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Persistence(op, err)
	}
	return list, nil
}

// Create inserta un asiento del ledger.
func (r *InventoryTransactionRepo) Create(ctx context.Context, t *entity.InventoryTransaction) error {
	query := `
		INSERT INTO inventory_transactions
			(id, inventory_item_id, type, quantity, unit_price, currency, reference_type, reference_id,
			 reverses_transaction_id, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query, t.ID, t.InventoryItemID, t.Type, t.Quantity, t.UnitPrice, t.Currency,
		t.ReferenceType, nullIfEmpty(t.ReferenceID), nullIfEmpty(t.ReversesTransactionID),
		t.Notes, t.CreatedBy, t.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			// índice único parcial sobre reverses_transaction_id
			return domain.ErrAlreadyReversed
		}
		return domain.Persistence("insert inventory transaction", err)
	}
	return nil
}

// GetByID obtiene un asiento por ID.
func (r *InventoryTransactionRepo) GetByID(ctx context.Context, id string) (*entity.InventoryTransaction, error) {
	t, err := scanTransaction(r.q.QueryRow(ctx, `SELECT `+transactionColumns+` FROM inventory_transactions t WHERE t.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.Persistence("get inventory transaction", err)
	}
	return t, nil
}

// ListOutstandingByReference consumos y producciones de la referencia sin reversión, en orden de inserción.
func (r *InventoryTransactionRepo) ListOutstandingByReference(ctx context.Context, refType, refID string) ([]*entity.InventoryTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM inventory_transactions t
		WHERE t.reference_type = $1 AND t.reference_id = $2
		  AND t.type IN ('consumption', 'production')
		  AND NOT EXISTS (
			SELECT 1 FROM inventory_transactions r WHERE r.reverses_transaction_id = t.id
		  )
		ORDER BY t.seq`
	return r.list(ctx, "list outstanding transactions", query, refType, refID)
}

// GetReversalOf devuelve la reversión de txID o (nil, nil).
func (r *InventoryTransactionRepo) GetReversalOf(ctx context.Context, txID string) (*entity.InventoryTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM inventory_transactions t WHERE t.reverses_transaction_id = $1`
	t, err := scanTransaction(r.q.QueryRow(ctx, query, txID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.Persistence("get reversal", err)
	}
	return t, nil
}

// List consulta el ledger con filtros, del más reciente al más antiguo.
func (r *InventoryTransactionRepo) List(ctx context.Context, f repository.TransactionFilter) ([]*entity.InventoryTransaction, error) {
	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.ItemID != "" {
		add("t.inventory_item_id = $%d", f.ItemID)
	}
	if f.Type != "" {
		add("t.type = $%d", f.Type)
	}
	if f.ReferenceType != "" {
		add("t.reference_type = $%d", f.ReferenceType)
	}
	if f.ReferenceID != "" {
		add("t.reference_id = $%d", f.ReferenceID)
	}
	if f.From != nil {
		add("t.created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("t.created_at <= $%d", *f.To)
	}
	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}
	limit, offset := paging(f.Limit, f.Offset)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM inventory_transactions t %s ORDER BY t.seq DESC LIMIT $%d OFFSET $%d`,
		transactionColumns, where, len(args)-1, len(args))
	return r.list(ctx, "list inventory transactions", query, args...)
}

// UpdateNotes cambia las notas de un asiento.
func (r *InventoryTransactionRepo) UpdateNotes(ctx context.Context, id, notes string) error {
	tag, err := r.q.Exec(ctx, `UPDATE inventory_transactions SET notes = $2 WHERE id = $1`, id, notes)
	if err != nil {
		return domain.Persistence("update transaction notes", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SumByItem suma los deltas del artículo.
func (r *InventoryTransactionRepo) SumByItem(ctx context.Context, itemID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(quantity), 0) FROM inventory_transactions WHERE inventory_item_id = $1`, itemID).Scan(&sum)
	if err != nil {
		return decimal.Zero, domain.Persistence("sum inventory transactions", err)
	}
	return sum, nil
}
