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
)

var _ repository.ProcessRepository = (*ProcessRepo)(nil)

const processColumns = `id, batch_id, process_number, processing_type,
	input_tin_kilos, input_tin_sn_content, input_tin_inventory_item_id::text,
	input_slag_kilos, input_slag_sn_content, input_slag_inventory_item_id::text,
	output_tin_kilos, output_tin_sn_content, output_tin_inventory_item_id::text,
	output_slag_kilos, output_slag_sn_content, output_slag_inventory_item_id::text,
	notes, created_at`

// ProcessRepo persistencia de procesos de lote sobre PostgreSQL.
type ProcessRepo struct {
	q Querier
}

// NewProcessRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProcessRepository(q Querier) *ProcessRepo {
	return &ProcessRepo{q: q}
}

// Create inserta el proceso con sus cuatro movimientos de material.
func (r *ProcessRepo) Create(ctx context.Context, p *entity.Process) error {
	query := `
		INSERT INTO processes (id, batch_id, process_number, processing_type,
			input_tin_kilos, input_tin_sn_content, input_tin_inventory_item_id,
			input_slag_kilos, input_slag_sn_content, input_slag_inventory_item_id,
			output_tin_kilos, output_tin_sn_content, output_tin_inventory_item_id,
			output_slag_kilos, output_slag_sn_content, output_slag_inventory_item_id,
			notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(ctx, query, p.ID, p.BatchID, p.ProcessNumber, p.ProcessingType,
		p.InputTin.Kilos, p.InputTin.SnContent, p.InputTin.InventoryItemID,
		p.InputSlag.Kilos, p.InputSlag.SnContent, p.InputSlag.InventoryItemID,
		p.OutputTin.Kilos, p.OutputTin.SnContent, p.OutputTin.InventoryItemID,
		p.OutputSlag.Kilos, p.OutputSlag.SnContent, p.OutputSlag.InventoryItemID,
		p.Notes, p.CreatedAt)
	if err != nil {
		return domain.Persistence("insert process", err)
	}
	return nil
}

// GetByID obtiene un proceso por id.
func (r *ProcessRepo) GetByID(ctx context.Context, id string) (*entity.Process, error) {
	p, err := scanProcess(r.q.QueryRow(ctx, `SELECT `+processColumns+` FROM processes WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.Persistence("get process", err)
	}
	return p, nil
}

// ListByBatch procesos del lote ordenados por número.
func (r *ProcessRepo) ListByBatch(ctx context.Context, batchID string) ([]*entity.Process, error) {
	query := `SELECT ` + processColumns + ` FROM processes WHERE batch_id = $1 ORDER BY process_number, created_at`
	return r.list(ctx, query, batchID)
}

// List procesos de todos los lotes con filtros opcionales.
func (r *ProcessRepo) List(ctx context.Context, f repository.ProcessFilter) ([]*entity.Process, error) {
	var conds []string
	var args []any
	if f.BatchID != "" {
		args = append(args, f.BatchID)
		conds = append(conds, fmt.Sprintf("batch_id = $%d", len(args)))
	}
	if f.ProcessingType != "" {
		args = append(args, f.ProcessingType)
		conds = append(conds, fmt.Sprintf("processing_type = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}
	limit, offset := paging(f.Limit, f.Offset)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM processes %s
		ORDER BY created_at DESC, batch_id, process_number LIMIT $%d OFFSET $%d`,
		processColumns, where, len(args)-1, len(args))
	return r.list(ctx, query, args...)
}

func (r *ProcessRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Process, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Persistence("list processes", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Process, error) {
		return scanProcess(row)
	})
	if err != nil {
		return nil, domain.Persistence("scan process", err)
	}
	return list, nil
}

func scanProcess(row pgx.Row) (*entity.Process, error) {
	var p entity.Process
	err := row.Scan(&p.ID, &p.BatchID, &p.ProcessNumber, &p.ProcessingType,
		&p.InputTin.Kilos, &p.InputTin.SnContent, &p.InputTin.InventoryItemID,
		&p.InputSlag.Kilos, &p.InputSlag.SnContent, &p.InputSlag.InventoryItemID,
		&p.OutputTin.Kilos, &p.OutputTin.SnContent, &p.OutputTin.InventoryItemID,
		&p.OutputSlag.Kilos, &p.OutputSlag.SnContent, &p.OutputSlag.InventoryItemID,
		&p.Notes, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteByBatch elimina todos los procesos del lote.
func (r *ProcessRepo) DeleteByBatch(ctx context.Context, batchID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM processes WHERE batch_id = $1`, batchID); err != nil {
		return domain.Persistence("delete processes", err)
	}
	return nil
}
