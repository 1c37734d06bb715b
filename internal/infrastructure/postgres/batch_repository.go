package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jhoicas/refineria-api/internal/domain"
	"github.com/jhoicas/refineria-api/internal/domain/entity"
	"github.com/jhoicas/refineria-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

const batchColumns = `id, batch_number, date, status, notes, created_at, updated_at`

// BatchRepo persistencia de lotes (sin procesos) sobre PostgreSQL.
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

// dateArg la columna date es DATE: se envía solo la fecha calendario, nunca un instante.
func dateArg(t time.Time) pgtype.Date {
	return pgtype.Date{Time: entity.CalendarDate(t), Valid: true}
}

// dateValue pgx devuelve DATE a medianoche UTC, independiente de la zona del servidor.
func dateValue(d pgtype.Date) time.Time {
	return entity.CalendarDate(d.Time)
}

func scanBatch(row pgx.Row) (*entity.Batch, error) {
	var b entity.Batch
	var date pgtype.Date
	if err := row.Scan(&b.ID, &b.BatchNumber, &date, &b.Status, &b.Notes, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.Date = dateValue(date)
	return &b, nil
}

// Create inserta el lote. La violación de batches_batch_number_key se informa como número duplicado.
func (r *BatchRepo) Create(ctx context.Context, b *entity.Batch) error {
	query := `INSERT INTO batches (` + batchColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, b.ID, b.BatchNumber, dateArg(b.Date), b.Status, b.Notes, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateBatchNumberError{BatchNumber: b.BatchNumber}
		}
		return domain.Persistence("insert batch", err)
	}
	return nil
}

// GetByID obtiene un lote por ID.
func (r *BatchRepo) GetByID(ctx context.Context, id string) (*entity.Batch, error) {
	return r.get(ctx, "get batch", `SELECT `+batchColumns+` FROM batches WHERE id = $1`, id)
}

// GetForUpdate obtiene el lote y bloquea su fila.
func (r *BatchRepo) GetForUpdate(ctx context.Context, id string) (*entity.Batch, error) {
	return r.get(ctx, "get batch for update", `SELECT `+batchColumns+` FROM batches WHERE id = $1 FOR UPDATE`, id)
}

// GetByNumber obtiene un lote por su número.
func (r *BatchRepo) GetByNumber(ctx context.Context, number string) (*entity.Batch, error) {
	return r.get(ctx, "get batch by number", `SELECT `+batchColumns+` FROM batches WHERE batch_number = $1`, number)
}

func (r *BatchRepo) get(ctx context.Context, op, query string, arg any) (*entity.Batch, error) {
	b, err := scanBatch(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.Persistence(op, err)
	}
	return b, nil
}

// ListNumbersWithPrefix números de lote que empiezan con prefix.
func (r *BatchRepo) ListNumbersWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT batch_number FROM batches WHERE starts_with(batch_number, $1) ORDER BY batch_number`, prefix)
	if err != nil {
		return nil, domain.Persistence("list batch numbers", err)
	}
	numbers, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, domain.Persistence("list batch numbers", err)
	}
	return numbers, nil
}

// List lista lotes del más reciente al más antiguo.
func (r *BatchRepo) List(ctx context.Context, f repository.BatchFilter) ([]*entity.Batch, error) {
	limit, offset := paging(f.Limit, f.Offset)
	args := []any{limit, offset}
	where := ""
	if f.Status != "" {
		args = append(args, f.Status)
		where = "WHERE status = $3"
	}
	query := fmt.Sprintf(`SELECT %s FROM batches %s ORDER BY date DESC, created_at DESC LIMIT $1 OFFSET $2`, batchColumns, where)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Persistence("list batches", err)
	}
	defer rows.Close()
	var list []*entity.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, domain.Persistence("scan batch", err)
		}
		list = append(list, b)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Persistence("list batches", err)
	}
	return list, nil
}

// Update persiste número, fecha, estado y notas.
func (r *BatchRepo) Update(ctx context.Context, b *entity.Batch) error {
	query := `
		UPDATE batches SET batch_number = $2, date = $3, status = $4, notes = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, b.ID, b.BatchNumber, dateArg(b.Date), b.Status, b.Notes, b.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateBatchNumberError{BatchNumber: b.BatchNumber}
		}
		return domain.Persistence("update batch", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el lote.
func (r *BatchRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM batches WHERE id = $1`, id)
	if err != nil {
		return domain.Persistence("delete batch", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
