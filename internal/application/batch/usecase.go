// Package batch implementa el ciclo de vida de los lotes de producción y su efecto en el ledger.
package batch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/refineria-api/internal/application/dto"
	"github.com/jhoicas/refineria-api/internal/application/inventory"
	"github.com/jhoicas/refineria-api/internal/application/validation"
	"github.com/jhoicas/refineria-api/internal/domain"
	"github.com/jhoicas/refineria-api/internal/domain/entity"
	"github.com/jhoicas/refineria-api/internal/domain/production"
	"github.com/jhoicas/refineria-api/internal/domain/repository"
	"github.com/jhoicas/refineria-api/pkg/logger"
)

// UseCase casos de uso de lotes. Cada operación de escritura es una única transacción de BD:
// fila del lote, procesos y contabilizaciones se confirman o se descartan juntos.
type UseCase struct {
	txRunner   TxRunner
	batches    repository.BatchRepository
	processes  repository.ProcessRepository
	ledger     *inventory.Ledger
	dispatcher *inventory.Dispatcher
	locker     Locker
	accounting AccountingSync
	validate   *validation.Validator
	now        func() time.Time
	log        *logger.Logger
}

// Deps dependencias del caso de uso. Locker y Accounting nil usan las variantes no-op.
type Deps struct {
	TxRunner   TxRunner
	Batches    repository.BatchRepository
	Processes  repository.ProcessRepository
	Ledger     *inventory.Ledger
	Dispatcher *inventory.Dispatcher
	Locker     Locker
	Accounting AccountingSync
	Validator  *validation.Validator
	Now        func() time.Time
	Log        *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(d Deps) *UseCase {
	if d.Locker == nil {
		d.Locker = NoopLocker{}
	}
	if d.Accounting == nil {
		d.Accounting = NoopAccountingSync{}
	}
	if d.Validator == nil {
		d.Validator = validation.New()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	return &UseCase{
		txRunner:   d.TxRunner,
		batches:    d.Batches,
		processes:  d.Processes,
		ledger:     d.Ledger,
		dispatcher: d.Dispatcher,
		locker:     d.Locker,
		accounting: d.Accounting,
		validate:   d.Validator,
		now:        d.Now,
		log:        d.Log,
	}
}

// outcome lo que una operación confirmada dejó para después del Commit.
type outcome struct {
	postings []*inventory.Posting
	action   string
}

// Create registra el lote con sus procesos. Si nace completado, contabiliza los materiales de todos los procesos.
func (uc *UseCase) Create(ctx context.Context, actor string, in dto.BatchRequest) (*dto.BatchResponse, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, err
	}
	date, _ := validation.ParseDate(in.Date)
	date = entity.CalendarDate(date)

	release, err := uc.locker.Obtain(ctx, "batch:number:"+in.BatchNumber)
	if err != nil {
		return nil, err
	}
	defer release()

	now := uc.now()
	b := &entity.Batch{
		ID:          uuid.New().String(),
		BatchNumber: in.BatchNumber,
		Date:        date,
		Status:      in.Status,
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var out outcome
	err = uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		if err := checkItemRefs(ctx, repos.Items, in.Processes); err != nil {
			return err
		}
		existing, err := repos.Batches.GetByNumber(ctx, in.BatchNumber)
		if err != nil {
			return err
		}
		if existing != nil {
			return &domain.DuplicateBatchNumberError{BatchNumber: in.BatchNumber, ExistingBatchID: existing.ID}
		}
		if err := repos.Batches.Create(ctx, b); err != nil {
			return err
		}
		if err := uc.replaceProcesses(ctx, repos, b, in.Processes, false); err != nil {
			return err
		}
		if b.IsCompleted() {
			out.postings, err = uc.ledger.PostBatch(ctx, repos, b, b.Processes, actor)
			if err != nil {
				return err
			}
			out.action = ActionCompleted
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.afterCommit(ctx, actor, b, out, "lote creado")
	return toBatchResponse(b), nil
}

// Update reemplaza los datos del lote y su lista de procesos. Si estaba completado revierte primero
// todas sus contabilizaciones; si queda completado contabiliza los procesos nuevos.
func (uc *UseCase) Update(ctx context.Context, actor, id string, in dto.BatchRequest) (*dto.BatchResponse, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, err
	}
	date, _ := validation.ParseDate(in.Date)
	date = entity.CalendarDate(date)

	release, err := uc.locker.Obtain(ctx, "batch:"+id)
	if err != nil {
		return nil, err
	}
	defer release()

	var b *entity.Batch
	var out outcome
	err = uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		var err error
		b, err = repos.Batches.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if b == nil {
			return domain.ErrNotFound
		}
		if err := checkItemRefs(ctx, repos.Items, in.Processes); err != nil {
			return err
		}
		if in.BatchNumber != b.BatchNumber {
			other, err := repos.Batches.GetByNumber(ctx, in.BatchNumber)
			if err != nil {
				return err
			}
			if other != nil && other.ID != b.ID {
				return &domain.DuplicateBatchNumberError{BatchNumber: in.BatchNumber, ExistingBatchID: other.ID}
			}
		}

		wasCompleted := b.IsCompleted()
		if wasCompleted {
			reversals, err := uc.ledger.Reverse(ctx, repos, b, actor)
			if err != nil {
				return err
			}
			out.postings = append(out.postings, reversals...)
		}

		b.BatchNumber = in.BatchNumber
		b.Date = date
		b.Status = in.Status
		b.Notes = in.Notes
		b.UpdatedAt = uc.now()
		if err := repos.Batches.Update(ctx, b); err != nil {
			return err
		}
		if err := uc.replaceProcesses(ctx, repos, b, in.Processes, true); err != nil {
			return err
		}

		if b.IsCompleted() {
			posted, err := uc.ledger.PostBatch(ctx, repos, b, b.Processes, actor)
			if err != nil {
				return err
			}
			out.postings = append(out.postings, posted...)
		}
		out.action = transitionAction(wasCompleted, b.IsCompleted())
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.afterCommit(ctx, actor, b, out, "lote actualizado")
	return toBatchResponse(b), nil
}

// UpdateStatus cambia solo el estado. Pedir el estado actual no tiene efecto, así un lote
// completado dos veces no se contabiliza dos veces.
func (uc *UseCase) UpdateStatus(ctx context.Context, actor, id string, in dto.UpdateBatchStatusRequest) (*dto.BatchResponse, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, err
	}

	release, err := uc.locker.Obtain(ctx, "batch:"+id)
	if err != nil {
		return nil, err
	}
	defer release()

	var b *entity.Batch
	var out outcome
	err = uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		var err error
		b, err = repos.Batches.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if b == nil {
			return domain.ErrNotFound
		}
		b.Processes, err = repos.Processes.ListByBatch(ctx, b.ID)
		if err != nil {
			return err
		}
		if b.Status == in.Status {
			return nil
		}

		wasCompleted := b.IsCompleted()
		if wasCompleted {
			out.postings, err = uc.ledger.Reverse(ctx, repos, b, actor)
			if err != nil {
				return err
			}
		}
		b.Status = in.Status
		b.UpdatedAt = uc.now()
		if err := repos.Batches.Update(ctx, b); err != nil {
			return err
		}
		if b.IsCompleted() {
			posted, err := uc.ledger.PostBatch(ctx, repos, b, b.Processes, actor)
			if err != nil {
				return err
			}
			out.postings = append(out.postings, posted...)
		}
		out.action = transitionAction(wasCompleted, b.IsCompleted())
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.afterCommit(ctx, actor, b, out, "estado de lote actualizado")
	return toBatchResponse(b), nil
}

// Delete elimina el lote y sus procesos. Si estaba completado revierte antes sus contabilizaciones;
// el historial del ledger se conserva.
func (uc *UseCase) Delete(ctx context.Context, actor, id string) error {
	release, err := uc.locker.Obtain(ctx, "batch:"+id)
	if err != nil {
		return err
	}
	defer release()

	var b *entity.Batch
	var out outcome
	err = uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		var err error
		b, err = repos.Batches.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if b == nil {
			return domain.ErrNotFound
		}
		if b.IsCompleted() {
			out.postings, err = uc.ledger.Reverse(ctx, repos, b, actor)
			if err != nil {
				return err
			}
			out.action = ActionDeleted
		}
		if err := repos.Processes.DeleteByBatch(ctx, b.ID); err != nil {
			return err
		}
		return repos.Batches.Delete(ctx, b.ID)
	})
	if err != nil {
		return err
	}
	uc.afterCommit(ctx, actor, b, out, "lote eliminado")
	return nil
}

// Get devuelve el lote con sus procesos y métricas.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.BatchResponse, error) {
	b, err := uc.batches.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	b.Processes, err = uc.processes.ListByBatch(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	return toBatchResponse(b), nil
}

// List devuelve los lotes (más recientes primero) filtrados por estado.
func (uc *UseCase) List(ctx context.Context, in dto.BatchListRequest) ([]dto.BatchResponse, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, err
	}
	in.DefaultPage()
	list, err := uc.batches.List(ctx, repository.BatchFilter{Status: in.Status, Limit: in.Limit, Offset: in.Offset})
	if err != nil {
		return nil, err
	}
	out := make([]dto.BatchResponse, 0, len(list))
	for _, b := range list {
		b.Processes, err = uc.processes.ListByBatch(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, *toBatchResponse(b))
	}
	return out, nil
}

// GetProcess devuelve un proceso suelto con sus métricas.
func (uc *UseCase) GetProcess(ctx context.Context, id string) (*dto.ProcessResponse, error) {
	p, err := uc.processes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	res := toProcessResponse(p)
	return &res, nil
}

// ListProcesses lista procesos de todos los lotes, opcionalmente de un lote o de un tipo.
func (uc *UseCase) ListProcesses(ctx context.Context, in dto.ProcessListRequest) ([]dto.ProcessResponse, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, err
	}
	in.DefaultPage()
	list, err := uc.processes.List(ctx, repository.ProcessFilter{
		BatchID:        in.BatchID,
		ProcessingType: in.ProcessingType,
		Limit:          in.Limit,
		Offset:         in.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProcessResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProcessResponse(p))
	}
	return out, nil
}

// NextNumber sugiere el siguiente número de lote del día: DDMMYY- seguido del menor secuencial libre.
func (uc *UseCase) NextNumber(ctx context.Context) (*dto.NextNumberResponse, error) {
	today := uc.now()
	prefix := production.BatchNumberPrefix(today)
	numbers, err := uc.batches.ListNumbersWithPrefix(ctx, prefix)
	if err != nil {
		return nil, err
	}
	used := make([]int, 0, len(numbers))
	for _, n := range numbers {
		if seq, ok := production.ParseSequence(prefix, n); ok {
			used = append(used, seq)
		}
	}
	next := production.NextSequence(used)
	return &dto.NextNumberResponse{
		NextNumber:  next,
		BatchNumber: production.FormatBatchNumber(today, next),
	}, nil
}

// replaceProcesses crea los procesos de la solicitud y los deja en b.Processes.
// Con replace borra antes los procesos existentes del lote.
func (uc *UseCase) replaceProcesses(ctx context.Context, repos repository.Repos, b *entity.Batch, reqs []dto.ProcessRequest, replace bool) error {
	if replace {
		if err := repos.Processes.DeleteByBatch(ctx, b.ID); err != nil {
			return err
		}
	}
	b.Processes = make([]*entity.Process, 0, len(reqs))
	for _, r := range reqs {
		p, err := uc.createProcess(ctx, repos, b, r)
		if err != nil {
			return err
		}
		b.Processes = append(b.Processes, p)
	}
	return nil
}

// createProcess persiste un proceso del lote. La validación ya ocurrió en el llamador.
func (uc *UseCase) createProcess(ctx context.Context, repos repository.Repos, b *entity.Batch, r dto.ProcessRequest) (*entity.Process, error) {
	p := &entity.Process{
		ID:             uuid.New().String(),
		BatchID:        b.ID,
		ProcessNumber:  *r.ProcessNumber,
		ProcessingType: r.ProcessingType,
		InputTin:       toMaterial(r.InputTinKilos, r.InputTinSnContent, r.InputTinInventoryItemID),
		InputSlag:      toMaterial(r.InputSlagKilos, r.InputSlagSnContent, r.InputSlagInventoryItemID),
		OutputTin:      toMaterial(r.OutputTinKilos, r.OutputTinSnContent, r.OutputTinInventoryItemID),
		OutputSlag:     toMaterial(r.OutputSlagKilos, r.OutputSlagSnContent, r.OutputSlagInventoryItemID),
		Notes:          r.Notes,
		CreatedAt:      uc.now(),
	}
	if err := repos.Processes.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func transitionAction(wasCompleted, isCompleted bool) string {
	switch {
	case wasCompleted && isCompleted:
		return ActionReposted
	case wasCompleted:
		return ActionReverted
	case isCompleted:
		return ActionCompleted
	}
	return ""
}

// afterCommit publica eventos del ledger y notifica a contabilidad. Nada de esto puede fallar la operación.
func (uc *UseCase) afterCommit(ctx context.Context, actor string, b *entity.Batch, out outcome, msg string) {
	uc.dispatcher.Dispatch(ctx, out.postings)
	if out.action != "" {
		ev := BatchEvent{
			BatchID:     b.ID,
			BatchNumber: b.BatchNumber,
			Action:      out.action,
			Status:      b.Status,
			Postings:    len(out.postings),
			OccurredAt:  uc.now(),
			Actor:       actor,
		}
		if err := uc.accounting.Publish(ctx, ev); err != nil {
			uc.log.Warn().Err(err).Str("batch_id", b.ID).Str("action", out.action).Msg("no se pudo notificar a contabilidad")
		}
	}
	uc.log.Info().
		Str("batch_id", b.ID).
		Str("batch_number", b.BatchNumber).
		Str("status", b.Status).
		Int("postings", len(out.postings)).
		Str("actor", actor).
		Msg(msg)
}
