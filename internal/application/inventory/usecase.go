package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/refineria-api/internal/application/dto"
	"github.com/jhoicas/refineria-api/internal/application/validation"
	"github.com/jhoicas/refineria-api/internal/domain"
	"github.com/jhoicas/refineria-api/internal/domain/entity"
	"github.com/jhoicas/refineria-api/internal/domain/repository"
	"github.com/jhoicas/refineria-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// UseCase casos de uso de artículos y del ledger manual (ajustes, reversiones, notas, consultas).
// Toda escritura de cantidades pasa por el Ledger dentro de txRunner.
type UseCase struct {
	txRunner     TxRunner
	items        repository.InventoryItemRepository
	transactions repository.InventoryTransactionRepository
	ledger       *Ledger
	dispatcher   *Dispatcher
	validate     *validation.Validator
	now          func() time.Time
	log          *logger.Logger
}

// Deps dependencias del caso de uso.
type Deps struct {
	TxRunner     TxRunner
	Items        repository.InventoryItemRepository
	Transactions repository.InventoryTransactionRepository
	Ledger       *Ledger
	Dispatcher   *Dispatcher
	Validator    *validation.Validator
	Now          func() time.Time
	Log          *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(d Deps) *UseCase {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Validator == nil {
		d.Validator = validation.New()
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	return &UseCase{
		txRunner:     d.TxRunner,
		items:        d.Items,
		transactions: d.Transactions,
		ledger:       d.Ledger,
		dispatcher:   d.Dispatcher,
		validate:     d.Validator,
		now:          d.Now,
		log:          d.Log,
	}
}

// CreateItem crea el artículo con cantidad 0 y, si viene cantidad inicial, la registra como ajuste
// en la misma transacción.
func (uc *UseCase) CreateItem(ctx context.Context, actor string, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, err
	}
	now := uc.now()
	item := &entity.InventoryItem{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Type:        in.Type,
		Description: in.Description,
		Quantity:    decimal.Zero,
		Unit:        in.Unit,
		SnContent:   in.SnContent,
		Location:    in.Location,
		Status:      entity.ItemStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var postings []*Posting
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		if err := repos.Items.Create(ctx, item); err != nil {
			return err
		}
		if in.Quantity == nil || !in.Quantity.IsPositive() {
			return nil
		}
		p, err := uc.ledger.Post(ctx, repos, PostInput{
			ItemID:        item.ID,
			Quantity:      *in.Quantity,
			Type:          entity.TransactionTypeAdjustment,
			ReferenceType: entity.ReferenceManualAdjustment,
			Notes:         "Existencia inicial",
			Actor:         actor,
		})
		if err != nil {
			return err
		}
		item.Quantity = p.NewQuantity
		postings = append(postings, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.dispatcher.Dispatch(ctx, postings)
	return toItemResponse(item), nil
}

// GetItem obtiene un artículo por ID.
func (uc *UseCase) GetItem(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return toItemResponse(item), nil
}

// ListItems lista artículos con filtros opcionales por tipo y estado.
func (uc *UseCase) ListItems(ctx context.Context, in dto.ItemListRequest) ([]dto.ItemResponse, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, err
	}
	in.DefaultPage()
	list, err := uc.items.List(ctx, repository.ItemFilter{Type: in.Type, Status: in.Status, Limit: in.Limit, Offset: in.Offset})
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		out = append(out, *toItemResponse(it))
	}
	return out, nil
}

// UpdateItem actualiza los campos descriptivos. La cantidad no es editable.
func (uc *UseCase) UpdateItem(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, err
	}
	item, err := uc.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		item.Name = *in.Name
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.SnContent != nil {
		item.SnContent = *in.SnContent
	}
	if in.Location != nil {
		item.Location = *in.Location
	}
	item.UpdatedAt = uc.now()
	if err := uc.items.Update(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// ArchiveItem marca el artículo como archivado. Su historial en el ledger se conserva.
func (uc *UseCase) ArchiveItem(ctx context.Context, id string) error {
	item, err := uc.items.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	if item.IsArchived() {
		return nil
	}
	item.Status = entity.ItemStatusArchived
	item.UpdatedAt = uc.now()
	return uc.items.Update(ctx, item)
}

// Adjust registra un ajuste manual con signo sobre un artículo.
func (uc *UseCase) Adjust(ctx context.Context, actor string, in dto.AdjustmentRequest) (*dto.TransactionResponse, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, err
	}
	var posting *Posting
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		p, err := uc.ledger.Post(ctx, repos, PostInput{
			ItemID:        in.InventoryItemID,
			Quantity:      in.Quantity,
			Type:          entity.TransactionTypeAdjustment,
			ReferenceType: entity.ReferenceManualAdjustment,
			UnitPrice:     in.UnitPrice,
			Currency:      in.Currency,
			Notes:         in.Notes,
			Actor:         actor,
		})
		posting = p
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.dispatcher.Dispatch(ctx, []*Posting{posting})
	uc.log.Info().
		Str("item_id", in.InventoryItemID).
		Str("quantity", in.Quantity.String()).
		Str("actor", actor).
		Msg("ajuste de inventario registrado")
	return toTransactionResponse(posting.Transaction), nil
}

// ReverseTransaction anula una transacción puntual del ledger.
func (uc *UseCase) ReverseTransaction(ctx context.Context, actor, transactionID string) (*dto.TransactionResponse, error) {
	var posting *Posting
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		p, err := uc.ledger.ReverseTransaction(ctx, repos, transactionID, actor)
		posting = p
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.dispatcher.Dispatch(ctx, []*Posting{posting})
	return toTransactionResponse(posting.Transaction), nil
}

// UpdateTransactionNotes único cambio permitido sobre una transacción existente.
func (uc *UseCase) UpdateTransactionNotes(ctx context.Context, transactionID, notes string) (*dto.TransactionResponse, error) {
	tx, err := uc.transactions.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.transactions.UpdateNotes(ctx, transactionID, notes); err != nil {
		return nil, err
	}
	tx.Notes = notes
	return toTransactionResponse(tx), nil
}

// ListTransactions consulta el ledger con filtros (artículo, tipo, referencia, rango de fechas).
func (uc *UseCase) ListTransactions(ctx context.Context, in dto.TransactionListRequest) ([]dto.TransactionResponse, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, err
	}
	in.DefaultPage()
	filter := repository.TransactionFilter{
		ItemID:        in.InventoryItemID,
		Type:          in.Type,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		Limit:         in.Limit,
		Offset:        in.Offset,
	}
	if in.FromDate != "" {
		from, _ := validation.ParseDate(in.FromDate)
		filter.From = &from
	}
	if in.ToDate != "" {
		to, _ := validation.ParseDate(in.ToDate)
		if len(in.ToDate) == len(validation.DateLayout) {
			to = to.Add(24*time.Hour - time.Nanosecond)
		}
		if filter.From != nil && to.Before(*filter.From) {
			return nil, domain.NewValidationError("to_date", "debe ser igual o posterior a from_date")
		}
		filter.To = &to
	}
	list, err := uc.transactions.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, *toTransactionResponse(t))
	}
	return out, nil
}

// VerifyItem compara la cantidad del artículo con la suma de los deltas de su ledger.
func (uc *UseCase) VerifyItem(ctx context.Context, id string) (*dto.ItemVerificationResponse, error) {
	item, err := uc.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	sum, err := uc.transactions.SumByItem(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.ItemVerificationResponse{
		InventoryItemID: id,
		Quantity:        item.Quantity,
		LedgerSum:       sum,
		Consistent:      item.Quantity.Equal(sum),
	}, nil
}

func toItemResponse(i *entity.InventoryItem) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:          i.ID,
		Name:        i.Name,
		Type:        i.Type,
		Description: i.Description,
		Quantity:    i.Quantity,
		Unit:        i.Unit,
		SnContent:   i.SnContent,
		Location:    i.Location,
		Status:      i.Status,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

func toTransactionResponse(t *entity.InventoryTransaction) *dto.TransactionResponse {
	return &dto.TransactionResponse{
		ID:                    t.ID,
		InventoryItemID:       t.InventoryItemID,
		Type:                  t.Type,
		Quantity:              t.Quantity,
		UnitPrice:             t.UnitPrice,
		Currency:              t.Currency,
		ReferenceType:         t.ReferenceType,
		ReferenceID:           t.ReferenceID,
		ReversesTransactionID: t.ReversesTransactionID,
		Notes:                 t.Notes,
		CreatedBy:             t.CreatedBy,
		CreatedAt:             t.CreatedAt,
	}
}
