package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/refineria-api/internal/application/dto"
	"github.com/jhoicas/refineria-api/internal/domain"
	"github.com/jhoicas/refineria-api/internal/application/inventory"
)

// InventoryHandler maneja artículos de inventario y el ledger de transacciones.
type InventoryHandler struct {
	uc *inventory.UseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.UseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

func pageFromQuery(c *fiber.Ctx) dto.PageRequest {
	return dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
}

// CreateItem godoc
// @Summary      Crear artículo de inventario
// @Description  La cantidad inicial se registra como ajuste en el ledger.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        X-Actor  header  string                     false  "Usuario que origina la operación"
// @Param        body     body    dto.CreateItemRequest      true   "Datos del artículo"
// @Success      201      {object}  dto.ItemResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      422      {object}  dto.ErrorResponse
// @Router       /api/inventory/items [post]
func (h *InventoryHandler) CreateItem(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateItem(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetItem godoc
// @Summary      Obtener artículo por ID
// @Tags         inventory
// @Produce      json
// @Param        id   path  string  true  "ID del artículo"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id} [get]
func (h *InventoryHandler) GetItem(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return writeError(c, domain.ErrNotFound)
	}
	out, err := h.uc.GetItem(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListItems godoc
// @Summary      Listar artículos
// @Tags         inventory
// @Produce      json
// @Param        type    query  string  false  "cassiterite | ingot | finished_tin | slag"
// @Param        status  query  string  false  "active | archived"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {array}   dto.ItemResponse
// @Failure      422     {object}  dto.ErrorResponse
// @Router       /api/inventory/items [get]
func (h *InventoryHandler) ListItems(c *fiber.Ctx) error {
	in := dto.ItemListRequest{
		PageRequest: pageFromQuery(c),
		Type:        c.Query("type"),
		Status:      c.Query("status"),
	}
	out, err := h.uc.ListItems(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateItem godoc
// @Summary      Actualizar datos descriptivos del artículo
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del artículo"
// @Param        body  body  dto.UpdateItemRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ItemResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id} [put]
func (h *InventoryHandler) UpdateItem(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return writeError(c, domain.ErrNotFound)
	}
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateItem(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ArchiveItem godoc
// @Summary      Archivar artículo
// @Description  Los artículos no se eliminan: el ledger los sigue referenciando.
// @Tags         inventory
// @Param        id   path  string  true  "ID del artículo"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id} [delete]
func (h *InventoryHandler) ArchiveItem(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return writeError(c, domain.ErrNotFound)
	}
	if err := h.uc.ArchiveItem(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// VerifyItem godoc
// @Summary      Verificar cantidad contra el ledger
// @Tags         inventory
// @Produce      json
// @Param        id   path  string  true  "ID del artículo"
// @Success      200  {object}  dto.ItemVerificationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id}/verify [get]
func (h *InventoryHandler) VerifyItem(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return writeError(c, domain.ErrNotFound)
	}
	out, err := h.uc.VerifyItem(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Adjust godoc
// @Summary      Registrar ajuste manual
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        X-Actor  header  string                 false  "Usuario que origina la operación"
// @Param        body     body    dto.AdjustmentRequest  true   "Cantidad con signo"
// @Success      201      {object}  dto.TransactionResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Failure      409      {object}  dto.ErrorResponse
// @Failure      422      {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Adjust(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListTransactions godoc
// @Summary      Listar transacciones del ledger
// @Tags         inventory
// @Produce      json
// @Param        inventory_item_id  query  string  false  "ID del artículo"
// @Param        type               query  string  false  "consumption | production | reversal | adjustment"
// @Param        reference_type     query  string  false  "batch | manual_adjustment | transaction_reversal"
// @Param        reference_id       query  string  false  "ID de la referencia"
// @Param        from_date          query  string  false  "YYYY-MM-DD"
// @Param        to_date            query  string  false  "YYYY-MM-DD (inclusive)"
// @Param        limit              query  int     false  "Límite"  default(20)
// @Param        offset             query  int     false  "Offset"  default(0)
// @Success      200  {array}   dto.TransactionResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/inventory/transactions [get]
func (h *InventoryHandler) ListTransactions(c *fiber.Ctx) error {
	in := dto.TransactionListRequest{
		PageRequest:     pageFromQuery(c),
		InventoryItemID: c.Query("inventory_item_id"),
		Type:            c.Query("type"),
		ReferenceType:   c.Query("reference_type"),
		ReferenceID:     c.Query("reference_id"),
		FromDate:        c.Query("from_date"),
		ToDate:          c.Query("to_date"),
	}
	out, err := h.uc.ListTransactions(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateTransactionNotes godoc
// @Summary      Editar notas de una transacción
// @Description  Las notas son el único campo editable de un asiento.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la transacción"
// @Param        body  body  dto.UpdateNotesRequest  true  "Notas"
// @Success      200   {object}  dto.TransactionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/transactions/{id}/notes [put]
func (h *InventoryHandler) UpdateTransactionNotes(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return writeError(c, domain.ErrNotFound)
	}
	var in dto.UpdateNotesRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateTransactionNotes(c.UserContext(), id, in.Notes)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ReverseTransaction godoc
// @Summary      Revertir una transacción
// @Tags         inventory
// @Produce      json
// @Param        X-Actor  header  string  false  "Usuario que origina la operación"
// @Param        id       path    string  true   "ID de la transacción"
// @Success      201      {object}  dto.TransactionResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Failure      409      {object}  dto.ErrorResponse
// @Router       /api/inventory/transactions/{id}/reverse [post]
func (h *InventoryHandler) ReverseTransaction(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return writeError(c, domain.ErrNotFound)
	}
	out, err := h.uc.ReverseTransaction(c.UserContext(), GetActor(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
