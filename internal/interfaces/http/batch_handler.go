package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/refineria-api/internal/application/batch"
	"github.com/jhoicas/refineria-api/internal/application/dto"
	"github.com/jhoicas/refineria-api/internal/domain"
)

// BatchHandler maneja los lotes de producción y sus procesos.
type BatchHandler struct {
	uc *batch.UseCase
}

// NewBatchHandler construye el handler.
func NewBatchHandler(uc *batch.UseCase) *BatchHandler {
	return &BatchHandler{uc: uc}
}

// Create godoc
// @Summary      Crear lote
// @Description  Un lote creado como completed contabiliza de inmediato los materiales de sus procesos.
// @Tags         batches
// @Accept       json
// @Produce      json
// @Param        X-Actor  header  string            false  "Usuario que origina la operación"
// @Param        body     body    dto.BatchRequest  true   "Lote con sus procesos"
// @Success      201      {object}  dto.BatchResponse
// @Failure      409      {object}  dto.ErrorResponse
// @Failure      422      {object}  dto.ErrorResponse
// @Router       /api/batches [post]
func (h *BatchHandler) Create(c *fiber.Ctx) error {
	var in dto.BatchRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener lote por ID
// @Tags         batches
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.BatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batches/{id} [get]
func (h *BatchHandler) GetByID(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return writeError(c, domain.ErrNotFound)
	}
	out, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar lotes
// @Tags         batches
// @Produce      json
// @Param        status  query  string  false  "in_progress | completed | cancelled"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {array}   dto.BatchResponse
// @Failure      422     {object}  dto.ErrorResponse
// @Router       /api/batches [get]
func (h *BatchHandler) List(c *fiber.Ctx) error {
	in := dto.BatchListRequest{PageRequest: pageFromQuery(c), Status: c.Query("status")}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// NextNumber godoc
// @Summary      Siguiente número de lote del día
// @Tags         batches
// @Produce      json
// @Success      200  {object}  dto.NextNumberResponse
// @Router       /api/batches/next-number [get]
func (h *BatchHandler) NextNumber(c *fiber.Ctx) error {
	out, err := h.uc.NextNumber(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar lote
// @Description  La lista de procesos reemplaza a la existente. Si el lote estaba completado se revierte y se vuelve a contabilizar.
// @Tags         batches
// @Accept       json
// @Produce      json
// @Param        X-Actor  header  string            false  "Usuario que origina la operación"
// @Param        id       path    string            true   "ID del lote"
// @Param        body     body    dto.BatchRequest  true   "Lote con sus procesos"
// @Success      200      {object}  dto.BatchResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Failure      409      {object}  dto.ErrorResponse
// @Failure      422      {object}  dto.ErrorResponse
// @Router       /api/batches/{id} [put]
func (h *BatchHandler) Update(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return writeError(c, domain.ErrNotFound)
	}
	var in dto.BatchRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetActor(c), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado del lote
// @Tags         batches
// @Accept       json
// @Produce      json
// @Param        X-Actor  header  string                        false  "Usuario que origina la operación"
// @Param        id       path    string                        true   "ID del lote"
// @Param        body     body    dto.UpdateBatchStatusRequest  true   "Nuevo estado"
// @Success      200      {object}  dto.BatchResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Failure      409      {object}  dto.ErrorResponse
// @Router       /api/batches/{id}/status [put]
func (h *BatchHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return writeError(c, domain.ErrNotFound)
	}
	var in dto.UpdateBatchStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), GetActor(c), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar lote
// @Description  Si el lote estaba completado se revierten sus movimientos antes de eliminarlo.
// @Tags         batches
// @Param        X-Actor  header  string  false  "Usuario que origina la operación"
// @Param        id       path    string  true   "ID del lote"
// @Success      204
// @Failure      404      {object}  dto.ErrorResponse
// @Failure      409      {object}  dto.ErrorResponse
// @Router       /api/batches/{id} [delete]
func (h *BatchHandler) Delete(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return writeError(c, domain.ErrNotFound)
	}
	if err := h.uc.Delete(c.UserContext(), GetActor(c), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
