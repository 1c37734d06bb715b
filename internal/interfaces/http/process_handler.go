package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/refineria-api/internal/application/batch"
	"github.com/jhoicas/refineria-api/internal/application/dto"
	"github.com/jhoicas/refineria-api/internal/domain"
)

// ProcessHandler consulta procesos fuera de su lote. Se escriben solo a través del lote.
type ProcessHandler struct {
	uc *batch.UseCase
}

// NewProcessHandler construye el handler.
func NewProcessHandler(uc *batch.UseCase) *ProcessHandler {
	return &ProcessHandler{uc: uc}
}

// List godoc
// @Summary      Listar procesos
// @Tags         processes
// @Produce      json
// @Param        batch_id         query  string  false  "ID del lote"
// @Param        processing_type  query  string  false  "kaldo_furnace | refining_kettle"
// @Param        limit            query  int     false  "Límite"  default(20)
// @Param        offset           query  int     false  "Offset"  default(0)
// @Success      200  {array}   dto.ProcessResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/processes [get]
func (h *ProcessHandler) List(c *fiber.Ctx) error {
	in := dto.ProcessListRequest{
		PageRequest:    pageFromQuery(c),
		BatchID:        c.Query("batch_id"),
		ProcessingType: c.Query("processing_type"),
	}
	out, err := h.uc.ListProcesses(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener proceso por ID
// @Tags         processes
// @Produce      json
// @Param        id   path  string  true  "ID del proceso"
// @Success      200  {object}  dto.ProcessResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/processes/{id} [get]
func (h *ProcessHandler) GetByID(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return writeError(c, domain.ErrNotFound)
	}
	out, err := h.uc.GetProcess(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
