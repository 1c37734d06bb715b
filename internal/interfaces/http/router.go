package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/refineria-api/internal/application/batch"
	"github.com/jhoicas/refineria-api/internal/application/inventory"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	InventoryUC *inventory.UseCase
	BatchUC     *batch.UseCase
	ServiceName string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	api := app.Group("/api", ActorMiddleware())

	// Lotes de producción
	batches := api.Group("/batches")
	batchHandler := NewBatchHandler(deps.BatchUC)
	batches.Get("/", batchHandler.List)
	batches.Post("/", batchHandler.Create)
	batches.Get("/next-number", batchHandler.NextNumber)
	batches.Get("/:id", batchHandler.GetByID)
	batches.Put("/:id", batchHandler.Update)
	batches.Delete("/:id", batchHandler.Delete)
	batches.Put("/:id/status", batchHandler.UpdateStatus)

	// Procesos (solo lectura)
	processHandler := NewProcessHandler(deps.BatchUC)
	api.Get("/processes", processHandler.List)
	api.Get("/processes/:id", processHandler.GetByID)

	// Inventario y ledger
	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	inv.Get("/items", inventoryHandler.ListItems)
	inv.Post("/items", inventoryHandler.CreateItem)
	inv.Get("/items/:id", inventoryHandler.GetItem)
	inv.Put("/items/:id", inventoryHandler.UpdateItem)
	inv.Delete("/items/:id", inventoryHandler.ArchiveItem)
	inv.Get("/items/:id/verify", inventoryHandler.VerifyItem)
	inv.Post("/adjustments", inventoryHandler.Adjust)
	inv.Get("/transactions", inventoryHandler.ListTransactions)
	inv.Put("/transactions/:id/notes", inventoryHandler.UpdateTransactionNotes)
	inv.Post("/transactions/:id/reverse", inventoryHandler.ReverseTransaction)
}
