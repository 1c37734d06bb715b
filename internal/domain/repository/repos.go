package repository

// Repos agrupa los repositorios atados a una misma transacción de BD (unidad de trabajo).
// Todo lo escrito a través de un Repos se confirma o se descarta en bloque.
type Repos struct {
	Items        InventoryItemRepository
	Transactions InventoryTransactionRepository
	Batches      BatchRepository
	Processes    ProcessRepository
}
