package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BatchRequest body para POST /api/batches y PUT /api/batches/:id.
// En PUT la lista de procesos reemplaza completa a la existente.
type BatchRequest struct {
	BatchNumber string           `json:"batch_number" validate:"required,max=50"`
	Date        string           `json:"date" validate:"required,date"`
	Status      string           `json:"status" validate:"required,oneof=in_progress completed cancelled"`
	Notes       string           `json:"notes"`
	Processes   []ProcessRequest `json:"processes" validate:"omitempty,dive"`
}

// ProcessRequest un proceso dentro del lote. Los ocho campos numéricos y las cuatro referencias son opcionales.
type ProcessRequest struct {
	ProcessNumber  *int   `json:"process_number" validate:"required,min=1"`
	ProcessingType string `json:"processing_type" validate:"required,oneof=kaldo_furnace refining_kettle"`

	InputTinKilos           *decimal.Decimal `json:"input_tin_kilos" validate:"omitempty,min=0,decimal_places=4"`
	InputTinSnContent       *decimal.Decimal `json:"input_tin_sn_content" validate:"omitempty,min=0,max=100,decimal_places=4"`
	InputTinInventoryItemID *string          `json:"input_tin_inventory_item_id" validate:"omitempty,uuid"`

	InputSlagKilos           *decimal.Decimal `json:"input_slag_kilos" validate:"omitempty,min=0,decimal_places=4"`
	InputSlagSnContent       *decimal.Decimal `json:"input_slag_sn_content" validate:"omitempty,min=0,max=100,decimal_places=4"`
	InputSlagInventoryItemID *string          `json:"input_slag_inventory_item_id" validate:"omitempty,uuid"`

	OutputTinKilos           *decimal.Decimal `json:"output_tin_kilos" validate:"omitempty,min=0,decimal_places=4"`
	OutputTinSnContent       *decimal.Decimal `json:"output_tin_sn_content" validate:"omitempty,min=0,max=100,decimal_places=4"`
	OutputTinInventoryItemID *string          `json:"output_tin_inventory_item_id" validate:"omitempty,uuid"`

	OutputSlagKilos           *decimal.Decimal `json:"output_slag_kilos" validate:"omitempty,min=0,decimal_places=4"`
	OutputSlagSnContent       *decimal.Decimal `json:"output_slag_sn_content" validate:"omitempty,min=0,max=100,decimal_places=4"`
	OutputSlagInventoryItemID *string          `json:"output_slag_inventory_item_id" validate:"omitempty,uuid"`

	Notes string `json:"notes"`
}

// UpdateBatchStatusRequest body para PUT /api/batches/:id/status.
type UpdateBatchStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=in_progress completed cancelled"`
}

// BatchListRequest filtros de GET /api/batches.
type BatchListRequest struct {
	PageRequest
	Status string `query:"status" json:"status" validate:"omitempty,oneof=in_progress completed cancelled"`
}

// ProcessListRequest filtros de GET /api/processes.
type ProcessListRequest struct {
	PageRequest
	BatchID        string `query:"batch_id" json:"batch_id" validate:"omitempty,uuid"`
	ProcessingType string `query:"processing_type" json:"processing_type" validate:"omitempty,oneof=kaldo_furnace refining_kettle"`
}

// MaterialResponse un movimiento de material de un proceso.
type MaterialResponse struct {
	Kilos           *decimal.Decimal `json:"kilos"`
	SnContent       *decimal.Decimal `json:"sn_content"`
	InventoryItemID *string          `json:"inventory_item_id"`
}

// ProcessResponse proceso con sus métricas derivadas (solo lectura).
type ProcessResponse struct {
	ID             string           `json:"id"`
	BatchID        string           `json:"batch_id"`
	ProcessNumber  int              `json:"process_number"`
	ProcessingType string           `json:"processing_type"`
	InputTin       MaterialResponse `json:"input_tin"`
	InputSlag      MaterialResponse `json:"input_slag"`
	OutputTin      MaterialResponse `json:"output_tin"`
	OutputSlag     MaterialResponse `json:"output_slag"`
	Notes          string           `json:"notes"`
	YieldPct       decimal.Decimal  `json:"yield_pct"`
	SnRecoveryPct  decimal.Decimal  `json:"sn_recovery_pct"`
}

// BatchResponse lote con sus procesos.
type BatchResponse struct {
	ID          string            `json:"id"`
	BatchNumber string            `json:"batch_number"`
	Date        string            `json:"date"`
	Status      string            `json:"status"`
	Notes       string            `json:"notes"`
	Processes   []ProcessResponse `json:"processes"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// NextNumberResponse respuesta de GET /api/batches/next-number.
type NextNumberResponse struct {
	NextNumber  int    `json:"next_number"`
	BatchNumber string `json:"batch_number"`
}
