package batch

import (
	"github.com/jhoicas/refineria-api/internal/application/dto"
	"github.com/jhoicas/refineria-api/internal/application/validation"
	"github.com/jhoicas/refineria-api/internal/domain/entity"
	"github.com/jhoicas/refineria-api/internal/domain/production"
	"github.com/shopspring/decimal"
)

func toMaterial(kilos, sn *decimal.Decimal, id *string) entity.Material {
	return entity.Material{Kilos: kilos, SnContent: sn, InventoryItemID: normalizeRef(id)}
}

func normalizeRef(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	v := *id
	return &v
}

func toMaterialResponse(m entity.Material) dto.MaterialResponse {
	return dto.MaterialResponse{Kilos: m.Kilos, SnContent: m.SnContent, InventoryItemID: m.InventoryItemID}
}

func toProcessResponse(p *entity.Process) dto.ProcessResponse {
	return dto.ProcessResponse{
		ID:             p.ID,
		BatchID:        p.BatchID,
		ProcessNumber:  p.ProcessNumber,
		ProcessingType: p.ProcessingType,
		InputTin:       toMaterialResponse(p.InputTin),
		InputSlag:      toMaterialResponse(p.InputSlag),
		OutputTin:      toMaterialResponse(p.OutputTin),
		OutputSlag:     toMaterialResponse(p.OutputSlag),
		Notes:          p.Notes,
		YieldPct:       production.Yield(p).Round(2),
		SnRecoveryPct:  production.SnRecovery(p).Round(2),
	}
}

func toBatchResponse(b *entity.Batch) *dto.BatchResponse {
	res := &dto.BatchResponse{
		ID:          b.ID,
		BatchNumber: b.BatchNumber,
		Date:        b.Date.Format(validation.DateLayout),
		Status:      b.Status,
		Notes:       b.Notes,
		Processes:   make([]dto.ProcessResponse, 0, len(b.Processes)),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
	for _, p := range b.Processes {
		res.Processes = append(res.Processes, toProcessResponse(p))
	}
	return res
}
