package batch

import (
	"context"
	"fmt"

	"github.com/jhoicas/refineria-api/internal/application/dto"
	"github.com/jhoicas/refineria-api/internal/domain"
	"github.com/jhoicas/refineria-api/internal/domain/repository"
)

// checkItemRefs verifica que cada referencia a artículo de los procesos exista.
// Devuelve un único ValidationError con todas las referencias rotas.
func checkItemRefs(ctx context.Context, items repository.InventoryItemRepository, processes []dto.ProcessRequest) error {
	fields := map[string]string{}
	for i, p := range processes {
		refs := []struct {
			name string
			id   *string
		}{
			{"input_tin_inventory_item_id", p.InputTinInventoryItemID},
			{"input_slag_inventory_item_id", p.InputSlagInventoryItemID},
			{"output_tin_inventory_item_id", p.OutputTinInventoryItemID},
			{"output_slag_inventory_item_id", p.OutputSlagInventoryItemID},
		}
		for _, ref := range refs {
			if ref.id == nil || *ref.id == "" {
				continue
			}
			item, err := items.GetByID(ctx, *ref.id)
			if err != nil {
				return err
			}
			if item == nil {
				fields[fmt.Sprintf("processes[%d].%s", i, ref.name)] = "el artículo de inventario no existe"
			}
		}
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
