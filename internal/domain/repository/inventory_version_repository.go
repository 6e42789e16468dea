package repository

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// InventoryVersionRepository auditoría append-only de cantidades.
type InventoryVersionRepository interface {
	Create(ctx context.Context, v *entity.InventoryVersion) error
	// ListByInventory en orden de inserción.
	ListByInventory(ctx context.Context, inventoryID string) ([]*entity.InventoryVersion, error)
}
