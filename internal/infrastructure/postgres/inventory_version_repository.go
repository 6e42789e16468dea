package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.InventoryVersionRepository = (*InventoryVersionRepo)(nil)

// InventoryVersionRepo snapshots previous/new por cada cambio de cantidad.
type InventoryVersionRepo struct {
	q Querier
}

// NewInventoryVersionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryVersionRepository(q Querier) *InventoryVersionRepo {
	return &InventoryVersionRepo{q: q}
}

// Create agrega una versión.
func (r *InventoryVersionRepo) Create(ctx context.Context, v *entity.InventoryVersion) error {
	query := `
		INSERT INTO inventory_versions (id, inventory_id, previous_quantity, new_quantity, modified_by, movement_id, modified_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		v.ID, v.InventoryID, v.PreviousQuantity, v.NewQuantity, v.ModifiedBy, v.MovementID, v.ModifiedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inventory version: %w", err)
	}
	return nil
}

// ListByInventory versiones de una fila en orden de inserción (seq), no por modified_at:
// dos cambios en el mismo instante conservan su orden real.
func (r *InventoryVersionRepo) ListByInventory(ctx context.Context, inventoryID string) ([]*entity.InventoryVersion, error) {
	query := `
		SELECT id, inventory_id, previous_quantity, new_quantity, modified_by, movement_id, modified_at
		FROM inventory_versions WHERE inventory_id = $1 ORDER BY seq`
	rows, err := r.q.Query(ctx, query, inventoryID)
	if err != nil {
		return nil, fmt.Errorf("list inventory versions: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryVersion
	for rows.Next() {
		var v entity.InventoryVersion
		if err := rows.Scan(&v.ID, &v.InventoryID, &v.PreviousQuantity, &v.NewQuantity,
			&v.ModifiedBy, &v.MovementID, &v.ModifiedAt); err != nil {
			return nil, fmt.Errorf("scan inventory version: %w", err)
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}
