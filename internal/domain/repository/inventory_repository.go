package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// InventoryFilter filtros de listado. BranchID vacío = todas las sedes.
type InventoryFilter struct {
	BranchID  string
	ProductID string
}

// InventoryRepository puerto de la tabla inventory. Los métodos de escritura solo los usa el ledger.
type InventoryRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Inventory, error)
	// GetByKey lectura sin bloqueo por (product, branch, batch). nil, nil si no existe.
	GetByKey(ctx context.Context, productID, branchID, batchNumber string) (*entity.Inventory, error)
	// GetForUpdate bloquea la fila (product, branch, batch) hasta el fin de la transacción (SELECT FOR UPDATE).
	// Devuelve nil, nil si no existe.
	GetForUpdate(ctx context.Context, productID, branchID, batchNumber string) (*entity.Inventory, error)
	// CreateIfAbsent inserta la fila con cantidad 0 si la clave no existe (no falla por conflicto).
	CreateIfAbsent(ctx context.Context, inv *entity.Inventory) error
	UpdateQuantity(ctx context.Context, id string, quantity int64, updatedAt time.Time) error
	List(ctx context.Context, f InventoryFilter) ([]*entity.Inventory, error)
	ListLowStock(ctx context.Context, branchID string) ([]*entity.Inventory, error)
	ListExpired(ctx context.Context, branchID string, today time.Time) ([]*entity.Inventory, error)
}
