package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo filas de inventario por (producto, sede, lote).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

const inventoryColumns = `id, product_id, branch_id, batch_number, expiration_date, quantity, threshold_quantity, received_by, last_checked, created_at, updated_at`

const inventoryOrder = ` ORDER BY branch_id, product_id, batch_number`

// GetByID obtiene una fila por ID.
func (r *InventoryRepo) GetByID(ctx context.Context, id string) (*entity.Inventory, error) {
	return r.getOne(ctx, `SELECT `+inventoryColumns+` FROM inventory WHERE id = $1`, id)
}

// GetByKey lectura sin bloqueo por clave natural.
func (r *InventoryRepo) GetByKey(ctx context.Context, productID, branchID, batchNumber string) (*entity.Inventory, error) {
	return r.getOne(ctx, `SELECT `+inventoryColumns+` FROM inventory
		WHERE product_id = $1 AND branch_id = $2 AND batch_number = $3`,
		productID, branchID, batchNumber)
}

// GetForUpdate obtiene la fila y la bloquea (SELECT FOR UPDATE) hasta el fin de la tx.
func (r *InventoryRepo) GetForUpdate(ctx context.Context, productID, branchID, batchNumber string) (*entity.Inventory, error) {
	return r.getOne(ctx, `SELECT `+inventoryColumns+` FROM inventory
		WHERE product_id = $1 AND branch_id = $2 AND batch_number = $3
		FOR UPDATE`,
		productID, branchID, batchNumber)
}

// CreateIfAbsent inserta la fila si no existe la clave (producto, sede, lote). Dos altas concurrentes no duplican.
func (r *InventoryRepo) CreateIfAbsent(ctx context.Context, inv *entity.Inventory) error {
	query := `INSERT INTO inventory (` + inventoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (product_id, branch_id, batch_number) DO NOTHING`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.ProductID, inv.BranchID, inv.BatchNumber, inv.ExpirationDate, inv.Quantity,
		inv.ThresholdQuantity, inv.ReceivedBy, inv.LastChecked, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%w: invalid inventory row", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert inventory: %w", err)
	}
	return nil
}

// UpdateQuantity fija la cantidad. El CHECK quantity >= 0 es la última barrera contra stock negativo.
func (r *InventoryRepo) UpdateQuantity(ctx context.Context, id string, quantity int64, updatedAt time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE inventory SET quantity = $2, updated_at = $3 WHERE id = $1`, id, quantity, updatedAt)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientStock
		}
		return fmt.Errorf("update inventory quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInventoryNotFound
	}
	return nil
}

// List filas filtradas por sede y/o producto.
func (r *InventoryRepo) List(ctx context.Context, f repository.InventoryFilter) ([]*entity.Inventory, error) {
	var w where
	if f.BranchID != "" {
		w.add("branch_id = ?", f.BranchID)
	}
	if f.ProductID != "" {
		w.add("product_id = ?", f.ProductID)
	}
	return r.list(ctx, `SELECT `+inventoryColumns+` FROM inventory`+w.sql()+inventoryOrder, w.args...)
}

// ListLowStock filas con quantity < threshold_quantity.
func (r *InventoryRepo) ListLowStock(ctx context.Context, branchID string) ([]*entity.Inventory, error) {
	var w where
	w.add("quantity < threshold_quantity")
	if branchID != "" {
		w.add("branch_id = ?", branchID)
	}
	return r.list(ctx, `SELECT `+inventoryColumns+` FROM inventory`+w.sql()+inventoryOrder, w.args...)
}

// ListExpired filas con expiration_date <= today.
func (r *InventoryRepo) ListExpired(ctx context.Context, branchID string, today time.Time) ([]*entity.Inventory, error) {
	var w where
	w.add("expiration_date IS NOT NULL AND expiration_date <= ?::date", today.Format("2006-01-02"))
	if branchID != "" {
		w.add("branch_id = ?", branchID)
	}
	return r.list(ctx, `SELECT `+inventoryColumns+` FROM inventory`+w.sql()+inventoryOrder, w.args...)
}

func (r *InventoryRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Inventory, error) {
	inv, err := scanInventory(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	return inv, nil
}

func (r *InventoryRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Inventory, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()
	var list []*entity.Inventory
	for rows.Next() {
		inv, err := scanInventory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

func scanInventory(row pgx.Row) (*entity.Inventory, error) {
	var inv entity.Inventory
	err := row.Scan(&inv.ID, &inv.ProductID, &inv.BranchID, &inv.BatchNumber, &inv.ExpirationDate,
		&inv.Quantity, &inv.ThresholdQuantity, &inv.ReceivedBy, &inv.LastChecked, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
