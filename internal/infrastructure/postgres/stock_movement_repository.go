package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo bitácora append-only de movimientos de stock.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create registra un movimiento. No hay Update ni Delete.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, branch_id, movement_type, quantity, details, transfer_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, m.BranchID, string(m.MovementType), m.Quantity, m.Details,
		m.TransferID, m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// List movimientos en orden de inserción, con filtros opcionales de sede, producto, traslado y rango de fechas.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	var w where
	if f.BranchID != "" {
		w.add("branch_id = ?", f.BranchID)
	}
	if f.ProductID != "" {
		w.add("product_id = ?", f.ProductID)
	}
	if f.TransferID != "" {
		w.add("transfer_id = ?", f.TransferID)
	}
	if f.From != nil {
		w.add("created_at >= ?", *f.From)
	}
	if f.To != nil {
		w.add("created_at <= ?", *f.To)
	}
	query := `
		SELECT id, product_id, branch_id, movement_type, quantity, details, transfer_id, created_by, created_at
		FROM stock_movements` + w.sql() + ` ORDER BY seq`
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var mt string
		if err := rows.Scan(&m.ID, &m.ProductID, &m.BranchID, &mt, &m.Quantity, &m.Details,
			&m.TransferID, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		m.MovementType = entity.MovementType(mt)
		list = append(list, &m)
	}
	return list, rows.Err()
}
