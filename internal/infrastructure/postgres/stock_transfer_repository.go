package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.StockTransferRepository = (*StockTransferRepo)(nil)

// StockTransferRepo traslados bodega -> sucursal.
type StockTransferRepo struct {
	q Querier
}

// NewStockTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockTransferRepository(q Querier) *StockTransferRepo {
	return &StockTransferRepo{q: q}
}

const transferColumns = `id, from_branch_id, to_branch_id, product_id, batch_number, quantity, notes, status, approved,
	requested_by, approved_by, processed_by, processed_at, received_by, received_at, confirmed_by, confirmed_at,
	rejection_reason, is_warehouse_initiated, quantity_received, damaged_quantity, created_at, updated_at`

// Create persiste un traslado nuevo.
func (r *StockTransferRepo) Create(ctx context.Context, t *entity.StockTransfer) error {
	query := `INSERT INTO stock_transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.FromBranchID, t.ToBranchID, t.ProductID, t.BatchNumber, t.Quantity, t.Notes,
		string(t.Status), t.Approved, t.RequestedBy, t.ApprovedBy, t.ProcessedBy, t.ProcessedAt,
		t.ReceivedBy, t.ReceivedAt, t.ConfirmedBy, t.ConfirmedAt, t.RejectionReason,
		t.IsWarehouseInitiated, t.QuantityReceived, t.DamagedQuantity, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert stock transfer: %w", err)
	}
	return nil
}

// GetByID lectura sin bloqueo.
func (r *StockTransferRepo) GetByID(ctx context.Context, id string) (*entity.StockTransfer, error) {
	return r.getOne(ctx, `SELECT `+transferColumns+` FROM stock_transfers WHERE id = $1`, id)
}

// GetForUpdate bloquea el traslado. Dos recepciones concurrentes se serializan aquí:
// la segunda ve el estado RECEIVED ya confirmado.
func (r *StockTransferRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockTransfer, error) {
	return r.getOne(ctx, `SELECT `+transferColumns+` FROM stock_transfers WHERE id = $1 FOR UPDATE`, id)
}

// Update persiste los campos mutables del ciclo de vida.
func (r *StockTransferRepo) Update(ctx context.Context, t *entity.StockTransfer) error {
	query := `
		UPDATE stock_transfers SET
			status = $2, approved = $3, approved_by = $4, processed_by = $5, processed_at = $6,
			received_by = $7, received_at = $8, confirmed_by = $9, confirmed_at = $10,
			rejection_reason = $11, quantity_received = $12, damaged_quantity = $13, updated_at = $14
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		t.ID, string(t.Status), t.Approved, t.ApprovedBy, t.ProcessedBy, t.ProcessedAt,
		t.ReceivedBy, t.ReceivedAt, t.ConfirmedBy, t.ConfirmedAt,
		t.RejectionReason, t.QuantityReceived, t.DamagedQuantity, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update stock transfer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el traslado. Los movimientos que lo referencian quedan con transfer_id NULL.
func (r *StockTransferRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM stock_transfers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete stock transfer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List traslados más recientes primero. BranchID filtra por origen o destino.
func (r *StockTransferRepo) List(ctx context.Context, f repository.TransferFilter) ([]*entity.StockTransfer, error) {
	var w where
	if f.BranchID != "" {
		w.add("(from_branch_id = ? OR to_branch_id = ?)", f.BranchID, f.BranchID)
	}
	if f.ToBranchID != "" {
		w.add("to_branch_id = ?", f.ToBranchID)
	}
	if f.Status != "" {
		w.add("status = ?", string(f.Status))
	}
	rows, err := r.q.Query(ctx, `SELECT `+transferColumns+` FROM stock_transfers`+w.sql()+` ORDER BY created_at DESC`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list stock transfers: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockTransfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock transfer: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *StockTransferRepo) getOne(ctx context.Context, query string, id string) (*entity.StockTransfer, error) {
	t, err := scanTransfer(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock transfer: %w", err)
	}
	return t, nil
}

func scanTransfer(row pgx.Row) (*entity.StockTransfer, error) {
	var t entity.StockTransfer
	var status string
	err := row.Scan(
		&t.ID, &t.FromBranchID, &t.ToBranchID, &t.ProductID, &t.BatchNumber, &t.Quantity, &t.Notes,
		&status, &t.Approved, &t.RequestedBy, &t.ApprovedBy, &t.ProcessedBy, &t.ProcessedAt,
		&t.ReceivedBy, &t.ReceivedAt, &t.ConfirmedBy, &t.ConfirmedAt, &t.RejectionReason,
		&t.IsWarehouseInitiated, &t.QuantityReceived, &t.DamagedQuantity, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Status = entity.TransferStatus(status)
	return &t, nil
}
