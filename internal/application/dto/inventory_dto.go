package dto

import (
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// IntakeRequest body para POST /warehouse/receive/ (ingreso manual a bodega).
type IntakeRequest struct {
	ProductID      string `json:"product_id" validate:"required"`
	Quantity       int64  `json:"quantity" validate:"required,gt=0"`
	BatchNumber    string `json:"batch_number,omitempty" validate:"max=100"`
	ExpirationDate string `json:"expiration_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes          string `json:"notes,omitempty" validate:"max=500"`
}

// AdjustInventoryRequest body para POST /inventory/:id/adjust.
type AdjustInventoryRequest struct {
	Delta  int64  `json:"delta" validate:"required,ne=0"`
	Reason string `json:"reason" validate:"required,max=500"`
}

// InventoryResponse fila de inventario.
type InventoryResponse struct {
	ID                string     `json:"id"`
	ProductID         string     `json:"product"`
	BranchID          string     `json:"branch"`
	BatchNumber       string     `json:"batch_number"`
	ExpirationDate    *string    `json:"expiration_date"`
	Quantity          int64      `json:"quantity"`
	ThresholdQuantity int64      `json:"threshold_quantity"`
	LowStock          bool       `json:"low_stock"`
	LastChecked       *time.Time `json:"last_checked,omitempty"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// FromInventory mapea la entidad a la respuesta.
func FromInventory(inv *entity.Inventory) InventoryResponse {
	r := InventoryResponse{
		ID:                inv.ID,
		ProductID:         inv.ProductID,
		BranchID:          inv.BranchID,
		BatchNumber:       inv.BatchNumber,
		Quantity:          inv.Quantity,
		ThresholdQuantity: inv.ThresholdQuantity,
		LowStock:          inv.IsLowStock(),
		LastChecked:       inv.LastChecked,
		UpdatedAt:         inv.UpdatedAt,
	}
	if inv.ExpirationDate != nil {
		d := inv.ExpirationDate.Format(DateLayout)
		r.ExpirationDate = &d
	}
	return r
}

// FromInventories mapea una lista.
func FromInventories(list []*entity.Inventory) []InventoryResponse {
	out := make([]InventoryResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, FromInventory(inv))
	}
	return out
}

// LowStockResponse fila bajo umbral con sugerencia de reposición.
type LowStockResponse struct {
	InventoryResponse
	SuggestedOrderQty int64 `json:"suggested_order_qty"`
}

// AdjustmentResponse resultado de un ajuste del ledger.
type AdjustmentResponse struct {
	Inventory        InventoryResponse `json:"inventory"`
	PreviousQuantity int64             `json:"previous_quantity"`
	NewQuantity      int64             `json:"new_quantity"`
	MovementID       string            `json:"movement_id"`
	VersionID        string            `json:"version_id"`
}

// MovementResponse movimiento de la bitácora.
type MovementResponse struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"product"`
	BranchID     string    `json:"branch"`
	MovementType string    `json:"movement_type"`
	Quantity     int64     `json:"quantity"`
	Details      string    `json:"details"`
	TransferID   *string   `json:"transfer,omitempty"`
	CreatedBy    string    `json:"created_by"`
	Date         time.Time `json:"date"`
}

// FromMovements mapea una lista de movimientos.
func FromMovements(list []*entity.StockMovement) []MovementResponse {
	out := make([]MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, MovementResponse{
			ID:           m.ID,
			ProductID:    m.ProductID,
			BranchID:     m.BranchID,
			MovementType: string(m.MovementType),
			Quantity:     m.Quantity,
			Details:      m.Details,
			TransferID:   m.TransferID,
			CreatedBy:    m.CreatedBy,
			Date:         m.CreatedAt,
		})
	}
	return out
}

// VersionResponse versión de auditoría.
type VersionResponse struct {
	ID               string    `json:"id"`
	PreviousQuantity int64     `json:"previous_quantity"`
	NewQuantity      int64     `json:"new_quantity"`
	Delta            int64     `json:"delta"`
	ModifiedBy       string    `json:"modified_by"`
	MovementID       *string   `json:"movement,omitempty"`
	ModifiedAt       time.Time `json:"modified_at"`
}

// HistoryResponse cadena de versiones con verificación por replay.
type HistoryResponse struct {
	Inventory  InventoryResponse `json:"inventory"`
	Versions   []VersionResponse `json:"versions"`
	Replayed   int64             `json:"replayed_quantity"`
	Consistent bool              `json:"consistent"`
	Gaps       []int             `json:"gaps,omitempty"`
}

// FromVersions mapea la cadena de versiones.
func FromVersions(list []*entity.InventoryVersion) []VersionResponse {
	out := make([]VersionResponse, 0, len(list))
	for _, v := range list {
		out = append(out, VersionResponse{
			ID:               v.ID,
			PreviousQuantity: v.PreviousQuantity,
			NewQuantity:      v.NewQuantity,
			Delta:            v.Delta(),
			ModifiedBy:       v.ModifiedBy,
			MovementID:       v.MovementID,
			ModifiedAt:       v.ModifiedAt,
		})
	}
	return out
}
