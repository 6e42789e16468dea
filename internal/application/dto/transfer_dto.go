package dto

import (
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// CreateTransferRequest body para POST /stock-transfer/ (la sucursal pide a la bodega).
type CreateTransferRequest struct {
	ProductID   string `json:"product_id" validate:"required"`
	Quantity    int64  `json:"quantity" validate:"required,gt=0"`
	BatchNumber string `json:"batch_number,omitempty" validate:"max=100"`
	Notes       string `json:"notes,omitempty" validate:"max=500"`
}

// ApproveTransferRequest body para POST /stock-transfer/approve/:id.
type ApproveTransferRequest struct {
	Action          string `json:"action" validate:"required,oneof=approve reject"`
	RejectionReason string `json:"rejection_reason,omitempty" validate:"max=500"`
}

// DispatchRequest body para POST /warehouse/dispatch/.
type DispatchRequest struct {
	ProductID     string `json:"product_id" validate:"required"`
	Quantity      int64  `json:"quantity" validate:"required,gt=0"`
	DestinationID string `json:"destination_id" validate:"required"`
	BatchNumber   string `json:"batch_number,omitempty" validate:"max=100"`
	Notes         string `json:"notes,omitempty" validate:"max=500"`
}

// ReceiveTransferRequest body opcional para POST /warehouse/receive-transfer/:id.
type ReceiveTransferRequest struct {
	DamagedQuantity int64 `json:"damaged_quantity,omitempty" validate:"gte=0"`
}

// TransferResponse traslado serializado.
type TransferResponse struct {
	ID                   string     `json:"id"`
	TransferID           string     `json:"transfer_id"`
	FromBranchID         string     `json:"from_branch"`
	ToBranchID           string     `json:"to_branch"`
	ProductID            string     `json:"product"`
	BatchNumber          string     `json:"batch_number,omitempty"`
	Quantity             int64      `json:"quantity"`
	Notes                string     `json:"notes,omitempty"`
	Status               string     `json:"status"`
	Approved             bool       `json:"approved"`
	RequestedBy          string     `json:"requested_by"`
	ApprovedBy           *string    `json:"approved_by,omitempty"`
	ProcessedBy          *string    `json:"processed_by,omitempty"`
	ProcessedAt          *time.Time `json:"processed_at,omitempty"`
	ReceivedBy           *string    `json:"received_by,omitempty"`
	ReceivedAt           *time.Time `json:"received_at,omitempty"`
	ConfirmedBy          *string    `json:"confirmed_by,omitempty"`
	ConfirmedAt          *time.Time `json:"confirmed_at,omitempty"`
	RejectionReason      string     `json:"rejection_reason,omitempty"`
	IsWarehouseInitiated bool       `json:"is_warehouse_initiated"`
	QuantityReceived     *int64     `json:"quantity_received,omitempty"`
	DamagedQuantity      int64      `json:"damaged_quantity"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// FromTransfer mapea la entidad a la respuesta. transfer_id se repite por compatibilidad con el frontend.
func FromTransfer(t *entity.StockTransfer) TransferResponse {
	return TransferResponse{
		ID:                   t.ID,
		TransferID:           t.ID,
		FromBranchID:         t.FromBranchID,
		ToBranchID:           t.ToBranchID,
		ProductID:            t.ProductID,
		BatchNumber:          t.BatchNumber,
		Quantity:             t.Quantity,
		Notes:                t.Notes,
		Status:               string(t.Status),
		Approved:             t.Approved,
		RequestedBy:          t.RequestedBy,
		ApprovedBy:           t.ApprovedBy,
		ProcessedBy:          t.ProcessedBy,
		ProcessedAt:          t.ProcessedAt,
		ReceivedBy:           t.ReceivedBy,
		ReceivedAt:           t.ReceivedAt,
		ConfirmedBy:          t.ConfirmedBy,
		ConfirmedAt:          t.ConfirmedAt,
		RejectionReason:      t.RejectionReason,
		IsWarehouseInitiated: t.IsWarehouseInitiated,
		QuantityReceived:     t.QuantityReceived,
		DamagedQuantity:      t.DamagedQuantity,
		CreatedAt:            t.CreatedAt,
		UpdatedAt:            t.UpdatedAt,
	}
}

// FromTransfers mapea una lista.
func FromTransfers(list []*entity.StockTransfer) []TransferResponse {
	out := make([]TransferResponse, 0, len(list))
	for _, t := range list {
		out = append(out, FromTransfer(t))
	}
	return out
}
