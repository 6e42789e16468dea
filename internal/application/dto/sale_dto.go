package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// SaleItemRequest línea de venta. price_at_sale vacío = precio de catálogo.
type SaleItemRequest struct {
	ProductID   string           `json:"product_id" validate:"required"`
	BatchNumber string           `json:"batch_number,omitempty"`
	Quantity    int64            `json:"quantity" validate:"required,gt=0"`
	PriceAtSale *decimal.Decimal `json:"price_at_sale,omitempty"`
}

// CreateSaleRequest body para POST /sales/.
type CreateSaleRequest struct {
	BranchID      string            `json:"branch_id,omitempty"`
	CustomerID    string            `json:"customer_id,omitempty"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=CASH MOMO CARD"`
	Items         []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

// SaleItemResponse línea serializada.
type SaleItemResponse struct {
	ProductID   string          `json:"product"`
	BatchNumber string          `json:"batch_number,omitempty"`
	Quantity    int64           `json:"quantity"`
	PriceAtSale decimal.Decimal `json:"price_at_sale"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// SaleResponse venta serializada.
type SaleResponse struct {
	ID            string             `json:"id"`
	BranchID      string             `json:"branch"`
	CustomerID    *string            `json:"customer,omitempty"`
	PaymentMethod string             `json:"payment_method"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	ProcessedBy   string             `json:"processed_by"`
	Date          time.Time          `json:"date"`
	Items         []SaleItemResponse `json:"items"`
}

// FromSale mapea la entidad.
func FromSale(s *entity.Sale) SaleResponse {
	items := make([]SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, SaleItemResponse{
			ProductID:   it.ProductID,
			BatchNumber: it.BatchNumber,
			Quantity:    it.Quantity,
			PriceAtSale: it.PriceAtSale,
			Subtotal:    it.Subtotal(),
		})
	}
	return SaleResponse{
		ID:            s.ID,
		BranchID:      s.BranchID,
		CustomerID:    s.CustomerID,
		PaymentMethod: string(s.PaymentMethod),
		TotalAmount:   s.TotalAmount,
		ProcessedBy:   s.ProcessedBy,
		Date:          s.Date,
		Items:         items,
	}
}

// FromSales mapea una lista.
func FromSales(list []*entity.Sale) []SaleResponse {
	out := make([]SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, FromSale(s))
	}
	return out
}
