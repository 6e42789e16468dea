package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod medio de pago en punto de venta.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "CASH"
	PaymentMomo PaymentMethod = "MOMO"
	PaymentCard PaymentMethod = "CARD"
)

// Valid informa si el medio de pago es soportado.
func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCash, PaymentMomo, PaymentCard:
		return true
	}
	return false
}

// Sale venta en una sucursal. El descuento de stock se hace por ítem a través del ledger.
type Sale struct {
	ID            string
	BranchID      string
	CustomerID    *string
	PaymentMethod PaymentMethod
	TotalAmount   decimal.Decimal
	ProcessedBy   string
	ReceiptSent   bool
	EmailStatus   string
	SMSStatus     string
	Date          time.Time
	Items         []SaleItem
}

// SaleItem línea de venta.
type SaleItem struct {
	ID          string
	SaleID      string
	ProductID   string
	BatchNumber string
	Quantity    int64
	PriceAtSale decimal.Decimal
}

// Subtotal cantidad × precio de venta.
func (i SaleItem) Subtotal() decimal.Decimal {
	return i.PriceAtSale.Mul(decimal.NewFromInt(i.Quantity))
}
