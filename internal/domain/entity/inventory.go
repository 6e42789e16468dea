package entity

import "time"

// DefaultThresholdQuantity umbral de stock bajo cuando la fila no define uno.
const DefaultThresholdQuantity int64 = 10

// Inventory cantidad de un producto en una sede para un lote concreto.
// Clave única: (ProductID, BranchID, BatchNumber). BatchNumber vacío = sin lote.
// Quantity solo cambia a través del ledger (application/inventory.Ledger).
type Inventory struct {
	ID                string
	ProductID         string
	BranchID          string
	BatchNumber       string
	ExpirationDate    *time.Time
	Quantity          int64
	ThresholdQuantity int64
	ReceivedBy        *string
	LastChecked       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsLowStock cantidad estrictamente por debajo del umbral.
func (i *Inventory) IsLowStock() bool {
	return i.Quantity < i.ThresholdQuantity
}

// IsExpired vencido cuando la fecha de vencimiento es hoy o anterior.
func (i *Inventory) IsExpired(today time.Time) bool {
	if i.ExpirationDate == nil {
		return false
	}
	return !truncateDay(*i.ExpirationDate).After(truncateDay(today))
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
