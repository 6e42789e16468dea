package entity

import "time"

// InventoryVersion auditoría antes/después de un ajuste sobre una fila de Inventory.
type InventoryVersion struct {
	ID               string
	InventoryID      string
	PreviousQuantity int64
	NewQuantity      int64
	ModifiedBy       string
	MovementID       *string
	ModifiedAt       time.Time
}

// Delta variación con signo que registró esta versión.
func (v *InventoryVersion) Delta() int64 {
	return v.NewQuantity - v.PreviousQuantity
}
