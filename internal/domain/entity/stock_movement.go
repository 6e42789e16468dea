package entity

import "time"

// MovementType dirección del movimiento. Quantity siempre es positiva.
type MovementType string

const (
	MovementAdd      MovementType = "ADD"
	MovementRemove   MovementType = "REMOVE"
	MovementTransfer MovementType = "TRANSFER"
)

// Valid informa si el tipo es uno de los conocidos.
func (t MovementType) Valid() bool {
	switch t {
	case MovementAdd, MovementRemove, MovementTransfer:
		return true
	}
	return false
}

// StockMovement registro inmutable de un cambio de cantidad (bitácora narrativa).
type StockMovement struct {
	ID           string
	ProductID    string
	BranchID     string
	MovementType MovementType
	Quantity     int64
	Details      string
	TransferID   *string
	CreatedBy    string
	CreatedAt    time.Time
}
