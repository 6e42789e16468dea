package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product entrada del catálogo. Dato de referencia inmutable para este servicio.
type Product struct {
	ID           string
	Name         string
	Description  string
	Brand        string
	Category     string
	UnitPrice    decimal.Decimal
	Manufacturer string
	CreatedAt    time.Time
}
