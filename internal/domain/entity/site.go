package entity

import "time"

// Site representa una sucursal o la bodega central (IsWarehouse).
// Solo debe existir una bodega; lo garantiza un índice único parcial en la BD.
type Site struct {
	ID          string
	Name        string
	Location    string
	City        string
	Region      string
	BranchCode  string
	PhoneNumber string
	Email       string
	IsWarehouse bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
