package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
// Los mensajes viajan tal cual al cliente HTTP, por eso van en inglés.
var (
	ErrNotFound             = errors.New("resource not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrDuplicate            = errors.New("duplicate resource")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrInsufficientStock    = errors.New("Insufficient stock")
	ErrInvalidTransferState = errors.New("invalid transfer state")
)

// Variantes que conservan la categoría (errors.Is) pero dan un mensaje más preciso.
var (
	ErrInventoryNotFound = fmt.Errorf("inventory record not found: %w", ErrNotFound)
	ErrAlreadyReceived   = fmt.Errorf("Already received: %w", ErrInvalidTransferState)
	ErrAlreadyProcessed  = fmt.Errorf("Transfer already processed or rejected: %w", ErrInvalidTransferState)
	ErrNoWarehouse       = fmt.Errorf("warehouse site not configured: %w", ErrNotFound)
)
