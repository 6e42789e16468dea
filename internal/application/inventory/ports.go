package inventory

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback y ninguna escritura queda visible.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repos) error) error
}
