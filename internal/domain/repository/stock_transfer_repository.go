package repository

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// TransferFilter BranchID coincide con origen o destino. Campos vacíos no filtran.
type TransferFilter struct {
	BranchID   string
	ToBranchID string
	Status     entity.TransferStatus
}

// StockTransferRepository define el puerto de persistencia para traslados.
type StockTransferRepository interface {
	Create(ctx context.Context, t *entity.StockTransfer) error
	GetByID(ctx context.Context, id string) (*entity.StockTransfer, error)
	// GetForUpdate bloquea la fila del traslado; serializa aprobaciones y recepciones concurrentes.
	GetForUpdate(ctx context.Context, id string) (*entity.StockTransfer, error)
	Update(ctx context.Context, t *entity.StockTransfer) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f TransferFilter) ([]*entity.StockTransfer, error)
}
