package repository

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// SaleRepository persiste la venta con sus ítems.
type SaleRepository interface {
	Create(ctx context.Context, s *entity.Sale) error
	// List BranchID vacío = todas las sucursales.
	List(ctx context.Context, branchID string) ([]*entity.Sale, error)
}
