package repository

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// SiteRepository define el puerto de persistencia para sucursales y bodega.
type SiteRepository interface {
	Create(ctx context.Context, s *entity.Site) error
	GetByID(ctx context.Context, id string) (*entity.Site, error)
	// GetWarehouse devuelve la única sede marcada como bodega; nil si no hay ninguna.
	GetWarehouse(ctx context.Context) (*entity.Site, error)
	List(ctx context.Context) ([]*entity.Site, error)
}
