package postgres

import "github.com/jhoicas/Farmacia-api/internal/domain/repository"

// NewRepos arma el conjunto de repositorios sobre un pool o una tx.
func NewRepos(q Querier) repository.Repos {
	return repository.Repos{
		Users:         NewUserRepository(q),
		Sites:         NewSiteRepository(q),
		Products:      NewProductRepository(q),
		Inventory:     NewInventoryRepository(q),
		Movements:     NewStockMovementRepository(q),
		Versions:      NewInventoryVersionRepository(q),
		Transfers:     NewStockTransferRepository(q),
		Notifications: NewNotificationRepository(q),
		Sales:         NewSaleRepository(q),
	}
}
