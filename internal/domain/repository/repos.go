package repository

// Repos agrupa los repositorios atados a una misma conexión o transacción.
type Repos struct {
	Users         UserRepository
	Sites         SiteRepository
	Products      ProductRepository
	Inventory     InventoryRepository
	Movements     StockMovementRepository
	Versions      InventoryVersionRepository
	Transfers     StockTransferRepository
	Notifications NotificationRepository
	Sales         SaleRepository
}
