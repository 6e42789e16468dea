package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/application/notification"
	"github.com/jhoicas/Farmacia-api/internal/application/sales"
	"github.com/jhoicas/Farmacia-api/internal/application/transfer"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

// Pinger lo cumple *pgxpool.Pool; nil = /health sin chequeo de BD.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Transfers *transfer.UseCase
	Stock     *inventory.StockUseCase
	Queries   *inventory.QueryUseCase
	Sales     *sales.UseCase
	Inbox     *notification.InboxUseCase
	DB        Pinger
	JWTSecret string
	Log       *logger.Logger
}

// Router registra las rutas de la API bajo /api/v1.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log.Component("http")

	app.Get("/health", health(deps.DB))

	api := app.Group("/api/v1", AuthMiddleware(deps.JWTSecret))

	transferHandler := NewTransferHandler(deps.Transfers, log)
	transfers := api.Group("/stock-transfer")
	transfers.Post("/", RequireRole(entity.RoleBranchAdmin), transferHandler.Create)
	transfers.Get("/", transferHandler.List)
	transfers.Post("/approve/:id", transferHandler.Approve)
	transfers.Get("/:id", transferHandler.Get)
	transfers.Delete("/:id", transferHandler.Delete)
	transfers.Post("/:id/cancel", transferHandler.Cancel)
	api.Get("/transfers/in-transit/", transferHandler.InTransit)

	warehouseHandler := NewWarehouseHandler(deps.Transfers, deps.Stock, log)
	warehouse := api.Group("/warehouse")
	warehouse.Post("/dispatch/", warehouseHandler.Dispatch)
	warehouse.Post("/receive-transfer/:id", warehouseHandler.ReceiveTransfer)
	warehouse.Post("/receive/", warehouseHandler.Intake)

	inventoryHandler := NewInventoryHandler(deps.Queries, deps.Stock, log)
	inv := api.Group("/inventory")
	inv.Get("/", inventoryHandler.List)
	inv.Get("/low-stock", inventoryHandler.LowStock)
	inv.Get("/expiry", inventoryHandler.Expiry)
	inv.Post("/:id/adjust", inventoryHandler.Adjust)
	inv.Get("/:id/versions", inventoryHandler.Versions)
	api.Get("/stock-movement/", inventoryHandler.Movements)

	saleHandler := NewSaleHandler(deps.Sales, log)
	salesGroup := api.Group("/sales")
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)

	notificationHandler := NewNotificationHandler(deps.Inbox, log)
	notifications := api.Group("/notifications")
	notifications.Get("/", notificationHandler.List)
	notifications.Post("/", notificationHandler.Create)
	notifications.Get("/unread-count/", notificationHandler.UnreadCount)
	notifications.Post("/mark-all-as-read/", notificationHandler.MarkAllRead)
	notifications.Patch("/:id/mark-as-read/", notificationHandler.MarkRead)
	notifications.Patch("/:id/archive/", notificationHandler.Archive)
}

// health godoc
// @Summary  Liveness (y ping a la BD si está configurada)
// @Tags     health
// @Produce  json
// @Success  200  {object}  map[string]string
// @Failure  503  {object}  map[string]string
// @Router   /health [get]
func health(db Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "database": "down"})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}
