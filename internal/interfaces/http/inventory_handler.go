package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

// InventoryHandler consultas de inventario, ajustes manuales y bitácora (protegido).
type InventoryHandler struct {
	query *inventory.QueryUseCase
	stock *inventory.StockUseCase
	log   *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(query *inventory.QueryUseCase, stock *inventory.StockUseCase, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{query: query, stock: stock, log: log}
}

// List godoc
// @Summary      Listar inventario
// @Description  CEO: todas las sedes o branch_id. Admin: siempre su sede.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        branch_id   query     string  false  "Sede"
// @Param        product_id  query     string  false  "Producto"
// @Success      200         {array}   dto.InventoryResponse
// @Failure      403         {object}  dto.ErrorResponse
// @Router       /api/v1/inventory/ [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	list, err := h.query.List(c.UserContext(), actor(c), c.Query("branch_id"), c.Query("product_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromInventories(list))
}

// LowStock godoc
// @Summary      Filas bajo el umbral
// @Description  quantity < threshold_quantity, las más críticas primero, con cantidad sugerida de pedido.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query     string  false  "Sede (solo CEO)"
// @Success      200        {array}   dto.LowStockResponse
// @Router       /api/v1/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	items, err := h.query.LowStock(c.UserContext(), actor(c), c.Query("branch_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := make([]dto.LowStockResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.LowStockResponse{
			InventoryResponse: dto.FromInventory(it.Inventory),
			SuggestedOrderQty: it.SuggestedQty,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "items": out})
}

// Expiry godoc
// @Summary      Lotes vencidos
// @Description  expiration_date <= hoy.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query     string  false  "Sede (solo CEO)"
// @Success      200        {array}   dto.InventoryResponse
// @Router       /api/v1/inventory/expiry [get]
func (h *InventoryHandler) Expiry(c *fiber.Ctx) error {
	list, err := h.query.Expired(c.UserContext(), actor(c), c.Query("branch_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromInventories(list))
}

// Adjust godoc
// @Summary      Ajuste manual de una fila
// @Description  delta con signo y motivo obligatorio. Genera movimiento ADD/REMOVE y versión.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                      true  "ID de la fila de inventario"
// @Param        body  body      dto.AdjustInventoryRequest  true  "delta, reason"
// @Success      200   {object}  dto.AdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v1/inventory/{id}/adjust [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustInventoryRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	adj, err := h.stock.Adjust(c.UserContext(), actor(c), inventory.ManualAdjustInput{
		InventoryID: c.Params("id"),
		Delta:       in.Delta,
		Reason:      in.Reason,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(adjustmentResponse(adj))
}

// Versions godoc
// @Summary      Historial de versiones de una fila
// @Description  Cadena previous/new en orden de inserción y verificación por replay.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la fila de inventario"
// @Success      200  {object}  dto.HistoryResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/inventory/{id}/versions [get]
func (h *InventoryHandler) Versions(c *fiber.Ctx) error {
	hist, err := h.query.History(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.HistoryResponse{
		Inventory:  dto.FromInventory(hist.Inventory),
		Versions:   dto.FromVersions(hist.Versions),
		Replayed:   hist.Replay.Final,
		Consistent: hist.Consistent,
		Gaps:       hist.Replay.Gaps,
	})
}

// Movements godoc
// @Summary      Bitácora de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        branch_id   query     string  false  "Sede (solo CEO)"
// @Param        product_id  query     string  false  "Producto"
// @Param        from        query     string  false  "Desde (YYYY-MM-DD)"
// @Param        to          query     string  false  "Hasta inclusive (YYYY-MM-DD)"
// @Success      200         {array}   dto.MovementResponse
// @Failure      400         {object}  dto.ErrorResponse
// @Router       /api/v1/stock-movement/ [get]
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	from, err := parseDate("from", c.Query("from"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	to, err := parseDate("to", c.Query("to"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	if to != nil {
		end := to.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}
	list, err := h.query.Movements(c.UserContext(), actor(c), inventory.MovementsInput{
		BranchID:  c.Query("branch_id"),
		ProductID: c.Query("product_id"),
		From:      from,
		To:        to,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromMovements(list))
}
