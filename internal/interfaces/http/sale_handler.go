package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/sales"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

// SaleHandler punto de venta (protegido).
type SaleHandler struct {
	uc  *sales.UseCase
	log *logger.Logger
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.UseCase, log *logger.Logger) *SaleHandler {
	return &SaleHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Descuenta cada ítem con un movimiento REMOVE. Un ítem sin stock aborta toda la venta.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateSaleRequest  true  "payment_method, items"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v1/sales/ [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	items := make([]sales.ItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, sales.ItemInput{
			ProductID:   it.ProductID,
			BatchNumber: it.BatchNumber,
			Quantity:    it.Quantity,
			PriceAtSale: it.PriceAtSale,
		})
	}
	sale, err := h.uc.Create(c.UserContext(), actor(c), sales.CreateInput{
		BranchID:      in.BranchID,
		CustomerID:    in.CustomerID,
		PaymentMethod: entity.PaymentMethod(in.PaymentMethod),
		Items:         items,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromSale(sale))
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query     string  false  "Sede (solo CEO)"
// @Success      200        {array}   dto.SaleResponse
// @Failure      403        {object}  dto.ErrorResponse
// @Router       /api/v1/sales/ [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext(), actor(c), c.Query("branch_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromSales(list))
}
