package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/application/transfer"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

// WarehouseHandler operaciones de la bodega central: despacho, recepción en destino e ingreso manual (protegido).
type WarehouseHandler struct {
	transfers *transfer.UseCase
	stock     *inventory.StockUseCase
	log       *logger.Logger
}

// NewWarehouseHandler construye el handler.
func NewWarehouseHandler(transfers *transfer.UseCase, stock *inventory.StockUseCase, log *logger.Logger) *WarehouseHandler {
	return &WarehouseHandler{transfers: transfers, stock: stock, log: log}
}

// Dispatch godoc
// @Summary      Despachar desde la bodega
// @Description  Crea un traslado ya aprobado (IN_TRANSIT) y descuenta la bodega en la misma transacción.
// @Tags         warehouse
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.DispatchRequest  true  "product_id, quantity, destination_id, notes"
// @Success      200   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse  "Insufficient stock / validación"
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v1/warehouse/dispatch/ [post]
func (h *WarehouseHandler) Dispatch(c *fiber.Ctx) error {
	var in dto.DispatchRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	t, err := h.transfers.Dispatch(c.UserContext(), actor(c), transfer.DispatchInput{
		ProductID:     in.ProductID,
		Quantity:      in.Quantity,
		DestinationID: in.DestinationID,
		BatchNumber:   in.BatchNumber,
		Notes:         in.Notes,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromTransfer(t))
}

// ReceiveTransfer godoc
// @Summary      Confirmar recepción de un traslado
// @Description  Solo el Admin de la sede destino (o el CEO). Body opcional con damaged_quantity.
// @Tags         warehouse
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                      true   "ID del traslado"
// @Param        body  body      dto.ReceiveTransferRequest  false  "damaged_quantity"
// @Success      200   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse  "Already received / estado inválido"
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v1/warehouse/receive-transfer/{id} [post]
func (h *WarehouseHandler) ReceiveTransfer(c *fiber.Ctx) error {
	var in dto.ReceiveTransferRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	t, err := h.transfers.Receive(c.UserContext(), actor(c), c.Params("id"), transfer.ReceiveInput{
		DamagedQuantity: in.DamagedQuantity,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromTransfer(t))
}

// Intake godoc
// @Summary      Ingreso manual de stock a la bodega
// @Description  Movimiento ADD sobre (producto, bodega, lote). No es un traslado.
// @Tags         warehouse
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.IntakeRequest  true  "product_id, quantity, batch_number, expiration_date (YYYY-MM-DD), notes"
// @Success      201   {object}  dto.AdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v1/warehouse/receive/ [post]
func (h *WarehouseHandler) Intake(c *fiber.Ctx) error {
	var in dto.IntakeRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	exp, err := parseDate("expiration_date", in.ExpirationDate)
	if err != nil {
		return writeError(c, h.log, err)
	}
	adj, err := h.stock.Intake(c.UserContext(), actor(c), inventory.IntakeInput{
		ProductID:      in.ProductID,
		Quantity:       in.Quantity,
		BatchNumber:    in.BatchNumber,
		ExpirationDate: exp,
		Notes:          in.Notes,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(adjustmentResponse(adj))
}

func adjustmentResponse(adj *inventory.Adjustment) dto.AdjustmentResponse {
	return dto.AdjustmentResponse{
		Inventory:        dto.FromInventory(adj.Inventory),
		PreviousQuantity: adj.PreviousQuantity,
		NewQuantity:      adj.NewQuantity,
		MovementID:       adj.Movement.ID,
		VersionID:        adj.Version.ID,
	}
}
