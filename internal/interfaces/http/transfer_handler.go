package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/transfer"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

// TransferHandler solicitudes de traslado de las sucursales y su aprobación (protegido).
type TransferHandler struct {
	uc  *transfer.UseCase
	log *logger.Logger
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *transfer.UseCase, log *logger.Logger) *TransferHandler {
	return &TransferHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Solicitar traslado a la bodega
// @Description  El Admin de una sucursal pide stock; el origen es siempre la bodega central. Queda PENDING.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateTransferRequest  true  "product_id, quantity, batch_number, notes"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v1/stock-transfer/ [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	t, err := h.uc.Request(c.UserContext(), actor(c), transfer.RequestInput{
		ProductID:   in.ProductID,
		Quantity:    in.Quantity,
		BatchNumber: in.BatchNumber,
		Notes:       in.Notes,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromTransfer(t))
}

// Approve godoc
// @Summary      Aprobar o rechazar un traslado
// @Description  approve descuenta la bodega y deja el traslado IN_TRANSIT; reject lo cierra sin mover stock.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                      true  "ID del traslado"
// @Param        body  body      dto.ApproveTransferRequest  true  "action: approve | reject"
// @Success      200   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v1/stock-transfer/approve/{id} [post]
func (h *TransferHandler) Approve(c *fiber.Ctx) error {
	var in dto.ApproveTransferRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	t, err := h.uc.Decide(c.UserContext(), actor(c), c.Params("id"), transfer.Decision{
		Action:          in.Action,
		RejectionReason: in.RejectionReason,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromTransfer(t))
}

// Cancel godoc
// @Summary      Cancelar una solicitud pendiente
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/v1/stock-transfer/{id}/cancel [post]
func (h *TransferHandler) Cancel(c *fiber.Ctx) error {
	t, err := h.uc.Cancel(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromTransfer(t))
}

// Delete godoc
// @Summary      Eliminar una solicitud pendiente
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del traslado"
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/stock-transfer/{id} [delete]
func (h *TransferHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), actor(c), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.MessageResponse{Message: "transfer deleted"})
}

// Get godoc
// @Summary      Detalle de un traslado
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/stock-transfer/{id} [get]
func (h *TransferHandler) Get(c *fiber.Ctx) error {
	t, err := h.uc.Get(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromTransfer(t))
}

// List godoc
// @Summary      Listar traslados
// @Description  CEO: todas las sedes (o branch_id). Admin: los que tocan su sede.
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query     string  false  "Sede (origen o destino)"
// @Param        status     query     string  false  "PENDING | IN_TRANSIT | RECEIVED | REJECTED | CANCELLED"
// @Success      200        {array}   dto.TransferResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Failure      403        {object}  dto.ErrorResponse
// @Router       /api/v1/stock-transfer/ [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
	status := entity.TransferStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		return writeError(c, h.log, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status))
	}
	list, err := h.uc.List(c.UserContext(), actor(c), c.Query("branch_id"), status)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromTransfers(list))
}

// InTransit godoc
// @Summary      Traslados en camino hacia mi sede
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.TransferResponse
// @Router       /api/v1/transfers/in-transit/ [get]
func (h *TransferHandler) InTransit(c *fiber.Ctx) error {
	list, err := h.uc.InTransit(c.UserContext(), actor(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromTransfers(list))
}
