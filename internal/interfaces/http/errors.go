package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

// writeError traduce errores de dominio a HTTP. Único punto de mapeo; los 500 se registran con el request id.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	status, body := classify(err)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).
			Str("request_id", requestID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("error inesperado")
	}
	return c.Status(status).JSON(body)
}

func classify(err error) (int, dto.ErrorResponse) {
	var ve *validationError
	switch {
	case errors.As(err, &ve):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: "invalid request", Fields: ve.fields}
	case errors.Is(err, domain.ErrAlreadyReceived):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "ALREADY_RECEIVED", Message: "Already received"}
	case errors.Is(err, domain.ErrAlreadyProcessed):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "ALREADY_PROCESSED", Message: "Transfer already processed or rejected"}
	case errors.Is(err, domain.ErrInvalidTransferState):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "INVALID_STATE", Message: err.Error()}
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "Insufficient stock"}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "unauthorized"}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: "You do not have permission to perform this action"}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "internal server error"}
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}
