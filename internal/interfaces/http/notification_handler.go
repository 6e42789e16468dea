package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/notification"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

// NotificationHandler bandeja del usuario autenticado. Nunca toca notificaciones ajenas.
type NotificationHandler struct {
	inbox *notification.InboxUseCase
	log   *logger.Logger
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(inbox *notification.InboxUseCase, log *logger.Logger) *NotificationHandler {
	return &NotificationHandler{inbox: inbox, log: log}
}

// List godoc
// @Summary      Mis notificaciones
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Param        type      query     string  false  "Tipo de notificación"
// @Param        unread    query     bool    false  "Solo no leídas"
// @Param        archived  query     bool    false  "Incluir archivadas"
// @Param        limit     query     int     false  "Límite"  default(20)
// @Param        offset    query     int     false  "Offset"  default(0)
// @Success      200       {array}   dto.NotificationResponse
// @Failure      400       {object}  dto.ErrorResponse
// @Router       /api/v1/notifications/ [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	var q dto.NotificationListQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, h.log, err)
	}
	list, err := h.inbox.List(c.UserContext(), actor(c), notification.ListInput{
		Type:            entity.NotificationType(q.Type),
		UnreadOnly:      q.UnreadOnly,
		IncludeArchived: q.IncludeArchived,
		Limit:           q.Limit,
		Offset:          q.Offset,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromNotifications(list))
}

// UnreadCount godoc
// @Summary      Cantidad de no leídas
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UnreadCountResponse
// @Router       /api/v1/notifications/unread-count/ [get]
func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	n, err := h.inbox.UnreadCount(c.UserContext(), actor(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.UnreadCountResponse{UnreadCount: n})
}

// MarkRead godoc
// @Summary      Marcar como leída
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la notificación"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/notifications/{id}/mark-as-read/ [patch]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.inbox.MarkRead(c.UserContext(), actor(c), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.MessageResponse{Message: "notification marked as read"})
}

// MarkAllRead godoc
// @Summary      Marcar todas como leídas
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]int
// @Router       /api/v1/notifications/mark-all-as-read/ [post]
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	n, err := h.inbox.MarkAllRead(c.UserContext(), actor(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"updated": n})
}

// Archive godoc
// @Summary      Archivar
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la notificación"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/notifications/{id}/archive/ [patch]
func (h *NotificationHandler) Archive(c *fiber.Ctx) error {
	if err := h.inbox.Archive(c.UserContext(), actor(c), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.MessageResponse{Message: "notification archived"})
}

// Create godoc
// @Summary      Nota personal (SYSTEM)
// @Tags         notifications
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateNoteRequest  true  "title, message"
// @Success      201   {object}  dto.NotificationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/v1/notifications/ [post]
func (h *NotificationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateNoteRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	n, err := h.inbox.CreateNote(c.UserContext(), actor(c), in.Title, in.Message)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromNotification(n))
}
