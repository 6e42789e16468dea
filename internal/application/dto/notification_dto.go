package dto

import (
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// NotificationListQuery filtros de GET /notifications/.
type NotificationListQuery struct {
	Limit           int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset          int    `query:"offset" validate:"omitempty,min=0"`
	Type            string `query:"type" validate:"omitempty,oneof=TRANSFER_REQUEST TRANSFER_APPROVAL TRANSFER_REJECTION TRANSFER_DISPATCH TRANSFER_RECEIVED STOCK_ALERT SYSTEM"`
	UnreadOnly      bool   `query:"unread"`
	IncludeArchived bool   `query:"archived"`
}

// CreateNoteRequest body para POST /notifications/ (nota SYSTEM para uno mismo).
type CreateNoteRequest struct {
	Title   string `json:"title" validate:"required,max=255"`
	Message string `json:"message" validate:"required"`
}

// NotificationResponse notificación serializada.
type NotificationResponse struct {
	ID              string    `json:"id"`
	Type            string    `json:"notification_type"`
	Title           string    `json:"title"`
	Message         string    `json:"message"`
	SenderID        *string   `json:"sender,omitempty"`
	IsRead          bool      `json:"is_read"`
	IsArchived      bool      `json:"is_archived"`
	RelatedBranchID *string   `json:"related_branch,omitempty"`
	RelatedObjectID *string   `json:"related_object_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// UnreadCountResponse respuesta de GET /notifications/unread-count/.
type UnreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}

// FromNotification mapea la entidad.
func FromNotification(n *entity.Notification) NotificationResponse {
	return NotificationResponse{
		ID:              n.ID,
		Type:            string(n.Type),
		Title:           n.Title,
		Message:         n.Message,
		SenderID:        n.SenderID,
		IsRead:          n.IsRead,
		IsArchived:      n.IsArchived,
		RelatedBranchID: n.RelatedBranchID,
		RelatedObjectID: n.RelatedObjectID,
		CreatedAt:       n.CreatedAt,
	}
}

// FromNotifications mapea una lista.
func FromNotifications(list []*entity.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(list))
	for _, n := range list {
		out = append(out, FromNotification(n))
	}
	return out
}
