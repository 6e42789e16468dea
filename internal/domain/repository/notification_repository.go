package repository

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// NotificationFilter filtros de la bandeja. Siempre acotada a un destinatario.
type NotificationFilter struct {
	RecipientID     string
	Type            entity.NotificationType
	UnreadOnly      bool
	IncludeArchived bool
	Limit           int
	Offset          int
}

// NotificationRepository define el puerto de persistencia para notificaciones.
// Las mutaciones reciben el destinatario para que nadie toque notificaciones ajenas.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	GetByID(ctx context.Context, id string) (*entity.Notification, error)
	List(ctx context.Context, f NotificationFilter) ([]*entity.Notification, error)
	CountUnread(ctx context.Context, recipientID string) (int, error)
	MarkRead(ctx context.Context, id, recipientID string) error
	MarkAllRead(ctx context.Context, recipientID string) (int, error)
	Archive(ctx context.Context, id, recipientID string) error
}
