package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// InboxUseCase bandeja del usuario autenticado. Nunca toca notificaciones ajenas.
type InboxUseCase struct {
	repo repository.NotificationRepository
	now  func() time.Time
}

// NewInboxUseCase construye el caso de uso.
func NewInboxUseCase(repo repository.NotificationRepository) *InboxUseCase {
	return &InboxUseCase{repo: repo, now: time.Now}
}

// ListInput filtros de la bandeja.
type ListInput struct {
	Type            entity.NotificationType
	UnreadOnly      bool
	IncludeArchived bool
	Limit           int
	Offset          int
}

// List notificaciones del actor, más recientes primero.
func (uc *InboxUseCase) List(ctx context.Context, actor entity.Actor, in ListInput) ([]*entity.Notification, error) {
	limit := in.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	offset := in.Offset
	if offset < 0 {
		offset = 0
	}
	return uc.repo.List(ctx, repository.NotificationFilter{
		RecipientID:     actor.UserID,
		Type:            in.Type,
		UnreadOnly:      in.UnreadOnly,
		IncludeArchived: in.IncludeArchived,
		Limit:           limit,
		Offset:          offset,
	})
}

// UnreadCount no leídas y no archivadas.
func (uc *InboxUseCase) UnreadCount(ctx context.Context, actor entity.Actor) (int, error) {
	return uc.repo.CountUnread(ctx, actor.UserID)
}

// MarkRead marca una notificación propia como leída. ErrNotFound si no es del actor.
func (uc *InboxUseCase) MarkRead(ctx context.Context, actor entity.Actor, id string) error {
	return uc.repo.MarkRead(ctx, id, actor.UserID)
}

// MarkAllRead marca todas las propias como leídas; devuelve cuántas cambiaron.
func (uc *InboxUseCase) MarkAllRead(ctx context.Context, actor entity.Actor) (int, error) {
	return uc.repo.MarkAllRead(ctx, actor.UserID)
}

// Archive archiva una notificación propia.
func (uc *InboxUseCase) Archive(ctx context.Context, actor entity.Actor, id string) error {
	return uc.repo.Archive(ctx, id, actor.UserID)
}

// CreateNote nota SYSTEM del usuario para sí mismo.
func (uc *InboxUseCase) CreateNote(ctx context.Context, actor entity.Actor, title, message string) (*entity.Notification, error) {
	title, message = strings.TrimSpace(title), strings.TrimSpace(message)
	if title == "" || message == "" {
		return nil, fmt.Errorf("%w: title and message are required", domain.ErrInvalidInput)
	}
	now := uc.now()
	n := &entity.Notification{
		ID:          uuid.New().String(),
		RecipientID: actor.UserID,
		SenderID:    &actor.UserID,
		Type:        entity.NotificationSystem,
		Title:       title,
		Message:     message,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if actor.BranchID != "" {
		b := actor.BranchID
		n.RelatedBranchID = &b
	}
	if err := uc.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}
