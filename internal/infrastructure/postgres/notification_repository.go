package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo bandeja de notificaciones in-app.
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

const notificationColumns = `id, recipient_id, sender_id, notification_type, title, message, is_read, is_archived,
	related_branch_id, related_object_id, created_at, updated_at`

// Create persiste una notificación.
func (r *NotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	query := `INSERT INTO notifications (` + notificationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		n.ID, n.RecipientID, n.SenderID, string(n.Type), n.Title, n.Message, n.IsRead, n.IsArchived,
		n.RelatedBranchID, n.RelatedObjectID, n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// GetByID obtiene una notificación.
func (r *NotificationRepo) GetByID(ctx context.Context, id string) (*entity.Notification, error) {
	n, err := scanNotification(r.q.QueryRow(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get notification: %w", err)
	}
	return n, nil
}

// List bandeja del destinatario, más recientes primero.
func (r *NotificationRepo) List(ctx context.Context, f repository.NotificationFilter) ([]*entity.Notification, error) {
	var w where
	w.add("recipient_id = ?", f.RecipientID)
	if f.Type != "" {
		w.add("notification_type = ?", string(f.Type))
	}
	if f.UnreadOnly {
		w.add("NOT is_read")
	}
	if !f.IncludeArchived {
		w.add("NOT is_archived")
	}
	query := `SELECT ` + notificationColumns + ` FROM notifications` + w.sql() + ` ORDER BY seq DESC`
	if f.Limit > 0 {
		query += ` LIMIT ` + w.next(f.Limit)
	}
	if f.Offset > 0 {
		query += ` OFFSET ` + w.next(f.Offset)
	}
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()
	var list []*entity.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

// CountUnread no leídas y no archivadas.
func (r *NotificationRepo) CountUnread(ctx context.Context, recipientID string) (int, error) {
	var count int
	err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM notifications WHERE recipient_id = $1 AND NOT is_read AND NOT is_archived`,
		recipientID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead marca como leída. Solo el destinatario puede hacerlo; si no coincide, ErrNotFound.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, recipientID string) error {
	return r.touch(ctx, `UPDATE notifications SET is_read = true, updated_at = now() WHERE id = $1 AND recipient_id = $2`, id, recipientID)
}

// Archive oculta la notificación de la bandeja.
func (r *NotificationRepo) Archive(ctx context.Context, id, recipientID string) error {
	return r.touch(ctx, `UPDATE notifications SET is_archived = true, updated_at = now() WHERE id = $1 AND recipient_id = $2`, id, recipientID)
}

// MarkAllRead marca todas las no leídas; devuelve cuántas cambiaron.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, recipientID string) (int, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE notifications SET is_read = true, updated_at = now() WHERE recipient_id = $1 AND NOT is_read`,
		recipientID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *NotificationRepo) touch(ctx context.Context, query, id, recipientID string) error {
	tag, err := r.q.Exec(ctx, query, id, recipientID)
	if err != nil {
		return fmt.Errorf("update notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanNotification(row pgx.Row) (*entity.Notification, error) {
	var n entity.Notification
	var typ string
	err := row.Scan(&n.ID, &n.RecipientID, &n.SenderID, &typ, &n.Title, &n.Message, &n.IsRead, &n.IsArchived,
		&n.RelatedBranchID, &n.RelatedObjectID, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	n.Type = entity.NotificationType(typ)
	return &n, nil
}
