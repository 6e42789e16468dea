package notification

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

// Dispatcher crea notificaciones in-app. Fire-and-forget: nunca devuelve error al caller,
// la operación que lo dispara ya fue confirmada.
type Dispatcher struct {
	repo repository.NotificationRepository
	dir  *Directory
	log  *logger.Logger
	now  func() time.Time
}

// NewDispatcher construye el dispatcher.
func NewDispatcher(repo repository.NotificationRepository, dir *Directory, log *logger.Logger) *Dispatcher {
	return &Dispatcher{repo: repo, dir: dir, log: log.Component("notify"), now: time.Now}
}

// Notify resuelve los destinatarios y crea una fila por cada uno. Devuelve cuántas se crearon.
func (d *Dispatcher) Notify(ctx context.Context, n Notice) int {
	ctx = context.WithoutCancel(ctx)
	recipients := d.resolve(ctx, n)
	if len(recipients) == 0 {
		d.log.Warn().
			Str("type", string(n.Type)).
			Str("related_object_id", n.RelatedObjectID).
			Strs("sites", n.To.SiteAdminsOf).
			Msg("notificación sin destinatario; se omite")
		return 0
	}

	created := 0
	now := d.now()
	for _, rid := range recipients {
		row := &entity.Notification{
			ID:              uuid.New().String(),
			RecipientID:     rid,
			SenderID:        optional(n.SenderID),
			Type:            n.Type,
			Title:           n.Title,
			Message:         n.Message,
			RelatedBranchID: optional(n.RelatedBranchID),
			RelatedObjectID: optional(n.RelatedObjectID),
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := d.repo.Create(ctx, row); err != nil {
			d.log.Warn().Err(err).Str("recipient_id", rid).Str("type", string(n.Type)).Msg("no se pudo crear la notificación")
			continue
		}
		created++
	}
	return created
}

func (d *Dispatcher) resolve(ctx context.Context, n Notice) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(ids []string) {
		for _, id := range ids {
			if id != "" && !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}

	add(n.To.Users)
	for _, site := range n.To.SiteAdminsOf {
		ids, err := d.dir.SiteAdmins(ctx, site)
		if err != nil {
			d.log.Warn().Err(err).Str("site_id", site).Msg("no se pudieron resolver los responsables de la sede")
			continue
		}
		if len(ids) == 0 {
			d.log.Warn().Str("site_id", site).Msg("la sede no tiene Admin configurado")
		}
		add(ids)
	}
	if n.To.CEOs {
		ids, err := d.dir.CEOs(ctx)
		if err != nil {
			d.log.Warn().Err(err).Msg("no se pudieron resolver los CEO")
		}
		add(ids)
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
