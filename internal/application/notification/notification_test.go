package notification_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/notification"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/testutil/memstore"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Directory
// ──────────────────────────────────────────────────────────────────────────────

func TestDirectory_RegistroTienePrioridad(t *testing.T) {
	f := memstore.NewFixture()
	dir := notification.NewDirectory(map[string][]string{f.Warehouse.ID: {f.CEO.ID}}, f.Store.Repos().Users)

	ids, err := dir.SiteAdmins(context.Background(), f.Warehouse.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{f.CEO.ID}, ids)

	ids, err = dir.SiteAdmins(context.Background(), f.BranchA.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{f.AAdmin.ID}, ids, "sin registro cae a los Admin de la sede")

	ceos, err := dir.CEOs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{f.CEO.ID}, ceos)
}

// ──────────────────────────────────────────────────────────────────────────────
// Dispatcher
// ──────────────────────────────────────────────────────────────────────────────

func TestDispatcher_DeduplicaDestinatarios(t *testing.T) {
	f := memstore.NewFixture()
	repos := f.Store.Repos()
	d := notification.NewDispatcher(repos.Notifications, notification.NewDirectory(nil, repos.Users), logger.Nop())

	n := d.Notify(context.Background(), notification.Notice{
		Type:            entity.NotificationTransferRequest,
		Title:           "t",
		Message:         "m",
		SenderID:        f.AAdmin.ID,
		RelatedObjectID: "tr-1",
		To: notification.Recipients{
			Users:        []string{f.WHAdmin.ID},
			SiteAdminsOf: []string{f.Warehouse.ID},
			CEOs:         true,
		},
	})
	assert.Equal(t, 2, n)

	all := f.Store.Notifications()
	require.Len(t, all, 2)
	for _, row := range all {
		assert.Equal(t, "tr-1", *row.RelatedObjectID)
		assert.Equal(t, f.AAdmin.ID, *row.SenderID)
		assert.False(t, row.IsRead)
	}
}

func TestDispatcher_SinDestinatarioSoloAdvierte(t *testing.T) {
	s := memstore.New()
	empty := s.AddSite("Sin admin", false)
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "warn", Output: &buf})
	d := notification.NewDispatcher(s.Repos().Notifications, notification.NewDirectory(nil, s.Repos().Users), log)

	n := d.Notify(context.Background(), notification.Notice{
		Type: entity.NotificationTransferReceived,
		To:   notification.Recipients{SiteAdminsOf: []string{empty.ID}},
	})
	assert.Equal(t, 0, n)
	assert.Empty(t, s.Notifications())
	assert.Contains(t, buf.String(), "la sede no tiene Admin configurado")
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

// ──────────────────────────────────────────────────────────────────────────────
// Inbox
// ──────────────────────────────────────────────────────────────────────────────

func TestInbox_FlujoCompleto(t *testing.T) {
	f := memstore.NewFixture()
	repos := f.Store.Repos()
	d := notification.NewDispatcher(repos.Notifications, notification.NewDirectory(nil, repos.Users), logger.Nop())
	inbox := notification.NewInboxUseCase(repos.Notifications)
	me := memstore.Actor(f.AAdmin)
	other := memstore.Actor(f.BAdmin)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d.Notify(ctx, notification.Notice{Type: entity.NotificationStockAlert, Title: "t", Message: "m",
			To: notification.Recipients{Users: []string{f.AAdmin.ID}}})
	}

	count, err := inbox.UnreadCount(ctx, me)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	list, err := inbox.List(ctx, me, notification.ListInput{})
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.ErrorIs(t, inbox.MarkRead(ctx, other, list[0].ID), domain.ErrNotFound, "no se tocan notificaciones ajenas")
	require.NoError(t, inbox.MarkRead(ctx, me, list[0].ID))
	require.NoError(t, inbox.Archive(ctx, me, list[1].ID))

	count, _ = inbox.UnreadCount(ctx, me)
	assert.Equal(t, 1, count)

	changed, err := inbox.MarkAllRead(ctx, me)
	require.NoError(t, err)
	assert.Equal(t, 2, changed, "incluye la archivada no leída")

	list, err = inbox.List(ctx, me, notification.ListInput{})
	require.NoError(t, err)
	assert.Len(t, list, 2, "las archivadas no se listan por defecto")

	list, err = inbox.List(ctx, me, notification.ListInput{IncludeArchived: true, UnreadOnly: true})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestInbox_CreateNote(t *testing.T) {
	f := memstore.NewFixture()
	inbox := notification.NewInboxUseCase(f.Store.Repos().Notifications)
	me := memstore.Actor(f.AAdmin)

	n, err := inbox.CreateNote(context.Background(), me, " Recordatorio ", "contar estantes")
	require.NoError(t, err)
	assert.Equal(t, entity.NotificationSystem, n.Type)
	assert.Equal(t, "Recordatorio", n.Title)
	assert.Equal(t, f.AAdmin.ID, n.RecipientID)

	_, err = inbox.CreateNote(context.Background(), me, "", "x")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
