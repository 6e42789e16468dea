package transfer_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/application/notification"
	"github.com/jhoicas/Farmacia-api/internal/application/ports"
	"github.com/jhoicas/Farmacia-api/internal/application/transfer"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/testutil/memstore"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

type env struct {
	*memstore.Fixture
	uc    *transfer.UseCase
	cache *memstore.Cache
	ctx   context.Context
}

func newEnv(t *testing.T) *env {
	t.Helper()
	f := memstore.NewFixture()
	repos := f.Store.Repos()
	cache := memstore.NewCache()
	dispatcher := notification.NewDispatcher(repos.Notifications, notification.NewDirectory(nil, repos.Users), logger.Nop())
	uc := transfer.NewUseCase(f.Store, repos, inventory.NewLedger(), dispatcher, cache, logger.Nop())
	return &env{Fixture: f, uc: uc, cache: cache, ctx: context.Background()}
}

func (e *env) qty(branchID string) int64 {
	return e.Store.Quantity(e.Product.ID, branchID, "")
}

func (e *env) notificationsFor(userID string, typ entity.NotificationType) int {
	n := 0
	for _, row := range e.Store.Notifications() {
		if row.RecipientID == userID && row.Type == typ {
			n++
		}
	}
	return n
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario completo: bodega 100 → despacho 20 → recepción en sucursal B
// ──────────────────────────────────────────────────────────────────────────────

func TestDispatchYReceive_EscenarioCompleto(t *testing.T) {
	e := newEnv(t)
	e.Store.SetStock(e.Product.ID, e.Warehouse.ID, "", 100)

	tr, err := e.uc.Dispatch(e.ctx, memstore.Actor(e.WHAdmin), transfer.DispatchInput{
		ProductID: e.Product.ID, Quantity: 20, DestinationID: e.BranchB.ID, Notes: "reposición semanal",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TransferInTransit, tr.Status)
	assert.True(t, tr.IsWarehouseInitiated)
	assert.Equal(t, int64(80), e.qty(e.Warehouse.ID))
	assert.Equal(t, 1, e.notificationsFor(e.BAdmin.ID, entity.NotificationTransferDispatch))

	got, err := e.uc.Receive(e.ctx, memstore.Actor(e.BAdmin), tr.ID, transfer.ReceiveInput{})
	require.NoError(t, err)
	assert.Equal(t, entity.TransferReceived, got.Status)
	assert.Equal(t, int64(80), e.qty(e.Warehouse.ID), "el origen ya se descontó al despachar")
	assert.Equal(t, int64(20), e.qty(e.BranchB.ID))
	assert.Equal(t, e.BAdmin.ID, *got.ReceivedBy)
	assert.Equal(t, int64(20), *got.QuantityReceived)

	movs := e.Store.Movements()
	require.Len(t, movs, 2)
	assert.ElementsMatch(t, []string{e.Warehouse.ID, e.BranchB.ID}, []string{movs[0].BranchID, movs[1].BranchID})
	for _, m := range movs {
		assert.Equal(t, entity.MovementTransfer, m.MovementType)
		assert.Equal(t, tr.ID, *m.TransferID)
		assert.Equal(t, int64(20), m.Quantity)
	}
	assert.Len(t, e.Store.Versions(), 2)
	assert.Equal(t, 1, e.notificationsFor(e.WHAdmin.ID, entity.NotificationTransferReceived))
	assert.Equal(t, 0, e.notificationsFor(e.BAdmin.ID, entity.NotificationStockAlert), "20 no está bajo el umbral")

	assert.True(t, e.cache.WasInvalidated(ports.Branch(ports.EntityInventory, e.BranchB.ID)))
	assert.True(t, e.cache.WasInvalidated(ports.Branch(ports.EntityTransfers, e.Warehouse.ID)))
}

func TestDispatch_StockInsuficienteNoCreaTraslado(t *testing.T) {
	e := newEnv(t)
	e.Store.SetStock(e.Product.ID, e.Warehouse.ID, "", 10)

	_, err := e.uc.Dispatch(e.ctx, memstore.Actor(e.WHAdmin), transfer.DispatchInput{
		ProductID: e.Product.ID, Quantity: 11, DestinationID: e.BranchA.ID,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, "Insufficient stock", err.Error())
	assert.Empty(t, e.Store.Transfers())
	assert.Equal(t, int64(10), e.qty(e.Warehouse.ID))
	assert.Empty(t, e.Store.Notifications())
}

func TestDispatch_SinFilaEnBodegaEsInsuficiente(t *testing.T) {
	e := newEnv(t)
	_, err := e.uc.Dispatch(e.ctx, memstore.Actor(e.CEO), transfer.DispatchInput{
		ProductID: e.Product.ID, Quantity: 1, DestinationID: e.BranchA.ID,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestDispatch_Validaciones(t *testing.T) {
	e := newEnv(t)
	e.Store.SetStock(e.Product.ID, e.Warehouse.ID, "", 10)

	_, err := e.uc.Dispatch(e.ctx, memstore.Actor(e.AAdmin), transfer.DispatchInput{ProductID: e.Product.ID, Quantity: 1, DestinationID: e.BranchB.ID})
	assert.ErrorIs(t, err, domain.ErrForbidden, "una sucursal no despacha")

	_, err = e.uc.Dispatch(e.ctx, memstore.Actor(e.WHAdmin), transfer.DispatchInput{ProductID: e.Product.ID, Quantity: 1, DestinationID: e.Warehouse.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.uc.Dispatch(e.ctx, memstore.Actor(e.WHAdmin), transfer.DispatchInput{ProductID: e.Product.ID, Quantity: 1, DestinationID: "nope"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.uc.Dispatch(e.ctx, memstore.Actor(e.WHAdmin), transfer.DispatchInput{ProductID: e.Product.ID, Quantity: 0, DestinationID: e.BranchA.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Recepción
// ──────────────────────────────────────────────────────────────────────────────

func dispatched(t *testing.T, e *env, qty int64, dest entity.Site) *entity.StockTransfer {
	t.Helper()
	if e.qty(e.Warehouse.ID) < qty {
		e.Store.SetStock(e.Product.ID, e.Warehouse.ID, "", 100)
	}
	tr, err := e.uc.Dispatch(e.ctx, memstore.Actor(e.WHAdmin), transfer.DispatchInput{
		ProductID: e.Product.ID, Quantity: qty, DestinationID: dest.ID,
	})
	require.NoError(t, err)
	return tr
}

func TestReceive_SegundaConfirmacion(t *testing.T) {
	e := newEnv(t)
	tr := dispatched(t, e, 15, e.BranchA)

	_, err := e.uc.Receive(e.ctx, memstore.Actor(e.AAdmin), tr.ID, transfer.ReceiveInput{})
	require.NoError(t, err)
	assert.Equal(t, int64(15), e.qty(e.BranchA.ID))

	_, err = e.uc.Receive(e.ctx, memstore.Actor(e.AAdmin), tr.ID, transfer.ReceiveInput{})
	assert.ErrorIs(t, err, domain.ErrAlreadyReceived)
	assert.Contains(t, err.Error(), "Already received")
	assert.Equal(t, int64(15), e.qty(e.BranchA.ID), "la segunda confirmación no cambia el inventario")
}

func TestReceive_SoloLaSucursalDestino(t *testing.T) {
	e := newEnv(t)
	tr := dispatched(t, e, 5, e.BranchA)

	for _, u := range []entity.User{e.WHAdmin, e.BAdmin} {
		_, err := e.uc.Receive(e.ctx, memstore.Actor(u), tr.ID, transfer.ReceiveInput{})
		assert.ErrorIs(t, err, domain.ErrForbidden, u.Email)
	}
	assert.Equal(t, int64(0), e.qty(e.BranchA.ID))

	_, err := e.uc.Receive(e.ctx, memstore.Actor(e.CEO), tr.ID, transfer.ReceiveInput{})
	assert.NoError(t, err, "el CEO puede confirmar por cualquier sucursal")
}

func TestReceive_NoEnTransito(t *testing.T) {
	e := newEnv(t)
	e.Store.SetStock(e.Product.ID, e.Warehouse.ID, "", 50)
	tr, err := e.uc.Request(e.ctx, memstore.Actor(e.AAdmin), transfer.RequestInput{ProductID: e.Product.ID, Quantity: 5})
	require.NoError(t, err)

	_, err = e.uc.Receive(e.ctx, memstore.Actor(e.AAdmin), tr.ID, transfer.ReceiveInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidTransferState)

	_, err = e.uc.Receive(e.ctx, memstore.Actor(e.AAdmin), "nope", transfer.ReceiveInput{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReceive_ConDaniadosYAlertaDeStock(t *testing.T) {
	e := newEnv(t)
	tr := dispatched(t, e, 12, e.BranchA)

	got, err := e.uc.Receive(e.ctx, memstore.Actor(e.AAdmin), tr.ID, transfer.ReceiveInput{DamagedQuantity: 4})
	require.NoError(t, err)
	assert.Equal(t, int64(8), *got.QuantityReceived)
	assert.Equal(t, int64(4), got.DamagedQuantity)
	assert.Equal(t, int64(8), e.qty(e.BranchA.ID))
	assert.Equal(t, 1, e.notificationsFor(e.AAdmin.ID, entity.NotificationStockAlert), "8 < umbral 10")
}

func TestReceive_HeredaLoteYVencimiento(t *testing.T) {
	e := newEnv(t)
	stock := inventory.NewStockUseCase(e.Store, e.Store.Repos(), inventory.NewLedger(), nil, logger.Nop())
	exp := mustDate(t, "2027-03-31")
	_, err := stock.Intake(e.ctx, memstore.Actor(e.WHAdmin), inventory.IntakeInput{
		ProductID: e.Product.ID, Quantity: 30, BatchNumber: "LOT-9", ExpirationDate: &exp,
	})
	require.NoError(t, err)

	tr, err := e.uc.Dispatch(e.ctx, memstore.Actor(e.WHAdmin), transfer.DispatchInput{
		ProductID: e.Product.ID, Quantity: 10, DestinationID: e.BranchB.ID, BatchNumber: "LOT-9",
	})
	require.NoError(t, err)
	_, err = e.uc.Receive(e.ctx, memstore.Actor(e.BAdmin), tr.ID, transfer.ReceiveInput{})
	require.NoError(t, err)

	row, err := e.Store.Repos().Inventory.GetByKey(e.ctx, e.Product.ID, e.BranchB.ID, "LOT-9")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, int64(10), row.Quantity)
	require.NotNil(t, row.ExpirationDate)
	assert.True(t, row.ExpirationDate.Equal(exp))
}

// Dos confirmaciones concurrentes: exactamente una gana y el destino se acredita una sola vez.
func TestReceive_ConcurrenteUnaSolaVez(t *testing.T) {
	e := newEnv(t)
	tr := dispatched(t, e, 20, e.BranchB)

	const workers = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		oks  int
		errs []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.uc.Receive(e.ctx, memstore.Actor(e.BAdmin), tr.ID, transfer.ReceiveInput{})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				oks++
			} else {
				errs = append(errs, err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, oks)
	for _, err := range errs {
		assert.ErrorIs(t, err, domain.ErrAlreadyReceived)
	}
	assert.Equal(t, int64(20), e.qty(e.BranchB.ID))
}

// ──────────────────────────────────────────────────────────────────────────────
// Solicitud, aprobación y rechazo
// ──────────────────────────────────────────────────────────────────────────────

func TestRequest_NotificaBodegaYCEO(t *testing.T) {
	e := newEnv(t)
	tr, err := e.uc.Request(e.ctx, memstore.Actor(e.AAdmin), transfer.RequestInput{ProductID: e.Product.ID, Quantity: 7, Notes: "urgente"})
	require.NoError(t, err)
	assert.Equal(t, entity.TransferPending, tr.Status)
	assert.Equal(t, e.Warehouse.ID, tr.FromBranchID)
	assert.Equal(t, e.BranchA.ID, tr.ToBranchID)
	assert.Equal(t, e.AAdmin.ID, tr.RequestedBy)

	assert.Equal(t, 1, e.notificationsFor(e.WHAdmin.ID, entity.NotificationTransferRequest))
	assert.Equal(t, 1, e.notificationsFor(e.CEO.ID, entity.NotificationTransferRequest))
	assert.Empty(t, e.Store.Movements(), "una solicitud no mueve stock")
}

func TestRequest_SoloSucursales(t *testing.T) {
	e := newEnv(t)
	for _, u := range []entity.User{e.CEO, e.WHAdmin} {
		_, err := e.uc.Request(e.ctx, memstore.Actor(u), transfer.RequestInput{ProductID: e.Product.ID, Quantity: 1})
		assert.ErrorIs(t, err, domain.ErrForbidden, u.Email)
	}
	_, err := e.uc.Request(e.ctx, memstore.Actor(e.AAdmin), transfer.RequestInput{ProductID: e.Product.ID, Quantity: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDecide_AprobarDescuentaOrigen(t *testing.T) {
	e := newEnv(t)
	e.Store.SetStock(e.Product.ID, e.Warehouse.ID, "", 50)
	tr, err := e.uc.Request(e.ctx, memstore.Actor(e.AAdmin), transfer.RequestInput{ProductID: e.Product.ID, Quantity: 30})
	require.NoError(t, err)

	got, err := e.uc.Decide(e.ctx, memstore.Actor(e.WHAdmin), tr.ID, transfer.Decision{Action: "approve"})
	require.NoError(t, err)
	assert.Equal(t, entity.TransferInTransit, got.Status)
	assert.True(t, got.Approved)
	assert.Equal(t, e.WHAdmin.ID, *got.ApprovedBy)
	assert.Equal(t, int64(20), e.qty(e.Warehouse.ID))
	assert.Equal(t, 1, e.notificationsFor(e.AAdmin.ID, entity.NotificationTransferApproval))

	_, err = e.uc.Decide(e.ctx, memstore.Actor(e.WHAdmin), tr.ID, transfer.Decision{Action: "reject"})
	assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)

	_, err = e.uc.Receive(e.ctx, memstore.Actor(e.AAdmin), tr.ID, transfer.ReceiveInput{})
	require.NoError(t, err)
	assert.Equal(t, int64(30), e.qty(e.BranchA.ID))
	assert.Equal(t, int64(20), e.qty(e.Warehouse.ID))
}

func TestDecide_AprobarSinStockDejaPendiente(t *testing.T) {
	e := newEnv(t)
	e.Store.SetStock(e.Product.ID, e.Warehouse.ID, "", 5)
	tr, err := e.uc.Request(e.ctx, memstore.Actor(e.AAdmin), transfer.RequestInput{ProductID: e.Product.ID, Quantity: 6})
	require.NoError(t, err)

	_, err = e.uc.Decide(e.ctx, memstore.Actor(e.CEO), tr.ID, transfer.Decision{Action: "approve"})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	stored, err := e.Store.Repos().Transfers.GetByID(e.ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferPending, stored.Status)
	assert.Equal(t, int64(5), e.qty(e.Warehouse.ID))
}

func TestDecide_Rechazar(t *testing.T) {
	e := newEnv(t)
	tr, err := e.uc.Request(e.ctx, memstore.Actor(e.AAdmin), transfer.RequestInput{ProductID: e.Product.ID, Quantity: 3})
	require.NoError(t, err)

	_, err = e.uc.Decide(e.ctx, memstore.Actor(e.BAdmin), tr.ID, transfer.Decision{Action: "reject"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = e.uc.Decide(e.ctx, memstore.Actor(e.CEO), tr.ID, transfer.Decision{Action: "maybe"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := e.uc.Decide(e.ctx, memstore.Actor(e.CEO), tr.ID, transfer.Decision{Action: "Reject", RejectionReason: "sin stock en bodega"})
	require.NoError(t, err)
	assert.Equal(t, entity.TransferRejected, got.Status)
	assert.Equal(t, "sin stock en bodega", got.RejectionReason)
	assert.Equal(t, 1, e.notificationsFor(e.AAdmin.ID, entity.NotificationTransferRejection))
	assert.Empty(t, e.Store.Movements())
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancelación, borrado y consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestCancelYDelete(t *testing.T) {
	e := newEnv(t)
	a := memstore.Actor(e.AAdmin)
	tr1, err := e.uc.Request(e.ctx, a, transfer.RequestInput{ProductID: e.Product.ID, Quantity: 1})
	require.NoError(t, err)
	tr2, err := e.uc.Request(e.ctx, a, transfer.RequestInput{ProductID: e.Product.ID, Quantity: 2})
	require.NoError(t, err)

	_, err = e.uc.Cancel(e.ctx, memstore.Actor(e.BAdmin), tr1.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := e.uc.Cancel(e.ctx, a, tr1.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferCancelled, got.Status)

	assert.ErrorIs(t, e.uc.Delete(e.ctx, a, tr1.ID), domain.ErrInvalidTransferState, "fuera de PENDING no se borra")
	require.NoError(t, e.uc.Delete(e.ctx, a, tr2.ID))
	assert.ErrorIs(t, e.uc.Delete(e.ctx, a, tr2.ID), domain.ErrNotFound)
	assert.Len(t, e.Store.Transfers(), 1)
}

func TestDelete_DespachoNoLoBorraLaSucursal(t *testing.T) {
	e := newEnv(t)
	tr := dispatched(t, e, 5, e.BranchA)
	assert.ErrorIs(t, e.uc.Delete(e.ctx, memstore.Actor(e.AAdmin), tr.ID), domain.ErrForbidden)
	assert.ErrorIs(t, e.uc.Delete(e.ctx, memstore.Actor(e.CEO), tr.ID), domain.ErrInvalidTransferState)
}

func TestListEInTransit(t *testing.T) {
	e := newEnv(t)
	dispatched(t, e, 5, e.BranchA)
	dispatched(t, e, 5, e.BranchB)
	_, err := e.uc.Request(e.ctx, memstore.Actor(e.AAdmin), transfer.RequestInput{ProductID: e.Product.ID, Quantity: 1})
	require.NoError(t, err)

	list, err := e.uc.InTransit(e.ctx, memstore.Actor(e.AAdmin))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, e.BranchA.ID, list[0].ToBranchID)

	list, err = e.uc.InTransit(e.ctx, memstore.Actor(e.CEO))
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = e.uc.List(e.ctx, memstore.Actor(e.AAdmin), "", "")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = e.uc.List(e.ctx, memstore.Actor(e.CEO), "", "LOST")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.uc.Get(e.ctx, memstore.Actor(e.BAdmin), list[0].ID)
	assert.ErrorIs(t, err, domain.ErrForbidden, "la sucursal B no ve traslados de A")

	got, err := e.uc.Get(e.ctx, memstore.Actor(e.WHAdmin), list[0].ID)
	require.NoError(t, err)
	assert.Equal(t, list[0].ID, got.ID)
}
