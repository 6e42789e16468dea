package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/application/ports"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/testutil/memstore"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

func newStockUC(f *memstore.Fixture, cache *memstore.Cache) *inventory.StockUseCase {
	var inv ports.CacheInvalidator
	if cache != nil {
		inv = cache
	}
	return inventory.NewStockUseCase(f.Store, f.Store.Repos(), inventory.NewLedger(), inv, logger.Nop())
}

func newQueryUC(f *memstore.Fixture, cache *memstore.Cache) *inventory.QueryUseCase {
	var c ports.Cache
	if cache != nil {
		c = cache
	}
	return inventory.NewQueryUseCase(f.Store.Repos(), c, time.Minute, logger.Nop())
}

func TestIntake_SumaEnBodega(t *testing.T) {
	f := memstore.NewFixture()
	cache := memstore.NewCache()
	uc := newStockUC(f, cache)
	exp := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	adj, err := uc.Intake(context.Background(), memstore.Actor(f.WHAdmin), inventory.IntakeInput{
		ProductID: f.Product.ID, Quantity: 100, BatchNumber: " L-77 ", ExpirationDate: &exp, Notes: "proveedor X",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100), adj.NewQuantity)
	assert.Equal(t, "L-77", adj.Inventory.BatchNumber)
	require.NotNil(t, adj.Inventory.ExpirationDate)
	assert.Equal(t, entity.MovementAdd, adj.Movement.MovementType)
	assert.Equal(t, "Warehouse intake: proveedor X", adj.Movement.Details)
	assert.True(t, cache.WasInvalidated(ports.Branch(ports.EntityInventory, f.Warehouse.ID)))
}

func TestIntake_SoloBodegaOCEO(t *testing.T) {
	f := memstore.NewFixture()
	uc := newStockUC(f, nil)

	_, err := uc.Intake(context.Background(), memstore.Actor(f.AAdmin), inventory.IntakeInput{ProductID: f.Product.ID, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Intake(context.Background(), memstore.Actor(f.CEO), inventory.IntakeInput{ProductID: f.Product.ID, Quantity: 1})
	assert.NoError(t, err)

	_, err = uc.Intake(context.Background(), memstore.Actor(f.CEO), inventory.IntakeInput{ProductID: "nope", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Intake(context.Background(), memstore.Actor(f.CEO), inventory.IntakeInput{ProductID: f.Product.ID, Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIntake_SinBodegaConfigurada(t *testing.T) {
	s := memstore.New()
	ceo := s.AddUser("ceo@x", entity.RoleCEO, "")
	uc := inventory.NewStockUseCase(s, s.Repos(), inventory.NewLedger(), nil, logger.Nop())
	_, err := uc.Intake(context.Background(), memstore.Actor(ceo), inventory.IntakeInput{ProductID: "p", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNoWarehouse)
}

func TestAdjust_CorreccionManual(t *testing.T) {
	f := memstore.NewFixture()
	inv := f.Store.SetStock(f.Product.ID, f.BranchA.ID, "", 20)
	uc := newStockUC(f, nil)

	adj, err := uc.Adjust(context.Background(), memstore.Actor(f.AAdmin), inventory.ManualAdjustInput{
		InventoryID: inv.ID, Delta: -4, Reason: "conteo físico",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(16), adj.NewQuantity)
	assert.Equal(t, entity.MovementRemove, adj.Movement.MovementType)
	assert.Equal(t, int64(4), adj.Movement.Quantity)

	_, err = uc.Adjust(context.Background(), memstore.Actor(f.BAdmin), inventory.ManualAdjustInput{InventoryID: inv.ID, Delta: 1, Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Adjust(context.Background(), memstore.Actor(f.AAdmin), inventory.ManualAdjustInput{InventoryID: inv.ID, Delta: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Adjust(context.Background(), memstore.Actor(f.AAdmin), inventory.ManualAdjustInput{InventoryID: inv.ID, Delta: -17, Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(16), f.Store.Quantity(f.Product.ID, f.BranchA.ID, ""))
}

func TestQuery_ListRespetaSede(t *testing.T) {
	f := memstore.NewFixture()
	f.Store.SetStock(f.Product.ID, f.BranchA.ID, "", 3)
	f.Store.SetStock(f.Product.ID, f.BranchB.ID, "", 4)
	uc := newQueryUC(f, nil)

	rows, err := uc.List(context.Background(), memstore.Actor(f.CEO), "", "")
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = uc.List(context.Background(), memstore.Actor(f.AAdmin), "", "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, f.BranchA.ID, rows[0].BranchID)

	_, err = uc.List(context.Background(), memstore.Actor(f.AAdmin), f.BranchB.ID, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestQuery_LowStockConCache(t *testing.T) {
	f := memstore.NewFixture()
	f.Store.SetStock(f.Product.ID, f.BranchA.ID, "L1", 9)
	f.Store.SetStock(f.Product.ID, f.BranchA.ID, "L2", 2)
	f.Store.SetStock(f.Product.ID, f.BranchA.ID, "L3", 10)
	cache := memstore.NewCache()
	uc := newQueryUC(f, cache)
	actor := memstore.Actor(f.AAdmin)

	items, err := uc.LowStock(context.Background(), actor, "")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "L2", items[0].Inventory.BatchNumber, "la más crítica primero")
	assert.Equal(t, int64(13), items[0].SuggestedQty)

	again, err := uc.LowStock(context.Background(), actor, "")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Hits)
	assert.Len(t, again, 2)

	require.NoError(t, cache.Invalidate(context.Background(), ports.StockChanged(f.BranchA.ID)...))
	_, err = uc.LowStock(context.Background(), actor, "")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Hits, "tras invalidar se vuelve a consultar el store")
}

func TestQuery_Expired(t *testing.T) {
	f := memstore.NewFixture()
	past := f.Store.SetStock(f.Product.ID, f.BranchA.ID, "OLD", 5)
	future := f.Store.SetStock(f.Product.ID, f.BranchA.ID, "NEW", 5)
	f.Store.SetExpiration(past.ID, time.Now().AddDate(0, 0, -1))
	f.Store.SetExpiration(future.ID, time.Now().AddDate(0, 1, 0))

	rows, err := newQueryUC(f, nil).Expired(context.Background(), memstore.Actor(f.AAdmin), "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "OLD", rows[0].BatchNumber)
}

func TestQuery_HistoryYMovimientos(t *testing.T) {
	f := memstore.NewFixture()
	stock := newStockUC(f, nil)
	q := newQueryUC(f, nil)
	wh := memstore.Actor(f.WHAdmin)

	adj, err := stock.Intake(context.Background(), wh, inventory.IntakeInput{ProductID: f.Product.ID, Quantity: 30})
	require.NoError(t, err)
	_, err = stock.Adjust(context.Background(), wh, inventory.ManualAdjustInput{InventoryID: adj.Inventory.ID, Delta: -5, Reason: "rotura"})
	require.NoError(t, err)

	h, err := q.History(context.Background(), wh, adj.Inventory.ID)
	require.NoError(t, err)
	assert.Len(t, h.Versions, 2)
	assert.True(t, h.Consistent)
	assert.Equal(t, int64(25), h.Replay.Final)

	_, err = q.History(context.Background(), memstore.Actor(f.AAdmin), adj.Inventory.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	movs, err := q.Movements(context.Background(), memstore.Actor(f.CEO), inventory.MovementsInput{BranchID: f.Warehouse.ID})
	require.NoError(t, err)
	assert.Len(t, movs, 2)

	from := time.Now().Add(time.Hour)
	movs, err = q.Movements(context.Background(), memstore.Actor(f.CEO), inventory.MovementsInput{From: &from})
	require.NoError(t, err)
	assert.Empty(t, movs)

	to := time.Now().Add(-time.Hour)
	_, err = q.Movements(context.Background(), memstore.Actor(f.CEO), inventory.MovementsInput{From: &from, To: &to})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
