package sales_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/application/ports"
	"github.com/jhoicas/Farmacia-api/internal/application/sales"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/testutil/memstore"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

func newUC(f *memstore.Fixture, cache *memstore.Cache) *sales.UseCase {
	return sales.NewUseCase(f.Store, f.Store.Repos(), inventory.NewLedger(), cache, logger.Nop())
}

func TestCreate_DescuentaStockYCalculaTotal(t *testing.T) {
	f := memstore.NewFixture()
	ibuprofen := f.Store.AddProduct("Ibuprofen 400mg", decimal.RequireFromString("4.00"))
	f.Store.SetStock(f.Product.ID, f.BranchA.ID, "", 10)
	f.Store.SetStock(ibuprofen.ID, f.BranchA.ID, "B7", 5)
	cache := memstore.NewCache()
	promo := decimal.RequireFromString("3.25")

	sale, err := newUC(f, cache).Create(context.Background(), memstore.Actor(f.AAdmin), sales.CreateInput{
		PaymentMethod: entity.PaymentMomo,
		CustomerID:    "cust-1",
		Items: []sales.ItemInput{
			{ProductID: f.Product.ID, Quantity: 4},
			{ProductID: ibuprofen.ID, BatchNumber: "B7", Quantity: 2, PriceAtSale: &promo},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, f.BranchA.ID, sale.BranchID)
	assert.True(t, decimal.RequireFromString("16.50").Equal(sale.TotalAmount), sale.TotalAmount.String())
	require.Len(t, sale.Items, 2)

	assert.Equal(t, int64(6), f.Store.Quantity(f.Product.ID, f.BranchA.ID, ""))
	assert.Equal(t, int64(3), f.Store.Quantity(ibuprofen.ID, f.BranchA.ID, "B7"))

	movs := f.Store.Movements()
	require.Len(t, movs, 2)
	for _, m := range movs {
		assert.Equal(t, entity.MovementRemove, m.MovementType)
		assert.Equal(t, "Sold via MOMO", m.Details)
	}
	assert.True(t, cache.WasInvalidated(ports.Branch(ports.EntitySales, f.BranchA.ID)))
}

func TestCreate_UnItemSinStockAbortaTodo(t *testing.T) {
	f := memstore.NewFixture()
	other := f.Store.AddProduct("Amoxicillin", decimal.NewFromInt(6))
	f.Store.SetStock(f.Product.ID, f.BranchA.ID, "", 10)

	_, err := newUC(f, memstore.NewCache()).Create(context.Background(), memstore.Actor(f.AAdmin), sales.CreateInput{
		PaymentMethod: entity.PaymentCash,
		Items: []sales.ItemInput{
			{ProductID: f.Product.ID, Quantity: 3},
			{ProductID: other.ID, Quantity: 1},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(10), f.Store.Quantity(f.Product.ID, f.BranchA.ID, ""))
	assert.Empty(t, f.Store.Movements())

	list, err := newUC(f, memstore.NewCache()).List(context.Background(), memstore.Actor(f.CEO), "")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreate_Validaciones(t *testing.T) {
	f := memstore.NewFixture()
	uc := newUC(f, memstore.NewCache())
	ctx := context.Background()
	item := []sales.ItemInput{{ProductID: f.Product.ID, Quantity: 1}}

	_, err := uc.Create(ctx, memstore.Actor(f.AAdmin), sales.CreateInput{PaymentMethod: "BARTER", Items: item})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, memstore.Actor(f.AAdmin), sales.CreateInput{PaymentMethod: entity.PaymentCard})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, memstore.Actor(f.CEO), sales.CreateInput{PaymentMethod: entity.PaymentCard, Items: item})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el CEO debe indicar la sucursal")

	_, err = uc.Create(ctx, memstore.Actor(f.AAdmin), sales.CreateInput{BranchID: f.BranchB.ID, PaymentMethod: entity.PaymentCard, Items: item})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Create(ctx, memstore.Actor(f.WHAdmin), sales.CreateInput{PaymentMethod: entity.PaymentCard, Items: item})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "no se vende en la bodega")

	neg := decimal.NewFromInt(-1)
	_, err = uc.Create(ctx, memstore.Actor(f.AAdmin), sales.CreateInput{PaymentMethod: entity.PaymentCard,
		Items: []sales.ItemInput{{ProductID: f.Product.ID, Quantity: 1, PriceAtSale: &neg}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestList_PorSucursal(t *testing.T) {
	f := memstore.NewFixture()
	f.Store.SetStock(f.Product.ID, f.BranchA.ID, "", 10)
	f.Store.SetStock(f.Product.ID, f.BranchB.ID, "", 10)
	uc := newUC(f, memstore.NewCache())
	ctx := context.Background()
	item := []sales.ItemInput{{ProductID: f.Product.ID, Quantity: 1}}

	_, err := uc.Create(ctx, memstore.Actor(f.AAdmin), sales.CreateInput{PaymentMethod: entity.PaymentCash, Items: item})
	require.NoError(t, err)
	_, err = uc.Create(ctx, memstore.Actor(f.CEO), sales.CreateInput{BranchID: f.BranchB.ID, PaymentMethod: entity.PaymentCard, Items: item})
	require.NoError(t, err)

	list, err := uc.List(ctx, memstore.Actor(f.AAdmin), "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, f.BranchA.ID, list[0].BranchID)

	list, err = uc.List(ctx, memstore.Actor(f.CEO), "")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
