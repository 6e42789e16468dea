package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

func TestParseRole(t *testing.T) {
	r, ok := entity.ParseRole("CEO")
	assert.True(t, ok)
	assert.Equal(t, entity.RoleCEO, r)

	r, ok = entity.ParseRole("Admin")
	assert.True(t, ok)
	assert.Equal(t, entity.RoleBranchAdmin, r)

	for _, s := range []string{"", "admin", "ceo", "staff"} {
		_, ok := entity.ParseRole(s)
		assert.False(t, ok, s)
	}
}

func TestActor_Capacidades(t *testing.T) {
	const wh = "wh"
	ceo := entity.Actor{UserID: "c", Role: entity.RoleCEO}
	whAdmin := entity.Actor{UserID: "w", Role: entity.RoleBranchAdmin, BranchID: wh}
	b1Admin := entity.Actor{UserID: "a", Role: entity.RoleBranchAdmin, BranchID: "b1"}
	noBranch := entity.Actor{UserID: "n", Role: entity.RoleBranchAdmin}

	assert.True(t, ceo.CanApproveTransfer(wh))
	assert.True(t, whAdmin.CanApproveTransfer(wh))
	assert.False(t, b1Admin.CanApproveTransfer(wh))

	assert.True(t, ceo.CanDispatch(wh))
	assert.True(t, whAdmin.CanDispatch(wh))
	assert.False(t, b1Admin.CanDispatch(wh))

	assert.True(t, b1Admin.CanRequestTransfer(wh))
	assert.False(t, whAdmin.CanRequestTransfer(wh))
	assert.False(t, ceo.CanRequestTransfer(wh))
	assert.False(t, noBranch.CanRequestTransfer(wh))

	assert.True(t, b1Admin.CanReceiveAt("b1"))
	assert.False(t, b1Admin.CanReceiveAt("b2"))
	assert.False(t, whAdmin.CanReceiveAt("b1"))
	assert.True(t, ceo.CanReceiveAt("b1"))
	assert.False(t, noBranch.CanReceiveAt(""))

	assert.True(t, ceo.CanSeeAllBranches())
	assert.False(t, b1Admin.CanSeeAllBranches())
}

func TestInventory_StockBajoYVencido(t *testing.T) {
	today := time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)
	sameDay := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	tomorrow := today.AddDate(0, 0, 1)

	inv := &entity.Inventory{Quantity: 9, ThresholdQuantity: 10}
	assert.True(t, inv.IsLowStock())
	inv.Quantity = 10
	assert.False(t, inv.IsLowStock())

	assert.False(t, inv.IsExpired(today), "sin fecha no vence")
	inv.ExpirationDate = &sameDay
	assert.True(t, inv.IsExpired(today))
	inv.ExpirationDate = &tomorrow
	assert.False(t, inv.IsExpired(today))
}

func TestActor_BranchScope(t *testing.T) {
	ceo := entity.Actor{UserID: "c", Role: entity.RoleCEO}
	admin := entity.Actor{UserID: "a", Role: entity.RoleBranchAdmin, BranchID: "b1"}

	got, err := ceo.BranchScope("")
	assert.NoError(t, err)
	assert.Equal(t, "", got)
	got, err = ceo.BranchScope("b2")
	assert.NoError(t, err)
	assert.Equal(t, "b2", got)

	got, err = admin.BranchScope("")
	assert.NoError(t, err)
	assert.Equal(t, "b1", got)
	_, err = admin.BranchScope("b2")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
