package inventory_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/inventory"
)

func TestApplyDelta(t *testing.T) {
	cases := []struct {
		name    string
		current int64
		delta   int64
		want    int64
		wantErr bool
	}{
		{"suma", 10, 5, 15, false},
		{"resta exacta a cero", 10, -10, 0, false},
		{"resta parcial", 10, -3, 7, false},
		{"negativo rechazado", 10, -11, 10, true},
		{"desde cero", 0, 20, 20, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := inventory.ApplyDelta(tc.current, tc.delta)
			if tc.wantErr {
				assert.ErrorIs(t, err, domain.ErrInsufficientStock)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestReplayVersions_CadenaVacia(t *testing.T) {
	res := inventory.ReplayVersions(nil)
	assert.Equal(t, int64(0), res.Final)
	assert.True(t, res.Consistent(0))
}

func TestReplayVersions_DetectaHueco(t *testing.T) {
	versions := []*entity.InventoryVersion{
		{PreviousQuantity: 0, NewQuantity: 10},
		{PreviousQuantity: 12, NewQuantity: 8},
	}
	res := inventory.ReplayVersions(versions)
	assert.Equal(t, []int{1}, res.Gaps)
	assert.False(t, res.Consistent(8))
}

// Secuencias aleatorias de ajustes: la cadena de versiones siempre reconstruye la cantidad final.
func TestReplayVersions_PropiedadReconstruccion(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for iter := 0; iter < 200; iter++ {
		qty := int64(0)
		var versions []*entity.InventoryVersion
		for step := 0; step < 1+rng.Intn(40); step++ {
			delta := int64(rng.Intn(41) - 20)
			next, err := inventory.ApplyDelta(qty, delta)
			if err != nil {
				assert.Equal(t, qty, next, "un ajuste rechazado no cambia la cantidad")
				continue
			}
			versions = append(versions, &entity.InventoryVersion{PreviousQuantity: qty, NewQuantity: next})
			qty = next
			require.GreaterOrEqual(t, qty, int64(0))
		}
		res := inventory.ReplayVersions(versions)
		assert.True(t, res.Consistent(qty), "iteración %d: replay=%d actual=%d", iter, res.Final, qty)
	}
}
