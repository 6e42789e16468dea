package inventory

import (
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// ReplayResult resultado de reconstruir una fila a partir de su cadena de versiones.
type ReplayResult struct {
	Initial  int64 // previous_quantity de la primera versión
	Final    int64 // cantidad reconstruida
	Versions int
	// Gaps índices donde previous_quantity no coincide con el new_quantity anterior.
	Gaps []int
}

// Consistent la cadena no tiene huecos y termina en la cantidad esperada.
func (r ReplayResult) Consistent(current int64) bool {
	return len(r.Gaps) == 0 && r.Final == current
}

// ReplayVersions aplica los deltas previous→new en orden (servicio de dominio, sin I/O).
// Una cadena vacía reconstruye 0.
func ReplayVersions(versions []*entity.InventoryVersion) ReplayResult {
	var res ReplayResult
	res.Versions = len(versions)
	if len(versions) == 0 {
		return res
	}
	res.Initial = versions[0].PreviousQuantity
	qty := res.Initial
	for i, v := range versions {
		if v.PreviousQuantity != qty {
			res.Gaps = append(res.Gaps, i)
		}
		qty += v.Delta()
	}
	res.Final = qty
	return res
}

// ApplyDelta NuevaCantidad = CantidadActual + delta, rechazando negativos.
func ApplyDelta(current, delta int64) (int64, error) {
	next := current + delta
	if next < 0 {
		return current, domain.ErrInsufficientStock
	}
	return next, nil
}
