package entity

import (
	"strings"

	"github.com/jhoicas/Farmacia-api/internal/domain"
)

// Role enumeración cerrada de roles del sistema.
type Role string

const (
	RoleCEO         Role = "CEO"
	RoleBranchAdmin Role = "Admin"
)

// ParseRole convierte el claim del token en un Role válido. ok=false si el valor no es conocido.
func ParseRole(s string) (Role, bool) {
	switch strings.TrimSpace(s) {
	case string(RoleCEO):
		return RoleCEO, true
	case string(RoleBranchAdmin):
		return RoleBranchAdmin, true
	}
	return "", false
}

// Actor es quien ejecuta una operación: usuario autenticado con su rol y sucursal.
// Las decisiones de autorización se expresan como capacidades sobre el Actor,
// nunca comparando cadenas de rol en los handlers.
type Actor struct {
	UserID   string
	Role     Role
	BranchID string // vacío para un CEO sin sucursal asignada
}

// IsCEO informa si el actor tiene visibilidad y control sobre todas las sedes.
func (a Actor) IsCEO() bool { return a.Role == RoleCEO }

// CanSeeAllBranches CEO ve todas las sedes; un Admin solo la suya.
func (a Actor) CanSeeAllBranches() bool { return a.IsCEO() }

// CanManageBranch permite operar sobre el inventario/ventas de una sede.
func (a Actor) CanManageBranch(branchID string) bool {
	if a.IsCEO() {
		return true
	}
	return a.Role == RoleBranchAdmin && a.BranchID != "" && a.BranchID == branchID
}

// IsWarehouseStaff informa si el actor es Admin de la bodega central.
func (a Actor) IsWarehouseStaff(warehouseID string) bool {
	return a.Role == RoleBranchAdmin && warehouseID != "" && a.BranchID == warehouseID
}

// CanApproveTransfer CEO o personal de bodega aprueban/rechazan solicitudes.
func (a Actor) CanApproveTransfer(warehouseID string) bool {
	return a.IsCEO() || a.IsWarehouseStaff(warehouseID)
}

// CanDispatch CEO o personal de bodega despachan stock hacia sucursales.
func (a Actor) CanDispatch(warehouseID string) bool {
	return a.IsCEO() || a.IsWarehouseStaff(warehouseID)
}

// CanRequestTransfer solo un Admin de sucursal (no de bodega) solicita stock.
func (a Actor) CanRequestTransfer(warehouseID string) bool {
	return a.Role == RoleBranchAdmin && a.BranchID != "" && a.BranchID != warehouseID
}

// CanReceiveAt solo el Admin de la sucursal destino (o el CEO) confirma la recepción.
func (a Actor) CanReceiveAt(branchID string) bool {
	return a.CanManageBranch(branchID)
}

// BranchScope sede efectiva de una consulta. El CEO puede pedir cualquiera (vacío = todas);
// un Admin queda restringido a la suya.
func (a Actor) BranchScope(requested string) (string, error) {
	if a.CanSeeAllBranches() {
		return requested, nil
	}
	if a.BranchID == "" || (requested != "" && requested != a.BranchID) {
		return "", domain.ErrForbidden
	}
	return a.BranchID, nil
}
