package memstore

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// Fixture escenario típico: una bodega, dos sucursales, un CEO y un Admin por sede.
type Fixture struct {
	Store     *Store
	Warehouse entity.Site
	BranchA   entity.Site
	BranchB   entity.Site
	CEO       entity.User
	WHAdmin   entity.User
	AAdmin    entity.User
	BAdmin    entity.User
	Product   entity.Product
}

// NewFixture arma el escenario base sin stock.
func NewFixture() *Fixture {
	s := New()
	f := &Fixture{Store: s}
	f.Warehouse = s.AddSite("Central Warehouse", true)
	f.BranchA = s.AddSite("Branch A", false)
	f.BranchB = s.AddSite("Branch B", false)
	f.CEO = s.AddUser("ceo@pharma.test", entity.RoleCEO, "")
	f.WHAdmin = s.AddUser("warehouse@pharma.test", entity.RoleBranchAdmin, f.Warehouse.ID)
	f.AAdmin = s.AddUser("a@pharma.test", entity.RoleBranchAdmin, f.BranchA.ID)
	f.BAdmin = s.AddUser("b@pharma.test", entity.RoleBranchAdmin, f.BranchB.ID)
	f.Product = s.AddProduct("Paracetamol 500mg", decimal.RequireFromString("2.50"))
	return f
}

// Actor actor autenticado a partir de un usuario del fixture.
func Actor(u entity.User) entity.Actor {
	a := entity.Actor{UserID: u.ID, Role: u.Role}
	if u.BranchID != nil {
		a.BranchID = *u.BranchID
	}
	return a
}

// AddSite inserta una sede.
func (s *Store) AddSite(name string, warehouse bool) entity.Site {
	site := entity.Site{ID: uuid.New().String(), Name: name, IsWarehouse: warehouse, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	s.mu.Lock()
	s.data.sites[site.ID] = site
	s.mu.Unlock()
	return site
}

// AddUser inserta un usuario activo.
func (s *Store) AddUser(email string, role entity.Role, branchID string) entity.User {
	u := entity.User{ID: uuid.New().String(), Email: email, FirstName: email, Role: role, IsActive: true, DateJoined: time.Now()}
	if branchID != "" {
		b := branchID
		u.BranchID = &b
	}
	s.mu.Lock()
	s.data.users[u.ID] = u
	s.mu.Unlock()
	return u
}

// AddProduct inserta un producto de catálogo.
func (s *Store) AddProduct(name string, price decimal.Decimal) entity.Product {
	p := entity.Product{ID: uuid.New().String(), Name: name, Category: "Analgesic", UnitPrice: price, CreatedAt: time.Now()}
	s.mu.Lock()
	s.data.products[p.ID] = p
	s.mu.Unlock()
	return p
}

// SetStock crea o pisa una fila de inventario sin pasar por el ledger (solo para preparar escenarios).
func (s *Store) SetStock(productID, branchID, batch string, qty int64) entity.Inventory {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.data.findInventory(productID, branchID, batch)
	if !ok {
		inv = entity.Inventory{
			ID:                uuid.New().String(),
			ProductID:         productID,
			BranchID:          branchID,
			BatchNumber:       batch,
			ThresholdQuantity: entity.DefaultThresholdQuantity,
			CreatedAt:         time.Now(),
		}
	}
	inv.Quantity = qty
	inv.UpdatedAt = time.Now()
	s.data.inventory[inv.ID] = inv
	return inv
}

// SetExpiration fija la fecha de vencimiento de una fila existente.
func (s *Store) SetExpiration(inventoryID string, date time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv := s.data.inventory[inventoryID]
	inv.ExpirationDate = &date
	s.data.inventory[inventoryID] = inv
}
