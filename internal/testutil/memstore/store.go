// Package memstore implementa los puertos de repositorio en memoria con transacciones
// todo-o-nada (snapshot/restore). Run serializa las transacciones como lo haría un
// bloqueo de fila en PostgreSQL sobre las mismas claves.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

type state struct {
	users         map[string]entity.User
	sites         map[string]entity.Site
	products      map[string]entity.Product
	inventory     map[string]entity.Inventory
	movements     []entity.StockMovement
	versions      []entity.InventoryVersion
	transfers     map[string]entity.StockTransfer
	notifications []entity.Notification
	sales         []entity.Sale
}

func newState() *state {
	return &state{
		users:     map[string]entity.User{},
		sites:     map[string]entity.Site{},
		products:  map[string]entity.Product{},
		inventory: map[string]entity.Inventory{},
		transfers: map[string]entity.StockTransfer{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.sites {
		c.sites[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.inventory {
		c.inventory[k] = v
	}
	for k, v := range s.transfers {
		c.transfers[k] = v
	}
	c.movements = append([]entity.StockMovement(nil), s.movements...)
	c.versions = append([]entity.InventoryVersion(nil), s.versions...)
	c.notifications = append([]entity.Notification(nil), s.notifications...)
	c.sales = append([]entity.Sale(nil), s.sales...)
	return c
}

// Store almacén en memoria.
type Store struct {
	mu   sync.Mutex
	data *state
	// Commits cuenta transacciones confirmadas; Rollbacks las revertidas.
	Commits   int
	Rollbacks int
}

// New crea un almacén vacío.
func New() *Store {
	return &Store{data: newState()}
}

// Repos repositorios fuera de transacción (cada llamada toma el lock).
func (s *Store) Repos() repository.Repos {
	return s.repos(false)
}

func (s *Store) repos(inTx bool) repository.Repos {
	b := base{s: s, inTx: inTx}
	return repository.Repos{
		Users:         userRepo{b},
		Sites:         siteRepo{b},
		Products:      productRepo{b},
		Inventory:     inventoryRepo{b},
		Movements:     movementRepo{b},
		Versions:      versionRepo{b},
		Transfers:     transferRepo{b},
		Notifications: notificationRepo{b},
		Sales:         saleRepo{b},
	}
}

// Run ejecuta fn con repos atados a una transacción. Si fn falla se restaura el snapshot.
// No llamar a Store.Repos() desde dentro de fn: el lock ya está tomado.
func (s *Store) Run(ctx context.Context, fn func(repos repository.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	snapshot := s.data.clone()
	if err := fn(s.repos(true)); err != nil {
		s.data = snapshot
		s.Rollbacks++
		return err
	}
	s.Commits++
	return nil
}

// ── accesores para aserciones en tests ──

// Movements copia de la bitácora de movimientos.
func (s *Store) Movements() []entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.StockMovement(nil), s.data.movements...)
}

// Versions copia de la bitácora de versiones.
func (s *Store) Versions() []entity.InventoryVersion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.InventoryVersion(nil), s.data.versions...)
}

// Notifications copia de todas las notificaciones.
func (s *Store) Notifications() []entity.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Notification(nil), s.data.notifications...)
}

// Transfers todos los traslados ordenados por creación.
func (s *Store) Transfers() []entity.StockTransfer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.StockTransfer, 0, len(s.data.transfers))
	for _, t := range s.data.transfers {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Quantity cantidad actual de (producto, sede, lote); 0 si no hay fila.
func (s *Store) Quantity(productID, branchID, batch string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if inv, ok := s.data.findInventory(productID, branchID, batch); ok {
		return inv.Quantity
	}
	return 0
}

type base struct {
	s    *Store
	inTx bool
}

// lock toma el mutex salvo dentro de una transacción (Run ya lo tiene).
func (b base) lock() func() {
	if b.inTx {
		return func() {}
	}
	b.s.mu.Lock()
	return b.s.mu.Unlock
}

func (b base) st() *state { return b.s.data }

func (s *state) findInventory(productID, branchID, batch string) (entity.Inventory, bool) {
	for _, inv := range s.inventory {
		if inv.ProductID == productID && inv.BranchID == branchID && inv.BatchNumber == batch {
			return inv, true
		}
	}
	return entity.Inventory{}, false
}
