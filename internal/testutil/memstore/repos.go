package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var (
	_ repository.UserRepository             = userRepo{}
	_ repository.SiteRepository             = siteRepo{}
	_ repository.ProductRepository          = productRepo{}
	_ repository.InventoryRepository        = inventoryRepo{}
	_ repository.StockMovementRepository    = movementRepo{}
	_ repository.InventoryVersionRepository = versionRepo{}
	_ repository.StockTransferRepository    = transferRepo{}
	_ repository.NotificationRepository     = notificationRepo{}
	_ repository.SaleRepository             = saleRepo{}
)

// ── users ──

type userRepo struct{ base }

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	defer r.lock()()
	for _, x := range r.st().users {
		if strings.EqualFold(x.Email, u.Email) {
			return domain.ErrDuplicate
		}
	}
	r.st().users[u.ID] = *u
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	defer r.lock()()
	u, ok := r.st().users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	defer r.lock()()
	for _, u := range r.st().users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r userRepo) ListActive(_ context.Context, f repository.UserFilter) ([]*entity.User, error) {
	defer r.lock()()
	var out []*entity.User
	for _, u := range r.st().users {
		if !u.IsActive || (f.Role != "" && u.Role != f.Role) {
			continue
		}
		if f.BranchID != "" && (u.BranchID == nil || *u.BranchID != f.BranchID) {
			continue
		}
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

// ── sites ──

type siteRepo struct{ base }

func (r siteRepo) Create(_ context.Context, s *entity.Site) error {
	defer r.lock()()
	if s.IsWarehouse {
		for _, x := range r.st().sites {
			if x.IsWarehouse {
				return fmt.Errorf("a warehouse already exists: %w", domain.ErrDuplicate)
			}
		}
	}
	r.st().sites[s.ID] = *s
	return nil
}

func (r siteRepo) GetByID(_ context.Context, id string) (*entity.Site, error) {
	defer r.lock()()
	s, ok := r.st().sites[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r siteRepo) GetWarehouse(_ context.Context) (*entity.Site, error) {
	defer r.lock()()
	for _, s := range r.st().sites {
		if s.IsWarehouse {
			return &s, nil
		}
	}
	return nil, nil
}

func (r siteRepo) List(_ context.Context) ([]*entity.Site, error) {
	defer r.lock()()
	out := make([]*entity.Site, 0, len(r.st().sites))
	for _, s := range r.st().sites {
		s := s
		out = append(out, &s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ── products ──

type productRepo struct{ base }

func (r productRepo) Create(_ context.Context, p *entity.Product) error {
	defer r.lock()()
	r.st().products[p.ID] = *p
	return nil
}

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	defer r.lock()()
	p, ok := r.st().products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r productRepo) GetByName(_ context.Context, name string) (*entity.Product, error) {
	defer r.lock()()
	for _, p := range r.st().products {
		if strings.EqualFold(p.Name, name) {
			return &p, nil
		}
	}
	return nil, nil
}

// ── inventory ──

type inventoryRepo struct{ base }

func (r inventoryRepo) GetByID(_ context.Context, id string) (*entity.Inventory, error) {
	defer r.lock()()
	inv, ok := r.st().inventory[id]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (r inventoryRepo) GetByKey(_ context.Context, productID, branchID, batch string) (*entity.Inventory, error) {
	defer r.lock()()
	inv, ok := r.st().findInventory(productID, branchID, batch)
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (r inventoryRepo) GetForUpdate(ctx context.Context, productID, branchID, batch string) (*entity.Inventory, error) {
	return r.GetByKey(ctx, productID, branchID, batch)
}

func (r inventoryRepo) CreateIfAbsent(_ context.Context, inv *entity.Inventory) error {
	defer r.lock()()
	if _, ok := r.st().findInventory(inv.ProductID, inv.BranchID, inv.BatchNumber); ok {
		return nil
	}
	r.st().inventory[inv.ID] = *inv
	return nil
}

func (r inventoryRepo) UpdateQuantity(_ context.Context, id string, quantity int64, updatedAt time.Time) error {
	defer r.lock()()
	inv, ok := r.st().inventory[id]
	if !ok {
		return domain.ErrInventoryNotFound
	}
	if quantity < 0 {
		return fmt.Errorf("check constraint inventory_quantity_non_negative")
	}
	inv.Quantity = quantity
	inv.UpdatedAt = updatedAt
	r.st().inventory[id] = inv
	return nil
}

func (r inventoryRepo) List(_ context.Context, f repository.InventoryFilter) ([]*entity.Inventory, error) {
	defer r.lock()()
	return r.collect(func(inv entity.Inventory) bool {
		return (f.BranchID == "" || inv.BranchID == f.BranchID) && (f.ProductID == "" || inv.ProductID == f.ProductID)
	}), nil
}

func (r inventoryRepo) ListLowStock(_ context.Context, branchID string) ([]*entity.Inventory, error) {
	defer r.lock()()
	return r.collect(func(inv entity.Inventory) bool {
		return (branchID == "" || inv.BranchID == branchID) && inv.IsLowStock()
	}), nil
}

func (r inventoryRepo) ListExpired(_ context.Context, branchID string, today time.Time) ([]*entity.Inventory, error) {
	defer r.lock()()
	return r.collect(func(inv entity.Inventory) bool {
		return (branchID == "" || inv.BranchID == branchID) && inv.IsExpired(today)
	}), nil
}

func (r inventoryRepo) collect(keep func(entity.Inventory) bool) []*entity.Inventory {
	var out []*entity.Inventory
	for _, inv := range r.st().inventory {
		if keep(inv) {
			inv := inv
			out = append(out, &inv)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BranchID != out[j].BranchID {
			return out[i].BranchID < out[j].BranchID
		}
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].BatchNumber < out[j].BatchNumber
	})
	return out
}

// ── stock movements ──

type movementRepo struct{ base }

func (r movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	defer r.lock()()
	if m.Quantity <= 0 {
		return fmt.Errorf("check constraint stock_movements_quantity_positive")
	}
	r.st().movements = append(r.st().movements, *m)
	return nil
}

func (r movementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	defer r.lock()()
	var out []*entity.StockMovement
	for _, m := range r.st().movements {
		if f.BranchID != "" && m.BranchID != f.BranchID {
			continue
		}
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		if f.TransferID != "" && (m.TransferID == nil || *m.TransferID != f.TransferID) {
			continue
		}
		if f.From != nil && m.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && m.CreatedAt.After(*f.To) {
			continue
		}
		m := m
		out = append(out, &m)
	}
	return out, nil
}

// ── inventory versions ──

type versionRepo struct{ base }

func (r versionRepo) Create(_ context.Context, v *entity.InventoryVersion) error {
	defer r.lock()()
	r.st().versions = append(r.st().versions, *v)
	return nil
}

func (r versionRepo) ListByInventory(_ context.Context, inventoryID string) ([]*entity.InventoryVersion, error) {
	defer r.lock()()
	var out []*entity.InventoryVersion
	for _, v := range r.st().versions {
		if v.InventoryID == inventoryID {
			v := v
			out = append(out, &v)
		}
	}
	return out, nil
}

// ── stock transfers ──

type transferRepo struct{ base }

func (r transferRepo) Create(_ context.Context, t *entity.StockTransfer) error {
	defer r.lock()()
	if _, ok := r.st().transfers[t.ID]; ok {
		return domain.ErrDuplicate
	}
	r.st().transfers[t.ID] = *t
	return nil
}

func (r transferRepo) GetByID(_ context.Context, id string) (*entity.StockTransfer, error) {
	defer r.lock()()
	t, ok := r.st().transfers[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r transferRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockTransfer, error) {
	return r.GetByID(ctx, id)
}

func (r transferRepo) Update(_ context.Context, t *entity.StockTransfer) error {
	defer r.lock()()
	if _, ok := r.st().transfers[t.ID]; !ok {
		return domain.ErrNotFound
	}
	r.st().transfers[t.ID] = *t
	return nil
}

func (r transferRepo) Delete(_ context.Context, id string) error {
	defer r.lock()()
	if _, ok := r.st().transfers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.st().transfers, id)
	return nil
}

func (r transferRepo) List(_ context.Context, f repository.TransferFilter) ([]*entity.StockTransfer, error) {
	defer r.lock()()
	var out []*entity.StockTransfer
	for _, t := range r.st().transfers {
		if f.BranchID != "" && t.FromBranchID != f.BranchID && t.ToBranchID != f.BranchID {
			continue
		}
		if f.ToBranchID != "" && t.ToBranchID != f.ToBranchID {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		t := t
		out = append(out, &t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ── notifications ──

type notificationRepo struct{ base }

func (r notificationRepo) Create(_ context.Context, n *entity.Notification) error {
	defer r.lock()()
	r.st().notifications = append(r.st().notifications, *n)
	return nil
}

func (r notificationRepo) GetByID(_ context.Context, id string) (*entity.Notification, error) {
	defer r.lock()()
	for _, n := range r.st().notifications {
		if n.ID == id {
			return &n, nil
		}
	}
	return nil, nil
}

func (r notificationRepo) List(_ context.Context, f repository.NotificationFilter) ([]*entity.Notification, error) {
	defer r.lock()()
	var out []*entity.Notification
	all := r.st().notifications
	for i := len(all) - 1; i >= 0; i-- {
		n := all[i]
		if n.RecipientID != f.RecipientID {
			continue
		}
		if f.Type != "" && n.Type != f.Type {
			continue
		}
		if f.UnreadOnly && n.IsRead {
			continue
		}
		if !f.IncludeArchived && n.IsArchived {
			continue
		}
		out = append(out, &n)
	}
	if f.Offset >= len(out) {
		return nil, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r notificationRepo) CountUnread(_ context.Context, recipientID string) (int, error) {
	defer r.lock()()
	count := 0
	for _, n := range r.st().notifications {
		if n.RecipientID == recipientID && !n.IsRead && !n.IsArchived {
			count++
		}
	}
	return count, nil
}

func (r notificationRepo) MarkRead(_ context.Context, id, recipientID string) error {
	return r.update(id, recipientID, func(n *entity.Notification) { n.IsRead = true })
}

func (r notificationRepo) Archive(_ context.Context, id, recipientID string) error {
	return r.update(id, recipientID, func(n *entity.Notification) { n.IsArchived = true })
}

func (r notificationRepo) MarkAllRead(_ context.Context, recipientID string) (int, error) {
	defer r.lock()()
	changed := 0
	for i := range r.st().notifications {
		n := &r.st().notifications[i]
		if n.RecipientID == recipientID && !n.IsRead {
			n.IsRead = true
			n.UpdatedAt = time.Now()
			changed++
		}
	}
	return changed, nil
}

func (r notificationRepo) update(id, recipientID string, fn func(*entity.Notification)) error {
	defer r.lock()()
	for i := range r.st().notifications {
		n := &r.st().notifications[i]
		if n.ID == id && n.RecipientID == recipientID {
			fn(n)
			n.UpdatedAt = time.Now()
			return nil
		}
	}
	return domain.ErrNotFound
}

// ── sales ──

type saleRepo struct{ base }

func (r saleRepo) Create(_ context.Context, s *entity.Sale) error {
	defer r.lock()()
	c := *s
	c.Items = append([]entity.SaleItem(nil), s.Items...)
	r.st().sales = append(r.st().sales, c)
	return nil
}

func (r saleRepo) List(_ context.Context, branchID string) ([]*entity.Sale, error) {
	defer r.lock()()
	var out []*entity.Sale
	for i := len(r.st().sales) - 1; i >= 0; i-- {
		s := r.st().sales[i]
		if branchID == "" || s.BranchID == branchID {
			out = append(out, &s)
		}
	}
	return out, nil
}
