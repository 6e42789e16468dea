package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/application/ports"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Farmacia-api/internal/domain/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

// QueryUseCase lecturas puras sobre el ledger y sus bitácoras.
// Stock bajo y vencidos pasan por la caché (read-through) por alcance de sede.
type QueryUseCase struct {
	repos repository.Repos
	cache ports.Cache
	ttl   time.Duration
	log   *logger.Logger
	now   func() time.Time
}

// NewQueryUseCase construye el caso de uso. cache puede ser nil.
func NewQueryUseCase(repos repository.Repos, cache ports.Cache, ttl time.Duration, log *logger.Logger) *QueryUseCase {
	return &QueryUseCase{repos: repos, cache: cache, ttl: ttl, log: log.Component("inventory"), now: time.Now}
}

// List inventario visible para el actor. branchID vacío = todas (solo CEO).
func (uc *QueryUseCase) List(ctx context.Context, actor entity.Actor, branchID, productID string) ([]*entity.Inventory, error) {
	branch, err := actor.BranchScope(branchID)
	if err != nil {
		return nil, err
	}
	return uc.repos.Inventory.List(ctx, repository.InventoryFilter{BranchID: branch, ProductID: productID})
}

// LowStockItem fila bajo umbral con la cantidad sugerida para reponer.
type LowStockItem struct {
	Inventory    *entity.Inventory
	SuggestedQty int64
}

// LowStock filas con quantity < threshold_quantity, las más críticas primero.
// La sugerencia lleva la fila a 1.5 × umbral.
func (uc *QueryUseCase) LowStock(ctx context.Context, actor entity.Actor, branchID string) ([]LowStockItem, error) {
	branch, err := actor.BranchScope(branchID)
	if err != nil {
		return nil, err
	}
	scope := ports.Branch(ports.EntityInventory, branch)

	var items []LowStockItem
	if uc.cacheGet(ctx, scope, "low-stock", &items) {
		return items, nil
	}

	rows, err := uc.repos.Inventory.ListLowStock(ctx, branch)
	if err != nil {
		return nil, err
	}
	items = make([]LowStockItem, 0, len(rows))
	for _, r := range rows {
		ideal := r.ThresholdQuantity + r.ThresholdQuantity/2
		items = append(items, LowStockItem{Inventory: r, SuggestedQty: max(ideal-r.Quantity, 0)})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return ratio(items[i].Inventory) < ratio(items[j].Inventory)
	})
	uc.cacheSet(ctx, scope, "low-stock", items)
	return items, nil
}

// Expired filas con expiration_date <= hoy.
func (uc *QueryUseCase) Expired(ctx context.Context, actor entity.Actor, branchID string) ([]*entity.Inventory, error) {
	branch, err := actor.BranchScope(branchID)
	if err != nil {
		return nil, err
	}
	today := uc.now()
	scope := ports.Branch(ports.EntityInventory, branch)
	key := "expired:" + today.Format(time.DateOnly)

	var rows []*entity.Inventory
	if uc.cacheGet(ctx, scope, key, &rows) {
		return rows, nil
	}
	rows, err = uc.repos.Inventory.ListExpired(ctx, branch, today)
	if err != nil {
		return nil, err
	}
	uc.cacheSet(ctx, scope, key, rows)
	return rows, nil
}

// History cadena de versiones de una fila y su verificación por replay.
type History struct {
	Inventory *entity.Inventory
	Versions  []*entity.InventoryVersion
	Replay    domaininv.ReplayResult
	// Consistent la cadena reconstruye la cantidad actual.
	Consistent bool
}

// History versiones de una fila visible para el actor.
func (uc *QueryUseCase) History(ctx context.Context, actor entity.Actor, inventoryID string) (*History, error) {
	inv, err := uc.repos.Inventory.GetByID(ctx, inventoryID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrInventoryNotFound
	}
	if !actor.CanManageBranch(inv.BranchID) {
		return nil, domain.ErrForbidden
	}
	versions, err := uc.repos.Versions.ListByInventory(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	res := domaininv.ReplayVersions(versions)
	consistent := res.Consistent(inv.Quantity)
	if len(versions) == 0 {
		consistent = inv.Quantity == 0
	}
	if !consistent {
		uc.log.Warn().Str("inventory_id", inv.ID).Int64("quantity", inv.Quantity).Int64("replayed", res.Final).
			Ints("gaps", res.Gaps).Msg("la cadena de versiones no reconstruye la cantidad actual")
	}
	return &History{Inventory: inv, Versions: versions, Replay: res, Consistent: consistent}, nil
}

// MovementsInput filtros de la bitácora de movimientos.
type MovementsInput struct {
	BranchID  string
	ProductID string
	From      *time.Time
	To        *time.Time
}

// Movements bitácora visible para el actor (CEO todas las sedes; Admin la suya).
func (uc *QueryUseCase) Movements(ctx context.Context, actor entity.Actor, in MovementsInput) ([]*entity.StockMovement, error) {
	branch, err := actor.BranchScope(in.BranchID)
	if err != nil {
		return nil, err
	}
	if in.From != nil && in.To != nil && in.From.After(*in.To) {
		return nil, domain.ErrInvalidInput
	}
	return uc.repos.Movements.List(ctx, repository.MovementFilter{
		BranchID:  branch,
		ProductID: in.ProductID,
		From:      in.From,
		To:        in.To,
	})
}

func (uc *QueryUseCase) cacheGet(ctx context.Context, scope ports.CacheScope, key string, dst any) bool {
	if uc.cache == nil {
		return false
	}
	found, err := uc.cache.Get(ctx, scope, key, dst)
	if err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("lectura de caché fallida")
		return false
	}
	return found
}

func (uc *QueryUseCase) cacheSet(ctx context.Context, scope ports.CacheScope, key string, value any) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Set(ctx, scope, key, value, uc.ttl); err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("escritura de caché fallida")
	}
}

func ratio(inv *entity.Inventory) float64 {
	if inv.ThresholdQuantity <= 0 {
		return 1
	}
	return float64(inv.Quantity) / float64(inv.ThresholdQuantity)
}
