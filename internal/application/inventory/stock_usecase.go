package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/application/ports"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

// StockUseCase mutaciones de inventario que no son traslados: ingreso a bodega y ajuste manual.
type StockUseCase struct {
	tx     TxRunner
	repos  repository.Repos
	ledger *Ledger
	cache  ports.CacheInvalidator
	log    *logger.Logger
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(tx TxRunner, repos repository.Repos, ledger *Ledger, cache ports.CacheInvalidator, log *logger.Logger) *StockUseCase {
	return &StockUseCase{tx: tx, repos: repos, ledger: ledger, cache: cache, log: log.Component("inventory")}
}

// IntakeInput ingreso manual de mercadería a la bodega central.
type IntakeInput struct {
	ProductID      string
	Quantity       int64
	BatchNumber    string
	ExpirationDate *time.Time
	Notes          string
}

// Intake suma stock en la bodega con un movimiento ADD. No es un traslado.
func (uc *StockUseCase) Intake(ctx context.Context, actor entity.Actor, in IntakeInput) (*Adjustment, error) {
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be greater than zero", domain.ErrInvalidInput)
	}
	wh, err := Warehouse(ctx, uc.repos.Sites)
	if err != nil {
		return nil, err
	}
	if !actor.CanDispatch(wh.ID) {
		return nil, domain.ErrForbidden
	}
	product, err := uc.repos.Products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	details := "Warehouse intake"
	if notes := strings.TrimSpace(in.Notes); notes != "" {
		details += ": " + notes
	}

	var adj *Adjustment
	err = uc.tx.Run(ctx, func(repos repository.Repos) error {
		var err error
		adj, err = uc.ledger.Adjust(ctx, repos, AdjustInput{
			ProductID:      product.ID,
			BranchID:       wh.ID,
			BatchNumber:    strings.TrimSpace(in.BatchNumber),
			Delta:          in.Quantity,
			ActorID:        actor.UserID,
			ExpirationDate: in.ExpirationDate,
			Movement:       &entity.StockMovement{MovementType: entity.MovementAdd, Details: details},
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	Invalidate(ctx, uc.cache, uc.log, ports.StockChanged(wh.ID)...)
	return adj, nil
}

// ManualAdjustInput corrección manual con motivo obligatorio.
type ManualAdjustInput struct {
	InventoryID string
	Delta       int64
	Reason      string
}

// Adjust corrige una fila por un delta con signo (ADD o REMOVE). Solo el Admin de la sede o el CEO.
func (uc *StockUseCase) Adjust(ctx context.Context, actor entity.Actor, in ManualAdjustInput) (*Adjustment, error) {
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: reason is required", domain.ErrInvalidInput)
	}
	inv, err := uc.repos.Inventory.GetByID(ctx, in.InventoryID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrInventoryNotFound
	}
	if !actor.CanManageBranch(inv.BranchID) {
		return nil, domain.ErrForbidden
	}

	movType := entity.MovementAdd
	if in.Delta < 0 {
		movType = entity.MovementRemove
	}

	var adj *Adjustment
	err = uc.tx.Run(ctx, func(repos repository.Repos) error {
		var err error
		adj, err = uc.ledger.Adjust(ctx, repos, AdjustInput{
			ProductID:   inv.ProductID,
			BranchID:    inv.BranchID,
			BatchNumber: inv.BatchNumber,
			Delta:       in.Delta,
			ActorID:     actor.UserID,
			Movement:    &entity.StockMovement{MovementType: movType, Details: "Manual adjustment: " + reason},
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	Invalidate(ctx, uc.cache, uc.log, ports.StockChanged(inv.BranchID)...)
	return adj, nil
}

// Warehouse devuelve la bodega central o ErrNoWarehouse.
func Warehouse(ctx context.Context, sites repository.SiteRepository) (*entity.Site, error) {
	wh, err := sites.GetWarehouse(ctx)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.ErrNoWarehouse
	}
	return wh, nil
}

// Invalidate llama al contrato de caché; un fallo solo se registra.
func Invalidate(ctx context.Context, cache ports.CacheInvalidator, log *logger.Logger, scopes ...ports.CacheScope) {
	if cache == nil || len(scopes) == 0 {
		return
	}
	if err := cache.Invalidate(context.WithoutCancel(ctx), scopes...); err != nil {
		log.Warn().Err(err).Int("scopes", len(scopes)).Msg("no se pudo invalidar la caché")
	}
}
