package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/application/ports"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

// UseCase punto de venta. Cada ítem descuenta stock a través del ledger; la venta es todo o nada.
type UseCase struct {
	tx     inventory.TxRunner
	repos  repository.Repos
	ledger *inventory.Ledger
	cache  ports.CacheInvalidator
	log    *logger.Logger
	now    func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(tx inventory.TxRunner, repos repository.Repos, ledger *inventory.Ledger, cache ports.CacheInvalidator, log *logger.Logger) *UseCase {
	return &UseCase{tx: tx, repos: repos, ledger: ledger, cache: cache, log: log.Component("sales"), now: time.Now}
}

// ItemInput línea de venta. PriceAtSale nil = precio de catálogo.
type ItemInput struct {
	ProductID   string
	BatchNumber string
	Quantity    int64
	PriceAtSale *decimal.Decimal
}

// CreateInput venta. BranchID solo lo usa el CEO; un Admin vende en su sucursal.
type CreateInput struct {
	BranchID      string
	CustomerID    string
	PaymentMethod entity.PaymentMethod
	Items         []ItemInput
}

// Create registra la venta y un movimiento REMOVE "Sold via <medio>" por ítem.
// Cualquier ítem sin stock suficiente aborta la venta completa.
func (uc *UseCase) Create(ctx context.Context, actor entity.Actor, in CreateInput) (*entity.Sale, error) {
	if !in.PaymentMethod.Valid() {
		return nil, fmt.Errorf("%w: payment_method must be CASH, MOMO or CARD", domain.ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: a sale needs at least one item", domain.ErrInvalidInput)
	}
	for i, it := range in.Items {
		if it.ProductID == "" || it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item %d needs product_id and a positive quantity", domain.ErrInvalidInput, i)
		}
		if it.PriceAtSale != nil && it.PriceAtSale.IsNegative() {
			return nil, fmt.Errorf("%w: item %d has a negative price", domain.ErrInvalidInput, i)
		}
	}

	branchID := in.BranchID
	if !actor.IsCEO() {
		branchID = actor.BranchID
	}
	if branchID == "" {
		return nil, fmt.Errorf("%w: branch_id is required", domain.ErrInvalidInput)
	}
	if !actor.CanManageBranch(branchID) || (in.BranchID != "" && in.BranchID != branchID) {
		return nil, domain.ErrForbidden
	}
	site, err := uc.repos.Sites.GetByID(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if site == nil {
		return nil, fmt.Errorf("branch: %w", domain.ErrNotFound)
	}
	if site.IsWarehouse {
		return nil, fmt.Errorf("%w: sales are recorded at branches, not the warehouse", domain.ErrInvalidInput)
	}

	sale := &entity.Sale{
		ID:            uuid.New().String(),
		BranchID:      branchID,
		PaymentMethod: in.PaymentMethod,
		ProcessedBy:   actor.UserID,
		EmailStatus:   "not_sent",
		SMSStatus:     "not_sent",
		Date:          uc.now(),
	}
	if in.CustomerID != "" {
		c := in.CustomerID
		sale.CustomerID = &c
	}

	err = uc.tx.Run(ctx, func(repos repository.Repos) error {
		total := decimal.Zero
		items := make([]entity.SaleItem, 0, len(in.Items))
		for _, it := range in.Items {
			product, err := repos.Products.GetByID(ctx, it.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("product %s: %w", it.ProductID, domain.ErrNotFound)
			}
			price := product.UnitPrice
			if it.PriceAtSale != nil {
				price = *it.PriceAtSale
			}
			_, err = uc.ledger.Adjust(ctx, repos, inventory.AdjustInput{
				ProductID:   it.ProductID,
				BranchID:    branchID,
				BatchNumber: it.BatchNumber,
				Delta:       -it.Quantity,
				ActorID:     actor.UserID,
				Movement: &entity.StockMovement{
					MovementType: entity.MovementRemove,
					Details:      "Sold via " + string(in.PaymentMethod),
				},
			})
			if errors.Is(err, domain.ErrInventoryNotFound) {
				return domain.ErrInsufficientStock
			}
			if err != nil {
				return err
			}
			item := entity.SaleItem{
				ID:          uuid.New().String(),
				SaleID:      sale.ID,
				ProductID:   it.ProductID,
				BatchNumber: it.BatchNumber,
				Quantity:    it.Quantity,
				PriceAtSale: price,
			}
			total = total.Add(item.Subtotal())
			items = append(items, item)
		}
		sale.Items = items
		sale.TotalAmount = total
		return repos.Sales.Create(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	scopes := append(ports.StockChanged(branchID), ports.Global(ports.EntitySales), ports.Branch(ports.EntitySales, branchID))
	inventory.Invalidate(ctx, uc.cache, uc.log, scopes...)
	return sale, nil
}

// List ventas visibles para el actor.
func (uc *UseCase) List(ctx context.Context, actor entity.Actor, branchID string) ([]*entity.Sale, error) {
	branch, err := actor.BranchScope(branchID)
	if err != nil {
		return nil, err
	}
	return uc.repos.Sales.List(ctx, branch)
}
