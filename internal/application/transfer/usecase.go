package transfer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/application/notification"
	"github.com/jhoicas/Farmacia-api/internal/application/ports"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

// Notifier puerto de avisos in-app; se llama después del commit.
type Notifier interface {
	Notify(ctx context.Context, n notification.Notice) int
}

// UseCase máquina de estados de traslados bodega ↔ sucursal.
// Cada transición que mueve stock (aprobar, despachar, recibir) corre en una sola transacción:
// bloqueo del traslado, bloqueo de la fila de inventario, ledger, cambio de estado.
type UseCase struct {
	tx       inventory.TxRunner
	repos    repository.Repos
	ledger   *inventory.Ledger
	notifier Notifier
	cache    ports.CacheInvalidator
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	tx inventory.TxRunner,
	repos repository.Repos,
	ledger *inventory.Ledger,
	notifier Notifier,
	cache ports.CacheInvalidator,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		tx:       tx,
		repos:    repos,
		ledger:   ledger,
		notifier: notifier,
		cache:    cache,
		log:      log.Component("transfer"),
		now:      time.Now,
	}
}

// RequestInput solicitud de una sucursal a la bodega.
type RequestInput struct {
	ProductID   string
	Quantity    int64
	BatchNumber string
	Notes       string
}

// Request crea un traslado PENDING desde la bodega hacia la sucursal del actor.
func (uc *UseCase) Request(ctx context.Context, actor entity.Actor, in RequestInput) (*entity.StockTransfer, error) {
	wh, err := inventory.Warehouse(ctx, uc.repos.Sites)
	if err != nil {
		return nil, err
	}
	if !actor.CanRequestTransfer(wh.ID) {
		return nil, domain.ErrForbidden
	}
	product, err := uc.product(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	t, err := entity.NewTransferRequest(uuid.New().String(), wh.ID, actor.BranchID, product.ID,
		strings.TrimSpace(in.BatchNumber), in.Quantity, actor.UserID, strings.TrimSpace(in.Notes), uc.now())
	if err != nil {
		return nil, err
	}
	if err := uc.repos.Transfers.Create(ctx, t); err != nil {
		return nil, err
	}

	branch := uc.siteName(ctx, t.ToBranchID)
	uc.notifier.Notify(ctx, notification.Notice{
		Type:            entity.NotificationTransferRequest,
		Title:           "New Transfer Request from " + branch,
		Message:         fmt.Sprintf("%s requests %d units of %s", branch, t.Quantity, product.Name),
		SenderID:        actor.UserID,
		RelatedBranchID: t.ToBranchID,
		RelatedObjectID: t.ID,
		To:              notification.Recipients{SiteAdminsOf: []string{wh.ID}, CEOs: true},
	})
	uc.invalidate(ctx, t)
	return t, nil
}

// Decision acción sobre una solicitud pendiente.
type Decision struct {
	Action          string // "approve" | "reject"
	RejectionReason string
}

// Decide aprueba (PENDING → IN_TRANSIT, descuenta el origen) o rechaza (PENDING → REJECTED).
func (uc *UseCase) Decide(ctx context.Context, actor entity.Actor, id string, d Decision) (*entity.StockTransfer, error) {
	action := entity.TransferEvent(strings.ToLower(strings.TrimSpace(d.Action)))
	if action != entity.EventApprove && action != entity.EventReject {
		return nil, fmt.Errorf("%w: action must be approve or reject", domain.ErrInvalidInput)
	}
	wh, err := inventory.Warehouse(ctx, uc.repos.Sites)
	if err != nil {
		return nil, err
	}
	if !actor.CanApproveTransfer(wh.ID) {
		return nil, domain.ErrForbidden
	}

	var t *entity.StockTransfer
	err = uc.tx.Run(ctx, func(repos repository.Repos) error {
		var err error
		if t, err = lockTransfer(ctx, repos, id); err != nil {
			return err
		}
		now := uc.now()
		if action == entity.EventReject {
			if err := t.Reject(actor.UserID, strings.TrimSpace(d.RejectionReason), now); err != nil {
				return err
			}
			return repos.Transfers.Update(ctx, t)
		}
		if err := t.Approve(actor.UserID, now); err != nil {
			return err
		}
		if err := uc.takeFromSource(ctx, repos, t, actor.UserID); err != nil {
			return err
		}
		return repos.Transfers.Update(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	product := uc.productName(ctx, t.ProductID)
	n := notification.Notice{
		SenderID:        actor.UserID,
		RelatedBranchID: t.ToBranchID,
		RelatedObjectID: t.ID,
		To:              notification.Recipients{Users: []string{t.RequestedBy}},
	}
	if action == entity.EventApprove {
		n.Type = entity.NotificationTransferApproval
		n.Title = "Transfer Request Approved"
		n.Message = fmt.Sprintf("Your request for %d units of %s is on its way", t.Quantity, product)
	} else {
		n.Type = entity.NotificationTransferRejection
		n.Title = "Transfer Request Rejected"
		n.Message = fmt.Sprintf("Your request for %d units of %s was rejected", t.Quantity, product)
		if t.RejectionReason != "" {
			n.Message += ": " + t.RejectionReason
		}
	}
	uc.notifier.Notify(ctx, n)
	uc.invalidate(ctx, t)
	return t, nil
}

// DispatchInput despacho iniciado por la bodega.
type DispatchInput struct {
	ProductID     string
	Quantity      int64
	DestinationID string
	BatchNumber   string
	Notes         string
}

// Dispatch crea un traslado directamente IN_TRANSIT y descuenta la bodega en la misma transacción.
// Con stock insuficiente no queda ninguna fila de traslado.
func (uc *UseCase) Dispatch(ctx context.Context, actor entity.Actor, in DispatchInput) (*entity.StockTransfer, error) {
	wh, err := inventory.Warehouse(ctx, uc.repos.Sites)
	if err != nil {
		return nil, err
	}
	if !actor.CanDispatch(wh.ID) {
		return nil, domain.ErrForbidden
	}
	dest, err := uc.repos.Sites.GetByID(ctx, in.DestinationID)
	if err != nil {
		return nil, err
	}
	if dest == nil {
		return nil, fmt.Errorf("destination site: %w", domain.ErrNotFound)
	}
	if dest.IsWarehouse {
		return nil, fmt.Errorf("%w: destination must be a branch", domain.ErrInvalidInput)
	}
	product, err := uc.product(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	t, err := entity.NewWarehouseDispatch(uuid.New().String(), wh.ID, dest.ID, product.ID,
		strings.TrimSpace(in.BatchNumber), in.Quantity, actor.UserID, strings.TrimSpace(in.Notes), uc.now())
	if err != nil {
		return nil, err
	}

	err = uc.tx.Run(ctx, func(repos repository.Repos) error {
		if err := repos.Transfers.Create(ctx, t); err != nil {
			return err
		}
		return uc.takeFromSource(ctx, repos, t, actor.UserID)
	})
	if err != nil {
		return nil, err
	}

	uc.notifier.Notify(ctx, notification.Notice{
		Type:            entity.NotificationTransferDispatch,
		Title:           "Stock Dispatched to " + dest.Name,
		Message:         fmt.Sprintf("%d units of %s are in transit from the warehouse", t.Quantity, product.Name),
		SenderID:        actor.UserID,
		RelatedBranchID: dest.ID,
		RelatedObjectID: t.ID,
		To:              notification.Recipients{SiteAdminsOf: []string{dest.ID}},
	})
	uc.invalidate(ctx, t)
	return t, nil
}

// ReceiveInput confirmación de recepción. DamagedQuantity no se acredita en destino.
type ReceiveInput struct {
	DamagedQuantity int64
}

// Receive IN_TRANSIT → RECEIVED y acredita el destino. La fila del traslado queda bloqueada
// durante toda la transacción: una segunda confirmación concurrente espera y ve RECEIVED.
func (uc *UseCase) Receive(ctx context.Context, actor entity.Actor, id string, in ReceiveInput) (*entity.StockTransfer, error) {
	var (
		t    *entity.StockTransfer
		dest *entity.Inventory
	)
	err := uc.tx.Run(ctx, func(repos repository.Repos) error {
		var err error
		if t, err = lockTransfer(ctx, repos, id); err != nil {
			return err
		}
		if !actor.CanReceiveAt(t.ToBranchID) {
			return domain.ErrForbidden
		}
		received, err := t.Receive(actor.UserID, in.DamagedQuantity, uc.now())
		if err != nil {
			return err
		}
		if received > 0 {
			var expiry *time.Time
			src, err := repos.Inventory.GetByKey(ctx, t.ProductID, t.FromBranchID, t.BatchNumber)
			if err != nil {
				return err
			}
			if src != nil {
				expiry = src.ExpirationDate
			}
			adj, err := uc.ledger.Adjust(ctx, repos, inventory.AdjustInput{
				ProductID:      t.ProductID,
				BranchID:       t.ToBranchID,
				BatchNumber:    t.BatchNumber,
				Delta:          received,
				ActorID:        actor.UserID,
				ExpirationDate: expiry,
				Movement: &entity.StockMovement{
					MovementType: entity.MovementTransfer,
					Details:      "Transferred from " + uc.siteNameTx(ctx, repos, t.FromBranchID),
					TransferID:   &t.ID,
				},
			})
			if err != nil {
				return err
			}
			dest = adj.Inventory
		}
		return repos.Transfers.Update(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	product := uc.productName(ctx, t.ProductID)
	branch := uc.siteName(ctx, t.ToBranchID)
	msg := fmt.Sprintf("%s received %d units of %s", branch, *t.QuantityReceived, product)
	if t.DamagedQuantity > 0 {
		msg += fmt.Sprintf(" (%d damaged)", t.DamagedQuantity)
	}
	uc.notifier.Notify(ctx, notification.Notice{
		Type:            entity.NotificationTransferReceived,
		Title:           "Transfer Received by " + branch,
		Message:         msg,
		SenderID:        actor.UserID,
		RelatedBranchID: t.ToBranchID,
		RelatedObjectID: t.ID,
		To:              notification.Recipients{SiteAdminsOf: []string{t.FromBranchID}},
	})
	if dest != nil && dest.IsLowStock() {
		uc.notifier.Notify(ctx, notification.Notice{
			Type:            entity.NotificationStockAlert,
			Title:           "Low Stock at " + branch,
			Message:         fmt.Sprintf("%s is still below threshold: %d of %d units", product, dest.Quantity, dest.ThresholdQuantity),
			RelatedBranchID: t.ToBranchID,
			RelatedObjectID: dest.ID,
			To:              notification.Recipients{SiteAdminsOf: []string{t.ToBranchID}},
		})
	}
	uc.invalidate(ctx, t)
	return t, nil
}

// Cancel PENDING → CANCELLED por la sucursal que lo pidió o el CEO.
func (uc *UseCase) Cancel(ctx context.Context, actor entity.Actor, id string) (*entity.StockTransfer, error) {
	var t *entity.StockTransfer
	err := uc.tx.Run(ctx, func(repos repository.Repos) error {
		var err error
		if t, err = lockTransfer(ctx, repos, id); err != nil {
			return err
		}
		if !canWithdraw(actor, t) {
			return domain.ErrForbidden
		}
		if err := t.Cancel(actor.UserID, uc.now()); err != nil {
			return err
		}
		return repos.Transfers.Update(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx, t)
	return t, nil
}

// Delete borra un traslado, solo mientras está PENDING.
func (uc *UseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	var t *entity.StockTransfer
	err := uc.tx.Run(ctx, func(repos repository.Repos) error {
		var err error
		if t, err = lockTransfer(ctx, repos, id); err != nil {
			return err
		}
		if !canWithdraw(actor, t) {
			return domain.ErrForbidden
		}
		if !t.Deletable() {
			return fmt.Errorf("%w: only pending transfers can be deleted", domain.ErrInvalidTransferState)
		}
		return repos.Transfers.Delete(ctx, t.ID)
	})
	if err != nil {
		return err
	}
	uc.invalidate(ctx, t)
	return nil
}

// Get traslado visible para el actor (CEO o una de las dos sedes).
func (uc *UseCase) Get(ctx context.Context, actor entity.Actor, id string) (*entity.StockTransfer, error) {
	t, err := uc.repos.Transfers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.CanSeeAllBranches() && actor.BranchID != t.FromBranchID && actor.BranchID != t.ToBranchID {
		return nil, domain.ErrForbidden
	}
	return t, nil
}

// List traslados que tocan la sede del actor (CEO: todos o la sede pedida).
func (uc *UseCase) List(ctx context.Context, actor entity.Actor, branchID string, status entity.TransferStatus) ([]*entity.StockTransfer, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}
	branch, err := actor.BranchScope(branchID)
	if err != nil {
		return nil, err
	}
	return uc.repos.Transfers.List(ctx, repository.TransferFilter{BranchID: branch, Status: status})
}

// InTransit traslados IN_TRANSIT de la sede del actor.
func (uc *UseCase) InTransit(ctx context.Context, actor entity.Actor) ([]*entity.StockTransfer, error) {
	return uc.List(ctx, actor, "", entity.TransferInTransit)
}

// takeFromSource descuenta el origen con un movimiento TRANSFER enlazado al traslado.
// Sin fila en origen también es stock insuficiente.
func (uc *UseCase) takeFromSource(ctx context.Context, repos repository.Repos, t *entity.StockTransfer, actorID string) error {
	_, err := uc.ledger.Adjust(ctx, repos, inventory.AdjustInput{
		ProductID:   t.ProductID,
		BranchID:    t.FromBranchID,
		BatchNumber: t.BatchNumber,
		Delta:       -t.Quantity,
		ActorID:     actorID,
		Movement: &entity.StockMovement{
			MovementType: entity.MovementTransfer,
			Details:      "Transferred to " + uc.siteNameTx(ctx, repos, t.ToBranchID),
			TransferID:   &t.ID,
		},
	})
	if errors.Is(err, domain.ErrInventoryNotFound) {
		return domain.ErrInsufficientStock
	}
	return err
}

func lockTransfer(ctx context.Context, repos repository.Repos, id string) (*entity.StockTransfer, error) {
	t, err := repos.Transfers.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

// canWithdraw Admin de la sucursal que pidió el traslado, o el CEO.
func canWithdraw(actor entity.Actor, t *entity.StockTransfer) bool {
	if actor.IsCEO() {
		return true
	}
	return !t.IsWarehouseInitiated && actor.CanManageBranch(t.ToBranchID)
}

func (uc *UseCase) product(ctx context.Context, id string) (*entity.Product, error) {
	p, err := uc.repos.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("product: %w", domain.ErrNotFound)
	}
	return p, nil
}

func (uc *UseCase) productName(ctx context.Context, id string) string {
	if p, err := uc.repos.Products.GetByID(ctx, id); err == nil && p != nil {
		return p.Name
	}
	return id
}

func (uc *UseCase) siteName(ctx context.Context, id string) string {
	return uc.siteNameTx(ctx, uc.repos, id)
}

func (uc *UseCase) siteNameTx(ctx context.Context, repos repository.Repos, id string) string {
	if s, err := repos.Sites.GetByID(ctx, id); err == nil && s != nil {
		return s.Name
	}
	return id
}

func (uc *UseCase) invalidate(ctx context.Context, t *entity.StockTransfer) {
	inventory.Invalidate(ctx, uc.cache, uc.log, ports.TransferChanged(t.FromBranchID, t.ToBranchID)...)
}
