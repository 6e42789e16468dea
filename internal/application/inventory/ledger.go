package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Farmacia-api/internal/domain/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// Ledger único punto de mutación de Inventory.Quantity. Siempre se llama con repos atados a una tx.
type Ledger struct {
	now func() time.Time
}

// NewLedger construye el ledger.
func NewLedger() *Ledger {
	return &Ledger{now: time.Now}
}

// AdjustInput ajuste con signo sobre (producto, sede, lote).
// Movement lo arma el caller (tipo, detalle, traslado); el ledger completa producto, sede,
// cantidad absoluta, autor e ID.
type AdjustInput struct {
	ProductID      string
	BranchID       string
	BatchNumber    string
	Delta          int64
	ActorID        string
	ExpirationDate *time.Time // solo aplica si la fila se crea
	Movement       *entity.StockMovement
}

// Adjustment resultado de un ajuste aplicado.
type Adjustment struct {
	Inventory        *entity.Inventory
	PreviousQuantity int64
	NewQuantity      int64
	Movement         *entity.StockMovement
	Version          *entity.InventoryVersion
}

// Adjust bloquea la fila (SELECT FOR UPDATE), valida, escribe la nueva cantidad, el movimiento
// y exactamente una versión enlazada. Toda validación ocurre antes de la primera escritura.
func (l *Ledger) Adjust(ctx context.Context, repos repository.Repos, in AdjustInput) (*Adjustment, error) {
	if in.Delta == 0 {
		return nil, fmt.Errorf("%w: delta must not be zero", domain.ErrInvalidInput)
	}
	if in.ProductID == "" || in.BranchID == "" || in.ActorID == "" {
		return nil, fmt.Errorf("%w: product, branch and actor are required", domain.ErrInvalidInput)
	}
	if in.Movement == nil || !in.Movement.MovementType.Valid() {
		return nil, fmt.Errorf("%w: a stock movement describing the change is required", domain.ErrInvalidInput)
	}

	inv, err := repos.Inventory.GetForUpdate(ctx, in.ProductID, in.BranchID, in.BatchNumber)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		if in.Delta < 0 {
			return nil, domain.ErrInventoryNotFound
		}
		if inv, err = l.createRow(ctx, repos, in); err != nil {
			return nil, err
		}
	}

	prev := inv.Quantity
	next, err := domaininv.ApplyDelta(prev, in.Delta)
	if err != nil {
		return nil, err
	}

	now := l.now()
	if err := repos.Inventory.UpdateQuantity(ctx, inv.ID, next, now); err != nil {
		return nil, err
	}
	inv.Quantity = next
	inv.UpdatedAt = now

	mov := in.Movement
	if mov.ID == "" {
		mov.ID = uuid.New().String()
	}
	mov.ProductID = in.ProductID
	mov.BranchID = in.BranchID
	mov.Quantity = abs(in.Delta)
	mov.CreatedBy = in.ActorID
	mov.CreatedAt = now
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}

	movID := mov.ID
	ver := &entity.InventoryVersion{
		ID:               uuid.New().String(),
		InventoryID:      inv.ID,
		PreviousQuantity: prev,
		NewQuantity:      next,
		ModifiedBy:       in.ActorID,
		MovementID:       &movID,
		ModifiedAt:       now,
	}
	if err := repos.Versions.Create(ctx, ver); err != nil {
		return nil, err
	}

	return &Adjustment{
		Inventory:        inv,
		PreviousQuantity: prev,
		NewQuantity:      next,
		Movement:         mov,
		Version:          ver,
	}, nil
}

// createRow get-or-create: inserta con cantidad 0 (sin fallar si otra tx la creó) y vuelve a bloquear.
func (l *Ledger) createRow(ctx context.Context, repos repository.Repos, in AdjustInput) (*entity.Inventory, error) {
	now := l.now()
	actor := in.ActorID
	row := &entity.Inventory{
		ID:                uuid.New().String(),
		ProductID:         in.ProductID,
		BranchID:          in.BranchID,
		BatchNumber:       in.BatchNumber,
		ExpirationDate:    in.ExpirationDate,
		ThresholdQuantity: entity.DefaultThresholdQuantity,
		ReceivedBy:        &actor,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := repos.Inventory.CreateIfAbsent(ctx, row); err != nil {
		return nil, err
	}
	inv, err := repos.Inventory.GetForUpdate(ctx, in.ProductID, in.BranchID, in.BatchNumber)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("inventory row %s/%s/%q vanished after create", in.ProductID, in.BranchID, in.BatchNumber)
	}
	return inv, nil
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
