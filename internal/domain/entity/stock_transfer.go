package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain"
)

// TransferStatus estado de un traslado.
type TransferStatus string

const (
	TransferPending   TransferStatus = "PENDING"
	TransferInTransit TransferStatus = "IN_TRANSIT"
	TransferReceived  TransferStatus = "RECEIVED"
	TransferRejected  TransferStatus = "REJECTED"
	TransferCancelled TransferStatus = "CANCELLED"
	// Estados del flujo anterior de un solo paso. Se siguen leyendo pero ninguna transición lleva a ellos.
	TransferApproved  TransferStatus = "APPROVED"
	TransferCompleted TransferStatus = "COMPLETED"
)

// TransferEvent evento que dispara una transición.
type TransferEvent string

const (
	EventApprove TransferEvent = "approve"
	EventReject  TransferEvent = "reject"
	EventCancel  TransferEvent = "cancel"
	EventReceive TransferEvent = "receive"
)

// transferTransitions única tabla de transiciones. La creación (PENDING por solicitud,
// IN_TRANSIT por despacho de bodega) no es una transición: la arman los constructores.
var transferTransitions = map[TransferStatus]map[TransferEvent]TransferStatus{
	TransferPending: {
		EventApprove: TransferInTransit,
		EventReject:  TransferRejected,
		EventCancel:  TransferCancelled,
	},
	TransferInTransit: {
		EventReceive: TransferReceived,
	},
}

// Next devuelve el estado destino del evento; ok=false si la transición no existe.
func (s TransferStatus) Next(ev TransferEvent) (TransferStatus, bool) {
	to, ok := transferTransitions[s][ev]
	return to, ok
}

// IsTerminal sin transiciones de salida.
func (s TransferStatus) IsTerminal() bool {
	return len(transferTransitions[s]) == 0
}

// Valid informa si el estado es conocido (incluye los heredados).
func (s TransferStatus) Valid() bool {
	switch s {
	case TransferPending, TransferInTransit, TransferReceived, TransferRejected,
		TransferCancelled, TransferApproved, TransferCompleted:
		return true
	}
	return false
}

// StockTransfer traslado de un producto/lote entre la bodega y una sucursal.
type StockTransfer struct {
	ID                   string
	FromBranchID         string
	ToBranchID           string
	ProductID            string
	BatchNumber          string
	Quantity             int64
	Notes                string
	Status               TransferStatus
	Approved             bool
	RequestedBy          string
	ApprovedBy           *string
	ProcessedBy          *string
	ProcessedAt          *time.Time
	ReceivedBy           *string
	ReceivedAt           *time.Time
	ConfirmedBy          *string
	ConfirmedAt          *time.Time
	RejectionReason      string
	IsWarehouseInitiated bool
	QuantityReceived     *int64
	DamagedQuantity      int64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// NewTransferRequest solicitud de una sucursal hacia la bodega; queda PENDING.
func NewTransferRequest(id, warehouseID, branchID, productID, batch string, qty int64, requestedBy, notes string, now time.Time) (*StockTransfer, error) {
	if err := validateTransfer(warehouseID, branchID, productID, qty); err != nil {
		return nil, err
	}
	return &StockTransfer{
		ID:           id,
		FromBranchID: warehouseID,
		ToBranchID:   branchID,
		ProductID:    productID,
		BatchNumber:  batch,
		Quantity:     qty,
		Notes:        notes,
		Status:       TransferPending,
		RequestedBy:  requestedBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// NewWarehouseDispatch despacho iniciado por bodega; nace IN_TRANSIT y aprobado.
func NewWarehouseDispatch(id, warehouseID, destinationID, productID, batch string, qty int64, actorID, notes string, now time.Time) (*StockTransfer, error) {
	if err := validateTransfer(warehouseID, destinationID, productID, qty); err != nil {
		return nil, err
	}
	return &StockTransfer{
		ID:                   id,
		FromBranchID:         warehouseID,
		ToBranchID:           destinationID,
		ProductID:            productID,
		BatchNumber:          batch,
		Quantity:             qty,
		Notes:                notes,
		Status:               TransferInTransit,
		Approved:             true,
		RequestedBy:          actorID,
		ApprovedBy:           &actorID,
		ProcessedBy:          &actorID,
		ProcessedAt:          &now,
		IsWarehouseInitiated: true,
		CreatedAt:            now,
		UpdatedAt:            now,
	}, nil
}

func validateTransfer(from, to, productID string, qty int64) error {
	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be greater than zero", domain.ErrInvalidInput)
	}
	if productID == "" || from == "" || to == "" {
		return fmt.Errorf("%w: product, source and destination are required", domain.ErrInvalidInput)
	}
	if from == to {
		return fmt.Errorf("%w: source and destination must differ", domain.ErrInvalidInput)
	}
	return nil
}

func (t *StockTransfer) transition(ev TransferEvent, now time.Time) error {
	to, ok := t.Status.Next(ev)
	if !ok {
		return t.stateError(ev)
	}
	t.Status = to
	t.UpdatedAt = now
	return nil
}

func (t *StockTransfer) stateError(ev TransferEvent) error {
	switch ev {
	case EventApprove, EventReject:
		return domain.ErrAlreadyProcessed
	case EventReceive:
		if t.Status == TransferReceived {
			return domain.ErrAlreadyReceived
		}
	}
	return fmt.Errorf("%w: cannot %s a transfer in status %s", domain.ErrInvalidTransferState, ev, t.Status)
}

// Approve PENDING → IN_TRANSIT. El descuento en origen lo hace el caso de uso en la misma transacción.
func (t *StockTransfer) Approve(actorID string, now time.Time) error {
	if err := t.transition(EventApprove, now); err != nil {
		return err
	}
	t.Approved = true
	t.ApprovedBy = &actorID
	t.ProcessedBy = &actorID
	t.ProcessedAt = &now
	return nil
}

// Reject PENDING → REJECTED.
func (t *StockTransfer) Reject(actorID, reason string, now time.Time) error {
	if err := t.transition(EventReject, now); err != nil {
		return err
	}
	t.RejectionReason = reason
	t.ProcessedBy = &actorID
	t.ProcessedAt = &now
	return nil
}

// Cancel PENDING → CANCELLED.
func (t *StockTransfer) Cancel(actorID string, now time.Time) error {
	if err := t.transition(EventCancel, now); err != nil {
		return err
	}
	t.ProcessedBy = &actorID
	t.ProcessedAt = &now
	return nil
}

// Receive IN_TRANSIT → RECEIVED. damaged se descuenta de lo acreditado en destino.
// Devuelve la cantidad que debe ingresar al destino.
func (t *StockTransfer) Receive(actorID string, damaged int64, now time.Time) (int64, error) {
	if _, ok := t.Status.Next(EventReceive); !ok {
		return 0, t.stateError(EventReceive)
	}
	if damaged < 0 || damaged > t.Quantity {
		return 0, fmt.Errorf("%w: damaged_quantity must be between 0 and %d", domain.ErrInvalidInput, t.Quantity)
	}
	if err := t.transition(EventReceive, now); err != nil {
		return 0, err
	}
	received := t.Quantity - damaged
	t.QuantityReceived = &received
	t.DamagedQuantity = damaged
	t.ReceivedBy = &actorID
	t.ReceivedAt = &now
	t.ConfirmedBy = &actorID
	t.ConfirmedAt = &now
	return received, nil
}

// Deletable solo mientras está PENDING.
func (t *StockTransfer) Deletable() bool {
	return t.Status == TransferPending
}
