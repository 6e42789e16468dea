package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// MovementFilter filtros de la bitácora. From/To inclusivos.
type MovementFilter struct {
	BranchID   string
	ProductID  string
	TransferID string
	From       *time.Time
	To         *time.Time
}

// StockMovementRepository bitácora append-only: no hay Update ni Delete.
type StockMovementRepository interface {
	Create(ctx context.Context, m *entity.StockMovement) error
	List(ctx context.Context, f MovementFilter) ([]*entity.StockMovement, error)
}
