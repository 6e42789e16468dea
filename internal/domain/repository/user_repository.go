package repository

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// UserFilter filtros para listar usuarios activos. Campos vacíos no filtran.
type UserFilter struct {
	Role     entity.Role
	BranchID string
}

// UserRepository puerto de lectura de usuarios (la escritura la hace el servicio de autenticación y el seed).
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ListActive(ctx context.Context, f UserFilter) ([]*entity.User, error)
}
