package notification

import (
	"context"
	"fmt"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// Directory resuelve destinatarios. Primero el registro explícito sede → responsables
// (NOTIFY_SITE_ADMINS); si la sede no figura, los Admin activos asignados a ella.
type Directory struct {
	registry map[string][]string
	users    repository.UserRepository
}

// NewDirectory construye el directorio. registry puede ser nil.
func NewDirectory(registry map[string][]string, users repository.UserRepository) *Directory {
	if registry == nil {
		registry = map[string][]string{}
	}
	return &Directory{registry: registry, users: users}
}

// SiteAdmins responsables de una sede.
func (d *Directory) SiteAdmins(ctx context.Context, siteID string) ([]string, error) {
	if ids, ok := d.registry[siteID]; ok && len(ids) > 0 {
		return ids, nil
	}
	list, err := d.users.ListActive(ctx, repository.UserFilter{Role: entity.RoleBranchAdmin, BranchID: siteID})
	if err != nil {
		return nil, fmt.Errorf("site admins %s: %w", siteID, err)
	}
	return userIDs(list), nil
}

// CEOs usuarios activos con rol CEO.
func (d *Directory) CEOs(ctx context.Context) ([]string, error) {
	list, err := d.users.ListActive(ctx, repository.UserFilter{Role: entity.RoleCEO})
	if err != nil {
		return nil, fmt.Errorf("ceos: %w", err)
	}
	return userIDs(list), nil
}

func userIDs(list []*entity.User) []string {
	ids := make([]string, 0, len(list))
	for _, u := range list {
		ids = append(ids, u.ID)
	}
	return ids
}
