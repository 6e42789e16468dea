package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.SiteRepository = (*SiteRepo)(nil)

// SiteRepo sedes (sucursales y la bodega central).
type SiteRepo struct {
	q Querier
}

// NewSiteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSiteRepository(q Querier) *SiteRepo {
	return &SiteRepo{q: q}
}

const siteColumns = `id, name, location, city, region, branch_code, phone_number, email, is_warehouse, created_at, updated_at`

// Create persiste una sede. El índice único parcial sites_single_warehouse rechaza una segunda bodega.
func (r *SiteRepo) Create(ctx context.Context, s *entity.Site) error {
	query := `INSERT INTO sites (` + siteColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.Name, s.Location, s.City, s.Region, s.BranchCode, s.PhoneNumber, s.Email,
		s.IsWarehouse, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			if s.IsWarehouse {
				return fmt.Errorf("a warehouse already exists: %w", domain.ErrDuplicate)
			}
			return fmt.Errorf("site %s: %w", s.Name, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert site: %w", err)
	}
	return nil
}

// GetByID obtiene una sede por ID.
func (r *SiteRepo) GetByID(ctx context.Context, id string) (*entity.Site, error) {
	return r.getOne(ctx, `SELECT `+siteColumns+` FROM sites WHERE id = $1`, id)
}

// GetWarehouse obtiene la única bodega central.
func (r *SiteRepo) GetWarehouse(ctx context.Context) (*entity.Site, error) {
	return r.getOne(ctx, `SELECT `+siteColumns+` FROM sites WHERE is_warehouse LIMIT 1`)
}

// List todas las sedes por nombre.
func (r *SiteRepo) List(ctx context.Context) ([]*entity.Site, error) {
	rows, err := r.q.Query(ctx, `SELECT `+siteColumns+` FROM sites ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	defer rows.Close()
	var list []*entity.Site
	for rows.Next() {
		s, err := scanSite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan site: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *SiteRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Site, error) {
	s, err := scanSite(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get site: %w", err)
	}
	return s, nil
}

func scanSite(row pgx.Row) (*entity.Site, error) {
	var s entity.Site
	err := row.Scan(&s.ID, &s.Name, &s.Location, &s.City, &s.Region, &s.BranchCode,
		&s.PhoneNumber, &s.Email, &s.IsWarehouse, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
