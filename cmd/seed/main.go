// seed prepara una base de desarrollo: bodega central, sucursales, usuarios (CEO y un Admin por sede),
// el catálogo de productos desde un CSV y el stock inicial de la bodega.
//
// Uso: go run ./cmd/seed [ruta/catalogo.csv]
// El CSV puede venir en ISO-8859-1 (exportado desde Excel); se detecta y convierte a UTF-8.
// Al final imprime un JWT de desarrollo por usuario.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/cache"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Farmacia-api/pkg/config"
	"github.com/jhoicas/Farmacia-api/pkg/jwt"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

const devPassword = "farmacia123"

var branchNames = []string{"Branch A", "Branch B"}

// catalogueRow fila del CSV: name;category;brand;unit_price;quantity;batch_number;expiration_date
type catalogueRow struct {
	Product    entity.Product
	Quantity   int64
	Batch      string
	Expiration *time.Time
}

func main() {
	csvPath := "catalogo.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Service: "seed"})

	rows, err := readCatalogue(csvPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", csvPath).Msg("leer catálogo")
	}

	if err := postgres.Migrate(cfg.DB.ConnectionString(), log); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	repos := postgres.NewRepos(pool)

	warehouse, err := ensureWarehouse(ctx, repos.Sites)
	if err != nil {
		log.Fatal().Err(err).Msg("bodega central")
	}
	sites := []*entity.Site{warehouse}
	for _, name := range branchNames {
		s, err := ensureSite(ctx, repos.Sites, name)
		if err != nil {
			log.Fatal().Err(err).Str("site", name).Msg("sucursal")
		}
		sites = append(sites, s)
	}

	users := []*entity.User{}
	ceo, err := ensureUser(ctx, repos.Users, "ceo@farmacia.dev", entity.RoleCEO, "")
	if err != nil {
		log.Fatal().Err(err).Msg("usuario CEO")
	}
	users = append(users, ceo)
	for _, s := range sites {
		email := strings.ToLower(strings.ReplaceAll(s.Name, " ", ".")) + "@farmacia.dev"
		u, err := ensureUser(ctx, repos.Users, email, entity.RoleBranchAdmin, s.ID)
		if err != nil {
			log.Fatal().Err(err).Str("email", email).Msg("usuario Admin")
		}
		users = append(users, u)
	}
	whAdmin := users[1]

	stock := inventory.NewStockUseCase(postgres.NewTxRunner(pool), repos, inventory.NewLedger(), cache.Noop{}, log)
	actor := entity.Actor{UserID: whAdmin.ID, Role: whAdmin.Role, BranchID: warehouse.ID}
	loaded := 0
	for _, row := range rows {
		p, err := ensureProduct(ctx, repos.Products, row.Product)
		if err != nil {
			log.Fatal().Err(err).Str("product", row.Product.Name).Msg("producto")
		}
		if row.Quantity <= 0 {
			continue
		}
		if _, err := stock.Intake(ctx, actor, inventory.IntakeInput{
			ProductID:      p.ID,
			Quantity:       row.Quantity,
			BatchNumber:    row.Batch,
			ExpirationDate: row.Expiration,
			Notes:          "Initial stock",
		}); err != nil {
			log.Fatal().Err(err).Str("product", p.Name).Msg("stock inicial")
		}
		loaded++
	}
	log.Info().Int("products", len(rows)).Int("intakes", loaded).Msg("catálogo cargado")

	fmt.Println("Tokens de desarrollo (password de todos: " + devPassword + "):")
	for _, u := range users {
		branch := ""
		if u.BranchID != nil {
			branch = *u.BranchID
		}
		tok, err := jwt.Generate(cfg.JWT.Secret, u.ID, branch, string(u.Role), cfg.JWT.Issuer, 24*60)
		if err != nil {
			log.Fatal().Err(err).Msg("generar JWT")
		}
		fmt.Printf("  %-28s %-6s %s\n", u.Email, u.Role, tok)
	}
}

func ensureWarehouse(ctx context.Context, sites repository.SiteRepository) (*entity.Site, error) {
	wh, err := sites.GetWarehouse(ctx)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if wh != nil {
		return wh, nil
	}
	now := time.Now()
	wh = &entity.Site{ID: uuid.New().String(), Name: "Central Warehouse", BranchCode: "WH", IsWarehouse: true, CreatedAt: now, UpdatedAt: now}
	return wh, sites.Create(ctx, wh)
}

func ensureSite(ctx context.Context, sites repository.SiteRepository, name string) (*entity.Site, error) {
	all, err := sites.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range all {
		if s.Name == name {
			return s, nil
		}
	}
	now := time.Now()
	s := &entity.Site{ID: uuid.New().String(), Name: name, CreatedAt: now, UpdatedAt: now}
	return s, sites.Create(ctx, s)
}

func ensureUser(ctx context.Context, users repository.UserRepository, email string, role entity.Role, branchID string) (*entity.User, error) {
	u, err := users.GetByEmail(ctx, email)
	if err != nil || u != nil {
		return u, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(devPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u = &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		FirstName:    strings.Split(email, "@")[0],
		Role:         role,
		IsActive:     true,
		PasswordHash: string(hash),
		DateJoined:   time.Now(),
	}
	if branchID != "" {
		u.BranchID = &branchID
	}
	return u, users.Create(ctx, u)
}

func ensureProduct(ctx context.Context, products repository.ProductRepository, p entity.Product) (*entity.Product, error) {
	existing, err := products.GetByName(ctx, p.Name)
	if err != nil || existing != nil {
		return existing, err
	}
	p.ID = uuid.New().String()
	p.CreatedAt = time.Now()
	return &p, products.Create(ctx, &p)
}

func readCatalogue(path string) ([]catalogueRow, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseCatalogue(raw)
}

// parseCatalogue interpreta el CSV (separador ';', primera fila de encabezados).
// Si el contenido no es UTF-8 válido se asume ISO-8859-1.
func parseCatalogue(raw []byte) ([]catalogueRow, error) {
	var src io.Reader = strings.NewReader(string(raw))
	if !utf8.Valid(raw) {
		src = transform.NewReader(src, charmap.ISO8859_1.NewDecoder())
	}
	r := csv.NewReader(src)
	r.Comma = ';'
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	out := make([]catalogueRow, 0, len(records)-1)
	for i, rec := range records[1:] {
		line := i + 2
		if len(rec) < 4 {
			return nil, fmt.Errorf("línea %d: se esperan al menos 4 columnas", line)
		}
		name := strings.TrimSpace(rec[0])
		if name == "" {
			return nil, fmt.Errorf("línea %d: nombre vacío", line)
		}
		price, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(rec[3]), ",", "."))
		if err != nil {
			return nil, fmt.Errorf("línea %d: precio %q: %w", line, rec[3], err)
		}
		row := catalogueRow{Product: entity.Product{
			Name:      name,
			Category:  strings.TrimSpace(rec[1]),
			Brand:     strings.TrimSpace(rec[2]),
			UnitPrice: price,
		}}
		if len(rec) > 4 && strings.TrimSpace(rec[4]) != "" {
			if row.Quantity, err = strconv.ParseInt(strings.TrimSpace(rec[4]), 10, 64); err != nil {
				return nil, fmt.Errorf("línea %d: cantidad %q: %w", line, rec[4], err)
			}
		}
		if len(rec) > 5 {
			row.Batch = strings.TrimSpace(rec[5])
		}
		if len(rec) > 6 && strings.TrimSpace(rec[6]) != "" {
			d, err := time.Parse("2006-01-02", strings.TrimSpace(rec[6]))
			if err != nil {
				return nil, fmt.Errorf("línea %d: vencimiento %q: %w", line, rec[6], err)
			}
			row.Expiration = &d
		}
		out = append(out, row)
	}
	return out, nil
}
