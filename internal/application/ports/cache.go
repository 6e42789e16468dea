package ports

import (
	"context"
	"time"
)

// CacheEntity familia de datos cacheados.
type CacheEntity string

const (
	EntityInventory  CacheEntity = "inventory"
	EntityTransfers  CacheEntity = "transfers"
	EntitySales      CacheEntity = "sales"
	EntityStatistics CacheEntity = "statistics"
)

// CacheScope par (entidad, alcance). BranchID vacío = alcance global (vistas del CEO).
type CacheScope struct {
	Entity   CacheEntity
	BranchID string
}

// Global alcance global de una entidad.
func Global(e CacheEntity) CacheScope { return CacheScope{Entity: e} }

// Branch alcance de una sede.
func Branch(e CacheEntity, branchID string) CacheScope {
	return CacheScope{Entity: e, BranchID: branchID}
}

// CacheInvalidator contrato único que el núcleo llama después de cada mutación.
// Ningún caso de uso construye claves: solo declara qué alcances cambiaron.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, scopes ...CacheScope) error
}

// Cache lectura con caché por alcance. found=false en miss.
type Cache interface {
	CacheInvalidator
	Get(ctx context.Context, scope CacheScope, key string, dst any) (found bool, err error)
	Set(ctx context.Context, scope CacheScope, key string, value any, ttl time.Duration) error
}

// StockChanged alcances afectados cuando cambia el stock de las sedes dadas.
// Incluye siempre las vistas globales.
func StockChanged(branchIDs ...string) []CacheScope {
	scopes := []CacheScope{
		Global(EntityInventory),
		Global(EntityStatistics),
	}
	seen := make(map[string]bool, len(branchIDs))
	for _, id := range branchIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		scopes = append(scopes, Branch(EntityInventory, id), Branch(EntityStatistics, id))
	}
	return scopes
}

// TransferChanged alcances afectados por un traslado (y el stock que movió).
func TransferChanged(fromID, toID string) []CacheScope {
	scopes := StockChanged(fromID, toID)
	scopes = append(scopes, Global(EntityTransfers))
	for _, id := range []string{fromID, toID} {
		if id != "" {
			scopes = append(scopes, Branch(EntityTransfers, id))
		}
	}
	return scopes
}
