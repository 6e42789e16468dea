package memstore

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/application/ports"
)

// Cache implementación en memoria de ports.Cache que además registra las invalidaciones.
type Cache struct {
	mu          sync.Mutex
	entries     map[ports.CacheScope]map[string][]byte
	Invalidated []ports.CacheScope
	Hits        int
}

var _ ports.Cache = (*Cache)(nil)

// NewCache caché vacía.
func NewCache() *Cache {
	return &Cache{entries: map[ports.CacheScope]map[string][]byte{}}
}

func (c *Cache) Get(_ context.Context, scope ports.CacheScope, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[scope][key]
	if !ok {
		return false, nil
	}
	c.Hits++
	return true, json.Unmarshal(raw, dst)
}

func (c *Cache) Set(_ context.Context, scope ports.CacheScope, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries[scope] == nil {
		c.entries[scope] = map[string][]byte{}
	}
	c.entries[scope][key] = raw
	return nil
}

func (c *Cache) Invalidate(_ context.Context, scopes ...ports.CacheScope) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range scopes {
		delete(c.entries, s)
		c.Invalidated = append(c.Invalidated, s)
	}
	return nil
}

// WasInvalidated informa si el alcance fue invalidado al menos una vez.
func (c *Cache) WasInvalidated(scope ports.CacheScope) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.Invalidated {
		if s == scope {
			return true
		}
	}
	return false
}
