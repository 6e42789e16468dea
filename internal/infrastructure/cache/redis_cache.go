package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Farmacia-api/internal/application/ports"
	"github.com/jhoicas/Farmacia-api/pkg/config"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

var _ ports.Cache = (*RedisCache)(nil)

const (
	keyPrefix     = "pharma"
	scanBatchSize = 100
	globalSegment = "all"
)

// RedisCache caché de lectura por alcance (entidad, sede) sobre Redis. Valores en JSON.
type RedisCache struct {
	client *redis.Client
	log    *logger.Logger
}

// NewRedisCache conecta y verifica con PING.
func NewRedisCache(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	return &RedisCache{client: client, log: log.Component("cache")}, nil
}

// Close cierra el cliente.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Get lee y decodifica. Una entrada corrupta se borra y cuenta como miss.
func (c *RedisCache) Get(ctx context.Context, scope ports.CacheScope, key string, dst any) (bool, error) {
	k := Key(scope, key)
	data, err := c.client.Get(ctx, k).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", k, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		c.log.Warn().Err(err).Str("key", k).Msg("entrada de caché corrupta; se descarta")
		_ = c.client.Del(ctx, k).Err()
		return false, nil
	}
	return true, nil
}

// Set guarda value en JSON con TTL.
func (c *RedisCache) Set(ctx context.Context, scope ports.CacheScope, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}
	k := Key(scope, key)
	if err := c.client.Set(ctx, k, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", k, err)
	}
	return nil
}

// Invalidate borra todas las claves de cada alcance (SCAN + DEL, nunca KEYS).
func (c *RedisCache) Invalidate(ctx context.Context, scopes ...ports.CacheScope) error {
	var errs []error
	deleted := 0
	for _, scope := range scopes {
		n, err := c.deletePattern(ctx, Pattern(scope))
		deleted += n
		if err != nil {
			errs = append(errs, err)
		}
	}
	c.log.Debug().Int("scopes", len(scopes)).Int("deleted", deleted).Msg("caché invalidada")
	return errors.Join(errs...)
}

func (c *RedisCache) deletePattern(ctx context.Context, pattern string) (int, error) {
	var cursor uint64
	deleted := 0
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			return deleted, fmt.Errorf("redis scan %s: %w", pattern, err)
		}
		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, fmt.Errorf("redis del %s: %w", pattern, err)
			}
			deleted += int(n)
		}
		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}

// Key arma pharma:<entidad>:<sede|all>:<clave>.
func Key(scope ports.CacheScope, key string) string {
	return fmt.Sprintf("%s:%s:%s:%s", keyPrefix, scope.Entity, segment(scope), key)
}

// Pattern patrón SCAN que cubre todas las claves de un alcance.
func Pattern(scope ports.CacheScope) string {
	return fmt.Sprintf("%s:%s:%s:*", keyPrefix, scope.Entity, segment(scope))
}

func segment(scope ports.CacheScope) string {
	if scope.BranchID == "" {
		return globalSegment
	}
	return scope.BranchID
}
