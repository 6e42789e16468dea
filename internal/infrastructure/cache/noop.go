package cache

import (
	"context"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/application/ports"
)

var _ ports.Cache = Noop{}

// Noop caché deshabilitada (REDIS_ENABLED=false): siempre miss, invalidar no hace nada.
type Noop struct{}

func (Noop) Get(context.Context, ports.CacheScope, string, any) (bool, error) { return false, nil }

func (Noop) Set(context.Context, ports.CacheScope, string, any, time.Duration) error { return nil }

func (Noop) Invalidate(context.Context, ...ports.CacheScope) error { return nil }
