package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vendly/stockcore-api/internal/application/analytics"
	"github.com/vendly/stockcore-api/internal/domain/repository"
)

const overviewKey = "stockcore:inventory:overview"

var _ analytics.OverviewCache = (*OverviewCache)(nil)

// OverviewCache caché Redis del resumen de inventario con TTL corto.
// Los agregados son caros de recalcular en cada request del dashboard y
// toleran estar unos segundos desactualizados.
type OverviewCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewOverviewCache construye la caché con el TTL dado.
func NewOverviewCache(client *redis.Client, ttl time.Duration) *OverviewCache {
	return &OverviewCache{client: client, ttl: ttl}
}

// Get devuelve el resumen cacheado, o (nil, nil) en cache miss.
func (c *OverviewCache) Get(ctx context.Context) (*repository.InventoryOverview, error) {
	payload, err := c.client.Get(ctx, overviewKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache get overview: %w", err)
	}
	var ov repository.InventoryOverview
	if err := json.Unmarshal(payload, &ov); err != nil {
		return nil, fmt.Errorf("cache unmarshal overview: %w", err)
	}
	return &ov, nil
}

// Set guarda el resumen con expiración.
func (c *OverviewCache) Set(ctx context.Context, overview *repository.InventoryOverview) error {
	payload, err := json.Marshal(overview)
	if err != nil {
		return fmt.Errorf("cache marshal overview: %w", err)
	}
	if err := c.client.Set(ctx, overviewKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set overview: %w", err)
	}
	return nil
}
