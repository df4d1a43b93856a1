package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fleetlink/fleetlink/config"
	"github.com/fleetlink/fleetlink/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisCache holds the active-vehicle roster so the listing endpoint does not
// hit Postgres on every call. Availability checks never read from here; they
// always go to the ledger.
type RedisCache struct {
	client    *redis.Client
	rosterTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, rosterTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:    redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		rosterTTL: rosterTTL,
	}
}

func (c *RedisCache) GetVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	data, err := c.client.Get(ctx, vehiclesKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var vehicles []domain.Vehicle
	if err := json.Unmarshal(data, &vehicles); err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (c *RedisCache) SetVehicles(ctx context.Context, vehicles []domain.Vehicle) error {
	payload, err := json.Marshal(vehicles)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, vehiclesKey(), payload, c.rosterTTL).Err()
}

func (c *RedisCache) InvalidateVehicles(ctx context.Context) error {
	return c.client.Del(ctx, vehiclesKey()).Err()
}

func vehiclesKey() string {
	return "cache:vehicles"
}
