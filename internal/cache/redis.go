package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Domenick1991/skyfare/config"
	"github.com/Domenick1991/skyfare/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client     *redis.Client
	flightsTTL time.Duration
}

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
}

func NewRedisCache(client *redis.Client, flightsTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, flightsTTL: flightsTTL}
}

// GetFlights returns nil without error on a cache miss.
func (c *RedisCache) GetFlights(ctx context.Context) ([]domain.Flight, error) {
	var flights []domain.Flight
	ok, err := c.getJSON(ctx, flightsKey(), &flights)
	if err != nil || !ok {
		return nil, err
	}
	return flights, nil
}

func (c *RedisCache) SetFlights(ctx context.Context, flights []domain.Flight) error {
	return c.setJSON(ctx, flightsKey(), flights)
}

// GetFlight returns nil without error on a cache miss.
func (c *RedisCache) GetFlight(ctx context.Context, flightID string) (*domain.Flight, error) {
	var f domain.Flight
	ok, err := c.getJSON(ctx, flightKey(flightID), &f)
	if err != nil || !ok {
		return nil, err
	}
	return &f, nil
}

func (c *RedisCache) SetFlight(ctx context.Context, f domain.Flight) error {
	return c.setJSON(ctx, flightKey(f.FlightID), f)
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisCache) setJSON(ctx context.Context, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, c.flightsTTL).Err()
}

func flightsKey() string {
	return "cache:flights"
}

func flightKey(flightID string) string {
	return "cache:flight:" + flightID
}
