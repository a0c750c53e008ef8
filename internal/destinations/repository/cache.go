package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tripnest/tripnest-backend/internal/destinations/domain"
)

const (
	destinationKeyPrefix = "dest:" // dest:{id}
	DestinationCacheTTL  = 10 * time.Minute
)

// DestinationCache keeps single destinations in Redis.
type DestinationCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDestinationCache(client *redis.Client, ttl time.Duration) *DestinationCache {
	if ttl <= 0 {
		ttl = DestinationCacheTTL
	}
	return &DestinationCache{client: client, ttl: ttl}
}

// Get returns nil, nil on a miss.
func (c *DestinationCache) Get(ctx context.Context, id string) (*domain.Destination, error) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read destination cache: %w", err)
	}

	var d domain.Destination
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal destination: %w", err)
	}
	return &d, nil
}

func (c *DestinationCache) Set(ctx context.Context, d *domain.Destination) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal destination: %w", err)
	}
	if err := c.client.Set(ctx, c.key(d.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write destination cache: %w", err)
	}
	return nil
}

func (c *DestinationCache) key(id string) string {
	return destinationKeyPrefix + id
}
