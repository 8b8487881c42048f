// Package userscache provides a Redis read-through cache of public identity
// views. Only the public projection is ever cached; verifiers and wrapped
// key material never leave PostgreSQL.
package userscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sealedchat/sealedchat/internal/server/models"
)

const keyPrefix = "user:pub:"

// Cache caches models.PublicView records by user id with a fixed TTL.
// A nil *Cache is a valid no-op cache, so callers can run without Redis.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// Get returns the cached view for id, or (nil, nil) on a miss.
func (c *Cache) Get(ctx context.Context, id string) (*models.PublicView, error) {
	if c == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	view := &models.PublicView{}
	if err := json.Unmarshal(data, view); err != nil {
		// A corrupt entry behaves like a miss; it will be overwritten.
		return nil, nil
	}
	return view, nil
}

// Set stores the view under its user id.
func (c *Cache) Set(ctx context.Context, view models.PublicView) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(view)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, keyPrefix+view.ID, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Invalidate drops the cached view for id. Called after admin mutations so
// suspension and profile changes are visible immediately.
func (c *Cache) Invalidate(ctx context.Context, id string) error {
	if c == nil {
		return nil
	}
	if err := c.rdb.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
