package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"tablebook/internal/usecase/queries"

	"github.com/redis/go-redis/v9"
)

const todayKeyPrefix = "reservations:today:"

// ReservationCache fronts the today listing with Redis. A nil client turns
// every lookup into a miss so the service keeps working without Redis.
type ReservationCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewReservationCache(client *redis.Client, ttl time.Duration) *ReservationCache {
	return &ReservationCache{client: client, ttl: ttl}
}

func (c *ReservationCache) Get(ctx context.Context, key string) ([]*queries.ReservationListItem, bool) {
	if c.client == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, todayKeyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("today cache read failed", "error", err.Error())
		}
		return nil, false
	}

	var items []*queries.ReservationListItem
	if err := json.Unmarshal(data, &items); err != nil {
		slog.Warn("today cache entry corrupted, dropping", "error", err.Error())
		c.Invalidate(ctx)
		return nil, false
	}

	return items, true
}

func (c *ReservationCache) Set(ctx context.Context, key string, items []*queries.ReservationListItem) {
	if c.client == nil {
		return
	}

	data, err := json.Marshal(items)
	if err != nil {
		slog.Warn("today cache marshal failed", "error", err.Error())
		return
	}

	if err := c.client.Set(ctx, todayKeyPrefix+key, data, c.ttl).Err(); err != nil {
		slog.Warn("today cache write failed", "error", err.Error())
	}
}

// Invalidate drops all cached today listings. Called after every write so
// a freshly created or transitioned reservation shows up immediately.
func (c *ReservationCache) Invalidate(ctx context.Context) {
	if c.client == nil {
		return
	}

	iter := c.client.Scan(ctx, 0, todayKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			slog.Warn("today cache invalidation failed", "key", iter.Val(), "error", err.Error())
		}
	}
	if err := iter.Err(); err != nil {
		slog.Warn("today cache scan failed", "error", err.Error())
	}
}
