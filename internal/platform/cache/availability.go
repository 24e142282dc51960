package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// AvailabilityCache is a best-effort read-through cache for per-event
// tier availability. Writers invalidate on every inventory mutation so
// readers never serve a stale count longer than the TTL.
type AvailabilityCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewAvailabilityCache(client *redis.Client, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{redis: client, ttl: ttl}
}

func Key(eventID uuid.UUID) string {
	return fmt.Sprintf("availability:%s", eventID.String())
}

// Get returns the cached payload and whether it was present. Transport
// errors are treated as a miss.
func (c *AvailabilityCache) Get(ctx context.Context, eventID uuid.UUID) ([]byte, bool) {
	payload, err := c.redis.Get(ctx, Key(eventID)).Bytes()
	if err != nil {
		return nil, false
	}
	return payload, true
}

func (c *AvailabilityCache) Set(ctx context.Context, eventID uuid.UUID, payload []byte) error {
	return c.redis.Set(ctx, Key(eventID), payload, c.ttl).Err()
}

func (c *AvailabilityCache) Invalidate(ctx context.Context, eventID uuid.UUID) error {
	return c.redis.Del(ctx, Key(eventID)).Err()
}
