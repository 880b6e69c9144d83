package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "entitlements:"

// Cache keeps a user's entitlement subsector set in Redis so repeated calendar
// reads don't hit the subscriptions table every time. Strictly best-effort: a
// Redis failure is a cache miss, never a request failure.
type Cache struct {
	Client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{Client: client}
}

func (c *Cache) GetSubsectors(ctx context.Context, userID string) ([]string, bool) {
	val, err := c.Client.Get(ctx, keyPrefix+userID).Result()
	if err != nil {
		// redis.Nil or infrastructure error, either way a miss
		return nil, false
	}
	var subsectors []string
	if err := json.Unmarshal([]byte(val), &subsectors); err != nil {
		return nil, false
	}
	return subsectors, true
}

// SetSubsectors stores the entitlement set with the given TTL. Callers cap the
// TTL at the soonest subscription expiry so a cached set never outlives an
// entitlement.
func (c *Cache) SetSubsectors(ctx context.Context, userID string, subsectors []string, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	val, err := json.Marshal(subsectors)
	if err != nil {
		return
	}
	_ = c.Client.Set(ctx, keyPrefix+userID, val, ttl).Err()
}

func (c *Cache) Invalidate(ctx context.Context, userID string) {
	_ = c.Client.Del(ctx, keyPrefix+userID).Err()
}
