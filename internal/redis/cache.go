package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Cache key patterns:
// - realm:{realm_id}:user_groups - serialized group listing, short TTL,
//   invalidated on any group mutation in the realm

// CacheConfig contains configuration for caching
type CacheConfig struct {
	GroupListTTL time.Duration // TTL for the per-realm group listing cache
}

// DefaultCacheConfig returns sensible defaults
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		GroupListTTL: 5 * time.Minute,
	}
}

// CacheStore handles caching in Redis
type CacheStore struct {
	client *goredis.Client
	config CacheConfig
}

// NewCacheStore creates a new cache store
func NewCacheStore(client *goredis.Client, config CacheConfig) *CacheStore {
	return &CacheStore{
		client: client,
		config: config,
	}
}

func groupListKey(realmID int64) string {
	return fmt.Sprintf("realm:%d:user_groups", realmID)
}

// GetGroupList retrieves the cached group listing for a realm. A cache miss
// returns (nil, nil).
func (c *CacheStore) GetGroupList(ctx context.Context, realmID int64, out interface{}) (bool, error) {
	data, err := c.client.Get(ctx, groupListKey(realmID)).Result()
	if err == goredis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(data), out); err != nil {
		return false, err
	}
	return true, nil
}

// SetGroupList stores the serialized group listing for a realm
func (c *CacheStore) SetGroupList(ctx context.Context, realmID int64, listing interface{}) error {
	data, err := json.Marshal(listing)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, groupListKey(realmID), data, c.config.GroupListTTL).Err()
}

// InvalidateGroupList drops the cached listing for a realm. Called after any
// group mutation.
func (c *CacheStore) InvalidateGroupList(ctx context.Context, realmID int64) error {
	return c.client.Del(ctx, groupListKey(realmID)).Err()
}
