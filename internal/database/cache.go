package database

import (
	"context"
	"encoding/json"
	"time"
)

const (
	// Cache key prefixes
	CacheKeyPlatforms         = "reviewtracker:lookups:platforms"
	CacheKeyMediators         = "reviewtracker:lookups:mediators"
	CacheKeyDashboardStats    = "reviewtracker:dashboard:stats"
	CacheKeyNotificationCount = "reviewtracker:notifications:count"

	// Cache TTLs
	CacheTTLLookups           = 5 * time.Minute
	CacheTTLDashboard         = 1 * time.Minute
	CacheTTLNotificationCount = 10 * time.Minute
)

// CacheGet retrieves a value from Redis cache and unmarshals it into dest
func CacheGet(key string, dest interface{}) error {
	ctx := context.Background()
	data, err := Redis.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// CacheSet stores a value in Redis cache with TTL
func CacheSet(key string, value interface{}, ttl time.Duration) error {
	ctx := context.Background()
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return Redis.Set(ctx, key, data, ttl).Err()
}

// CacheDelete removes a key from Redis cache
func CacheDelete(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	ctx := context.Background()
	return Redis.Del(ctx, keys...).Err()
}

// InvalidateLookupCache clears cached platform/mediator lists
func InvalidateLookupCache() {
	CacheDelete(CacheKeyPlatforms, CacheKeyMediators)
}

// InvalidateDashboardCache clears the cached dashboard stats
func InvalidateDashboardCache() {
	CacheDelete(CacheKeyDashboardStats)
}
