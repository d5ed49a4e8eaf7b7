package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// UnreadCachePrefix is the key prefix for per-member unread badge counts
	UnreadCachePrefix = "notif:unread:"

	// UnreadCacheTTL bounds staleness if an invalidation is ever lost
	UnreadCacheTTL = 10 * time.Minute
)

// UnreadCache caches the unread-notification badge count per member. The
// badge is polled by every page load, so reads go through here and only
// fall back to the database on a miss. Workers invalidate on new
// notifications; the API invalidates on mark-as-read.
type UnreadCache interface {
	// Get returns (count, found, error). found=false means cache miss.
	Get(ctx context.Context, userID int64) (int, bool, error)

	// Set stores the count with a TTL.
	Set(ctx context.Context, userID int64, count int) error

	// Invalidate drops the cached count so the next read recomputes it.
	Invalidate(ctx context.Context, userID int64) error
}

// RedisUnreadCache implements UnreadCache using plain Redis strings.
type RedisUnreadCache struct {
	client *redis.Client
}

// NewUnreadCache creates a new UnreadCache backed by Redis.
func NewUnreadCache(client *redis.Client) UnreadCache {
	return &RedisUnreadCache{client: client}
}

func unreadKey(userID int64) string {
	return fmt.Sprintf("%s%d", UnreadCachePrefix, userID)
}

// Get returns the cached unread count for a member.
func (c *RedisUnreadCache) Get(ctx context.Context, userID int64) (int, bool, error) {
	count, err := c.client.Get(ctx, unreadKey(userID)).Int()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		log.Printf("[UnreadCache] Get FAILED: user=%d err=%v", userID, err)
		return 0, false, fmt.Errorf("get unread count: %w", err)
	}

	return count, true, nil
}

// Set stores the unread count for a member.
func (c *RedisUnreadCache) Set(ctx context.Context, userID int64, count int) error {
	err := c.client.Set(ctx, unreadKey(userID), count, UnreadCacheTTL).Err()
	if err != nil {
		log.Printf("[UnreadCache] Set FAILED: user=%d count=%d err=%v", userID, count, err)
		return fmt.Errorf("set unread count: %w", err)
	}
	return nil
}

// Invalidate drops the cached count for a member.
func (c *RedisUnreadCache) Invalidate(ctx context.Context, userID int64) error {
	err := c.client.Del(ctx, unreadKey(userID)).Err()
	if err != nil {
		log.Printf("[UnreadCache] Invalidate FAILED: user=%d err=%v", userID, err)
		return fmt.Errorf("invalidate unread count: %w", err)
	}
	return nil
}
