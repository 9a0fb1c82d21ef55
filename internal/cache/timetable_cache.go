package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	dom "github.com/at14318-design/timetable-backend/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyListPrefix = "timetable:list:"

// TimetableCache caches each user's timetable listing in Redis. The list is
// read on every board render, so even a short TTL takes real load off
// Postgres; writes invalidate eagerly.
type TimetableCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTimetableCache returns a new TimetableCache.
func NewTimetableCache(rdb *redis.Client, ttl time.Duration) *TimetableCache {
	return &TimetableCache{rdb: rdb, ttl: ttl}
}

func listKey(userID int64) string {
	return keyListPrefix + strconv.FormatInt(userID, 10)
}

// GetList returns the cached list for userID, or nil on miss.
func (c *TimetableCache) GetList(ctx context.Context, userID int64) ([]dom.TimetableEntry, error) {
	b, err := c.rdb.Get(ctx, listKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.TimetableEntry
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetList stores the list for userID.
func (c *TimetableCache) SetList(ctx context.Context, userID int64, list []dom.TimetableEntry) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, listKey(userID), b, c.ttl).Err()
}

// Invalidate drops the cached list for userID (called on every write).
func (c *TimetableCache) Invalidate(ctx context.Context, userID int64) error {
	return c.rdb.Del(ctx, listKey(userID)).Err()
}
