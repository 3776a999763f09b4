package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
	Limit     int
}

// Store counts requests per key. Implementations must be safe for concurrent
// use.
type Store interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error)
}

type entry struct {
	Count     int
	ResetTime time.Time
}

// MemoryStore is a fixed window counter kept in process.
type MemoryStore struct {
	cache *cache.Cache
	mutex sync.Mutex
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: cache.New(5*time.Minute, 10*time.Minute),
		now:   time.Now,
	}
}

func (s *MemoryStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error) {
	now := s.now()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if found, ok := s.cache.Get(key); ok {
		current := found.(entry)

		if now.Before(current.ResetTime) {
			if current.Count >= limit {
				return &Result{Allowed: false, Remaining: 0, ResetAt: current.ResetTime, Limit: limit}, nil
			}

			current.Count++
			s.cache.Set(key, current, current.ResetTime.Sub(now))

			return &Result{Allowed: true, Remaining: limit - current.Count, ResetAt: current.ResetTime, Limit: limit}, nil
		}
	}

	resetTime := now.Add(window)
	s.cache.Set(key, entry{Count: 1, ResetTime: resetTime}, window)

	return &Result{Allowed: true, Remaining: limit - 1, ResetAt: resetTime, Limit: limit}, nil
}

func (s *MemoryStore) ItemCount() int {
	return s.cache.ItemCount()
}

var slidingWindow = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

	local current = redis.call('ZCARD', key)

	if current < limit then
		local counter = redis.call('INCR', key .. ':counter')
		redis.call('ZADD', key, now, now .. ':' .. counter)
		local expire_seconds = math.ceil(window_ms / 1000)
		redis.call('EXPIRE', key, expire_seconds)
		redis.call('EXPIRE', key .. ':counter', expire_seconds)
		return {1, limit - current - 1, 0}
	end

	local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
	local reset_at = 0
	if oldest and #oldest >= 2 then
		reset_at = tonumber(oldest[2]) + window_ms
	end
	return {0, 0, reset_at}
`)

// RedisStore is a sliding window log in a Redis sorted set, shared by every
// replica pointed at the same Redis.
type RedisStore struct {
	client    redis.Scripter
	keyPrefix string
}

func NewRedisStore(client redis.Scripter, keyPrefix string) *RedisStore {
	return &RedisStore{client: client, keyPrefix: keyPrefix}
}

func (s *RedisStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error) {
	now := time.Now()

	values, err := slidingWindow.Run(ctx, s.client, []string{s.keyPrefix + key},
		now.UnixMilli(), now.Add(-window).UnixMilli(), limit, window.Milliseconds()).Int64Slice()

	if err != nil {
		return nil, fmt.Errorf("redis script error: %w", err)
	}

	if len(values) != 3 {
		return nil, fmt.Errorf("unexpected redis response length: %d", len(values))
	}

	resetAt := now.Add(window)

	if values[2] > 0 {
		resetAt = time.UnixMilli(values[2])
	}

	return &Result{
		Allowed:   values[0] == 1,
		Remaining: int(values[1]),
		ResetAt:   resetAt,
		Limit:     limit,
	}, nil
}
