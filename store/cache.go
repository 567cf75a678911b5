package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"skate-challenge-service/models"
)

const (
	// ListCacheKey prefixes the cached unfiltered challenge list. The full
	// key carries the list generation, e.g. "challenges:all:7".
	ListCacheKey = "challenges:all"
	// ListGenerationKey counts challenge mutations. Bumping it retires every
	// list cached under an older generation.
	ListGenerationKey = "challenges:all:gen"
)

// Cache is a byte-valued TTL cache with an atomic counter.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
}

// RedisCache implements Cache on a Redis client.
type RedisCache struct {
	RDB *redis.Client
}

// NewRedisCache connects to addr and verifies the connection.
func NewRedisCache(ctx context.Context, addr, password string, db int) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
		PoolSize: 100,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	return &RedisCache{RDB: rdb}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.RDB.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.RDB.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Incr(ctx context.Context, key string) (int64, error) {
	return c.RDB.Incr(ctx, key).Result()
}

func (c *RedisCache) Close() error {
	return c.RDB.Close()
}

// CachedStore serves the unfiltered challenge list from a cache and retires
// the cached list after every challenge mutation by bumping its generation.
// A reader that loaded the list before a mutation stores it under the old
// generation, where no later reader looks. Cache failures fall back to the
// wrapped store.
type CachedStore struct {
	Store
	cache Cache
	ttl   time.Duration
}

func NewCachedStore(inner Store, cache Cache, ttl time.Duration) *CachedStore {
	return &CachedStore{Store: inner, cache: cache, ttl: ttl}
}

func (s *CachedStore) ListChallenges(ctx context.Context, filter ChallengeFilter) ([]models.Challenge, error) {
	if !filter.IsZero() {
		return s.Store.ListChallenges(ctx, filter)
	}

	gen, err := s.generation(ctx)
	if err != nil {
		log.Printf("[CACHE] ⚠️ get %s failed: %v", ListGenerationKey, err)
		return s.Store.ListChallenges(ctx, filter)
	}
	key := ListCacheKey + ":" + strconv.FormatInt(gen, 10)

	if raw, ok, err := s.cache.Get(ctx, key); err != nil {
		log.Printf("[CACHE] ⚠️ get %s failed: %v", key, err)
	} else if ok {
		var cached []models.Challenge
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		log.Printf("[CACHE] ⚠️ discarding undecodable %s entry", key)
	}

	challenges, err := s.Store.ListChallenges(ctx, filter)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(challenges); err == nil {
		if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
			log.Printf("[CACHE] ⚠️ set %s failed: %v", key, err)
		}
	}
	return challenges, nil
}

// generation returns the current list generation; an unset counter is 0.
func (s *CachedStore) generation(ctx context.Context) (int64, error) {
	raw, ok, err := s.cache.Get(ctx, ListGenerationKey)
	if err != nil || !ok {
		return 0, err
	}
	return strconv.ParseInt(string(raw), 10, 64)
}

func (s *CachedStore) CreateChallenge(ctx context.Context, in models.ChallengeInput) (models.Challenge, error) {
	c, err := s.Store.CreateChallenge(ctx, in)
	s.invalidate(ctx)
	return c, err
}

func (s *CachedStore) UpdateChallenge(ctx context.Context, id string, patch models.ChallengePatch) (models.Challenge, error) {
	c, err := s.Store.UpdateChallenge(ctx, id, patch)
	s.invalidate(ctx)
	return c, err
}

func (s *CachedStore) WithChallenge(ctx context.Context, id string, fn func(tx Tx, current models.Challenge) error) error {
	err := s.Store.WithChallenge(ctx, id, fn)
	s.invalidate(ctx)
	return err
}

func (s *CachedStore) invalidate(ctx context.Context) {
	if _, err := s.cache.Incr(ctx, ListGenerationKey); err != nil {
		log.Printf("[CACHE] ⚠️ invalidate %s failed: %v", ListCacheKey, err)
	}
}
