package menu

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

// Cache holds the unfiltered item list between stock changes.
type Cache interface {
	GetItems(ctx context.Context) ([]Item, bool)
	SetItems(ctx context.Context, items []Item)
	Invalidate(ctx context.Context)
}

const itemsCacheKey = "cafeteria:menu:items"

type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
	log zerolog.Logger
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration, logger zerolog.Logger) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl, log: logger}
}

func (c *RedisCache) GetItems(ctx context.Context) ([]Item, bool) {
	raw, err := c.rdb.Get(ctx, itemsCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Msg("items cache read failed")
		}
		return nil, false
	}
	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		c.log.Warn().Err(err).Msg("items cache entry corrupt")
		return nil, false
	}
	return items, true
}

func (c *RedisCache) SetItems(ctx context.Context, items []Item) {
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, itemsCacheKey, raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Msg("items cache write failed")
	}
}

func (c *RedisCache) Invalidate(ctx context.Context) {
	if err := c.rdb.Del(ctx, itemsCacheKey).Err(); err != nil {
		c.log.Warn().Err(err).Msg("items cache invalidate failed")
	}
}

type NopCache struct{}

func (NopCache) GetItems(context.Context) ([]Item, bool) { return nil, false }
func (NopCache) SetItems(context.Context, []Item)        {}
func (NopCache) Invalidate(context.Context)              {}

// CachedRepository serves unfiltered List calls from the cache and drops the
// cached copy on every write that goes through it.
type CachedRepository struct {
	Repository
	cache Cache
}

func NewCachedRepository(repo Repository, cache Cache) *CachedRepository {
	if cache == nil {
		cache = NopCache{}
	}
	return &CachedRepository{Repository: repo, cache: cache}
}

func (r *CachedRepository) List(ctx context.Context, q Query) ([]Item, error) {
	if !q.IsZero() {
		return r.Repository.List(ctx, q)
	}
	if items, ok := r.cache.GetItems(ctx); ok {
		return items, nil
	}
	items, err := r.Repository.List(ctx, q)
	if err != nil {
		return nil, err
	}
	r.cache.SetItems(ctx, items)
	return items, nil
}

func (r *CachedRepository) Create(ctx context.Context, in Input) (Item, error) {
	it, err := r.Repository.Create(ctx, in)
	if err == nil {
		r.cache.Invalidate(ctx)
	}
	return it, err
}

func (r *CachedRepository) Update(ctx context.Context, id int64, p Patch) (Item, error) {
	it, err := r.Repository.Update(ctx, id, p)
	if err == nil {
		r.cache.Invalidate(ctx)
	}
	return it, err
}

func (r *CachedRepository) Delete(ctx context.Context, id int64) error {
	err := r.Repository.Delete(ctx, id)
	if err == nil {
		r.cache.Invalidate(ctx)
	}
	return err
}

func (r *CachedRepository) Rate(ctx context.Context, id int64, rating int) (Item, error) {
	it, err := r.Repository.Rate(ctx, id, rating)
	if err == nil {
		r.cache.Invalidate(ctx)
	}
	return it, err
}

// Invalidate is called by writers outside this repository, e.g. order
// placement decrementing stock.
func (r *CachedRepository) Invalidate(ctx context.Context) {
	r.cache.Invalidate(ctx)
}
