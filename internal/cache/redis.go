package cache

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/fjod/nayra_storefront/internal/domain"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "catalog:"

func NewRedisCache(client redis.UniversalClient, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisCache{
		client:  client,
		baseTTL: ttl,
	}
}

type RedisCache struct {
	client  redis.UniversalClient
	baseTTL time.Duration
}

func (r *RedisCache) Get(ctx context.Context, listing string) ([]domain.Product, error) {
	data, err := r.client.Get(ctx, cacheKey(listing)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, errors.Wrap(err, "redis get")
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, errors.Wrap(err, "unmarshal listing")
	}
	return products, nil
}

// Set stores a listing with up to a fifth of the TTL added as jitter, so
// listings fetched together do not all expire together.
func (r *RedisCache) Set(ctx context.Context, listing string, products []domain.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return errors.Wrap(err, "marshal listing")
	}

	ttl := r.baseTTL
	if spread := int64(r.baseTTL / 5); spread > 0 {
		ttl += time.Duration(rand.Int63n(spread))
	}
	if err := r.client.Set(ctx, cacheKey(listing), data, ttl).Err(); err != nil {
		return errors.Wrap(err, "redis set")
	}
	return nil
}

func (r *RedisCache) Invalidate(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return errors.Wrap(err, "redis scan")
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return errors.Wrap(err, "redis delete")
	}
	return nil
}

func cacheKey(listing string) string {
	return keyPrefix + listing
}
