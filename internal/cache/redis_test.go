package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fjod/nayra_storefront/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and returns a RedisCache instance
func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisCache(client, 10*time.Minute), mr
}

func products() []domain.Product {
	return []domain.Product{
		{ID: "p1", Name: "Solitaire", Category: domain.CategoryRing, Price: decimal.NewFromInt(1200), Quantity: 2},
		{ID: "p2", Name: "Halo", Category: domain.CategoryRing, Price: decimal.RequireFromString("899.50")},
	}
}

func TestGet_Success(t *testing.T) {
	cache, mr := setupTestRedis(t)

	data, _ := json.Marshal(products())
	require.NoError(t, mr.Set(cacheKey("collection:Ring"), string(data)))

	result, err := cache.Get(context.Background(), "collection:Ring")
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "p1", result[0].ID)
	assert.True(t, result[1].Price.Equal(decimal.RequireFromString("899.5")))
}

func TestGet_CacheMiss(t *testing.T) {
	cache, _ := setupTestRedis(t)

	result, err := cache.Get(context.Background(), "most-loved")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, result)
}

func TestGet_InvalidJSON(t *testing.T) {
	cache, mr := setupTestRedis(t)
	require.NoError(t, mr.Set(cacheKey("most-loved"), "not json"))

	_, err := cache.Get(context.Background(), "most-loved")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestGet_RedisDown(t *testing.T) {
	cache, mr := setupTestRedis(t)
	mr.Close()

	_, err := cache.Get(context.Background(), "most-loved")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestSet_StoresWithJitteredTTL(t *testing.T) {
	cache, mr := setupTestRedis(t)

	require.NoError(t, cache.Set(context.Background(), "new-arrivals", products()))

	assert.True(t, mr.Exists(cacheKey("new-arrivals")))
	ttl := mr.TTL(cacheKey("new-arrivals"))
	assert.GreaterOrEqual(t, ttl, 10*time.Minute)
	assert.Less(t, ttl, 12*time.Minute)

	mr.FastForward(13 * time.Minute)
	_, err := cache.Get(context.Background(), "new-arrivals")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestSet_RoundTrip(t *testing.T) {
	cache, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "search:Pendant", products()))
	got, err := cache.Get(ctx, "search:Pendant")
	require.NoError(t, err)
	assert.Equal(t, "Halo", got[1].Name)
}

func TestInvalidate_OnlyCatalogKeys(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "most-loved", products()))
	require.NoError(t, cache.Set(ctx, "collection:Ring", products()))
	require.NoError(t, mr.Set("unrelated", "keep"))

	require.NoError(t, cache.Invalidate(ctx))

	assert.False(t, mr.Exists(cacheKey("most-loved")))
	assert.False(t, mr.Exists(cacheKey("collection:Ring")))
	assert.True(t, mr.Exists("unrelated"))
}

func TestInvalidate_Empty(t *testing.T) {
	cache, _ := setupTestRedis(t)
	assert.NoError(t, cache.Invalidate(context.Background()))
}
