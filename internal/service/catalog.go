package service

import (
	"context"
	"time"

	"github.com/fjod/nayra_storefront/internal/cache"
	"github.com/fjod/nayra_storefront/internal/domain"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type CatalogClient interface {
	Collection(ctx context.Context, category domain.Category) ([]domain.Product, error)
	MostLoved(ctx context.Context) ([]domain.Product, error)
	NewArrivals(ctx context.Context) ([]domain.Product, error)
	SearchProducts(ctx context.Context, category string) ([]domain.Product, error)
}

// CatalogService serves public product listings. With a cache configured
// listings are read through it; identical concurrent requests share one
// backend call either way.
type CatalogService struct {
	client CatalogClient
	cache  cache.CatalogCache
	sfg    singleflight.Group // Prevents cache stampede
	logger *zap.Logger
}

// NewCatalogService accepts a nil cache.
func NewCatalogService(client CatalogClient, c cache.CatalogCache, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{client: client, cache: c, logger: logger}
}

func (s *CatalogService) Collection(ctx context.Context, category string) ([]domain.Product, error) {
	c, err := domain.ParseCategory(category)
	if err != nil {
		return nil, &FormError{Fields: map[string]string{"Category": "Category must be one of Ring, Necklace, Bangles, Pendant"}}
	}
	return s.listing(ctx, "collection:"+string(c), func(ctx context.Context) ([]domain.Product, error) {
		return s.client.Collection(ctx, c)
	})
}

func (s *CatalogService) MostLoved(ctx context.Context) ([]domain.Product, error) {
	return s.listing(ctx, "most-loved", s.client.MostLoved)
}

func (s *CatalogService) NewArrivals(ctx context.Context) ([]domain.Product, error) {
	return s.listing(ctx, "new-arrivals", s.client.NewArrivals)
}

func (s *CatalogService) Search(ctx context.Context, category string) ([]domain.Product, error) {
	return s.listing(ctx, "search:"+category, func(ctx context.Context) ([]domain.Product, error) {
		return s.client.SearchProducts(ctx, category)
	})
}

// Invalidate drops cached listings after the catalog changed.
func (s *CatalogService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("catalog cache invalidate failed", zap.Error(err))
	}
}

func (s *CatalogService) listing(ctx context.Context, key string, fetch func(context.Context) ([]domain.Product, error)) ([]domain.Product, error) {
	v, err, _ := s.sfg.Do(key, func() (interface{}, error) {
		if s.cache != nil {
			products, err := s.cache.Get(ctx, key)
			if err == nil {
				return products, nil
			}
			if !errors.Is(err, cache.ErrCacheMiss) {
				s.logger.Warn("catalog cache get failed", zap.String("listing", key), zap.Error(err))
			}
		}

		products, err := fetch(ctx)
		if err != nil {
			return nil, err
		}

		if s.cache != nil {
			setCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := s.cache.Set(setCtx, key, products); err != nil {
				s.logger.Warn("catalog cache set failed", zap.String("listing", key), zap.Error(err))
			}
		}
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}
