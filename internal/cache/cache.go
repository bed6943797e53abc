// Package cache keeps short-lived copies of catalog listings. Carts and
// sessions are never cached: they are per-user and must reflect the backend.
package cache

import (
	"context"

	"github.com/fjod/nayra_storefront/internal/domain"
	"github.com/pkg/errors"
)

type CatalogCache interface {
	Get(ctx context.Context, listing string) ([]domain.Product, error)
	Set(ctx context.Context, listing string, products []domain.Product) error
	// Invalidate drops every cached listing.
	Invalidate(ctx context.Context) error
}

var ErrCacheMiss = errors.New("cache miss")
