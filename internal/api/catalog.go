package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/fjod/nayra_storefront/internal/domain"
)

func (c *Client) listProducts(ctx context.Context, path string) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) Collection(ctx context.Context, category domain.Category) ([]domain.Product, error) {
	return c.listProducts(ctx, "/collection/"+url.PathEscape(string(category)))
}

func (c *Client) MostLoved(ctx context.Context) ([]domain.Product, error) {
	return c.listProducts(ctx, "/collection/most-loved")
}

func (c *Client) NewArrivals(ctx context.Context) ([]domain.Product, error) {
	return c.listProducts(ctx, "/collection/new-arrivals")
}

// SearchProducts lists products by category. An empty category lists everything.
func (c *Client) SearchProducts(ctx context.Context, category string) ([]domain.Product, error) {
	path := "/seller/search-products"
	if category != "" {
		path += "?" + url.Values{"category": {category}}.Encode()
	}
	return c.listProducts(ctx, path)
}
