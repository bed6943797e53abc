package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fjod/nayra_storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// NewProduct is the multipart form a seller or the admin submits to list a
// product.
type NewProduct struct {
	Title       string
	Description string
	Category    domain.Category
	Price       decimal.Decimal
	Quantity    int
	Image       *Upload
}

func (p NewProduct) fields() []formField {
	return []formField{
		{"title", p.Title},
		{"description", p.Description},
		{"category", string(p.Category)},
		{"price", p.Price.String()},
		{"quantity", strconv.Itoa(p.Quantity)},
	}
}

type StockUpdate struct {
	Price    decimal.Decimal
	Quantity int
}

// MarshalJSON sends the price as a JSON number.
func (u StockUpdate) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Price    json.Number `json:"price"`
		Quantity int         `json:"quantity"`
	}{json.Number(u.Price.String()), u.Quantity})
}

type productEnvelope struct {
	Message string          `json:"message"`
	Product *domain.Product `json:"product"`
}

type productsEnvelope struct {
	Products []domain.Product `json:"products"`
}

func (c *Client) SellerProducts(ctx context.Context) ([]domain.Product, error) {
	var env productsEnvelope
	if err := c.doJSON(ctx, http.MethodGet, "/seller/my", nil, &env); err != nil {
		return nil, err
	}
	return env.Products, nil
}

func (c *Client) SellerAddProduct(ctx context.Context, p NewProduct) (*domain.Product, error) {
	var env productEnvelope
	if err := c.doMultipart(ctx, http.MethodPost, "/seller/addProducts", p.fields(), p.Image, &env); err != nil {
		return nil, err
	}
	return env.Product, nil
}

// SellerUpdateProduct changes price and stock. Sellers cannot edit anything else.
func (c *Client) SellerUpdateProduct(ctx context.Context, productID string, u StockUpdate) (*domain.Product, error) {
	var env productEnvelope
	if err := c.doJSON(ctx, http.MethodPut, "/seller/update/"+url.PathEscape(productID), u, &env); err != nil {
		return nil, err
	}
	return env.Product, nil
}

func (c *Client) SellerDeleteProduct(ctx context.Context, productID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/seller/delete/"+url.PathEscape(productID), nil, nil)
}
