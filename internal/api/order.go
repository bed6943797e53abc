package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/fjod/nayra_storefront/internal/domain"
)

type ordersEnvelope struct {
	Orders []domain.Order `json:"orders"`
}

type createOrderResponse struct {
	Message string        `json:"message"`
	Order   *domain.Order `json:"order"`
}

// CreateOrder records the order for a completed payment. The backend builds
// it from the caller's cart.
func (c *Client) CreateOrder(ctx context.Context, paymentID string) (*domain.Order, error) {
	var resp createOrderResponse
	body := struct {
		PaymentID string `json:"paymentId"`
	}{PaymentID: paymentID}
	if err := c.doJSON(ctx, http.MethodPost, "/orders/create", body, &resp); err != nil {
		return nil, err
	}
	if resp.Order == nil {
		return &domain.Order{PaymentID: paymentID}, nil
	}
	return resp.Order, nil
}

func (c *Client) MyOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := c.doJSON(ctx, http.MethodGet, "/orders/myorders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) SellerOrders(ctx context.Context) ([]domain.Order, error) {
	var env ordersEnvelope
	if err := c.doJSON(ctx, http.MethodGet, "/orders/seller", nil, &env); err != nil {
		return nil, err
	}
	return env.Orders, nil
}

func (c *Client) ConfirmSellerOrder(ctx context.Context, orderID string) error {
	return c.doJSON(ctx, http.MethodPut, "/orders/seller/confirm/"+url.PathEscape(orderID), struct{}{}, nil)
}

func (c *Client) AdminOrders(ctx context.Context) ([]domain.Order, error) {
	var env ordersEnvelope
	if err := c.doJSON(ctx, http.MethodGet, "/orders/adminorders", nil, &env); err != nil {
		return nil, err
	}
	return env.Orders, nil
}

func (c *Client) ConfirmAdminOrder(ctx context.Context, orderID string) error {
	return c.doJSON(ctx, http.MethodPut, "/orders/adminorders/confirm/"+url.PathEscape(orderID), struct{}{}, nil)
}
