package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fjod/nayra_storefront/internal/domain"
	"github.com/pkg/errors"
)

type checkoutRequest struct {
	Products []checkoutItem `json:"products"`
}

// checkoutItem carries the price as a JSON number.
type checkoutItem struct {
	Title    string      `json:"title"`
	Price    json.Number `json:"price"`
	Image    string      `json:"image"`
	Quantity int         `json:"quantity"`
}

func newCheckoutRequest(products []domain.CheckoutProduct) checkoutRequest {
	items := make([]checkoutItem, 0, len(products))
	for _, p := range products {
		items = append(items, checkoutItem{
			Title:    p.Title,
			Price:    json.Number(p.Price.String()),
			Image:    p.Image,
			Quantity: p.Quantity,
		})
	}
	return checkoutRequest{Products: items}
}

type checkoutResponse struct {
	SessionID string `json:"sessionId"`
}

// CreateCheckoutSession opens a hosted payment session and returns its id.
func (c *Client) CreateCheckoutSession(ctx context.Context, products []domain.CheckoutProduct) (string, error) {
	const path = "/payment/create-checkout-session"
	var resp checkoutResponse
	if err := c.doJSON(ctx, http.MethodPost, path, newCheckoutRequest(products), &resp); err != nil {
		return "", err
	}
	if resp.SessionID == "" {
		return "", &Error{Kind: KindDecode, Method: http.MethodPost, Path: path, Err: errors.New("missing sessionId")}
	}
	return resp.SessionID, nil
}
