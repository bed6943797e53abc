package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/fjod/nayra_storefront/internal/domain"
)

type NewReview struct {
	ProductID string `json:"productId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

func (c *Client) Reviews(ctx context.Context, productID string) ([]domain.Review, error) {
	var reviews []domain.Review
	if err := c.doJSON(ctx, http.MethodGet, "/review/"+url.PathEscape(productID), nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (c *Client) AddReview(ctx context.Context, r NewReview) (*Message, error) {
	var msg Message
	if err := c.doJSON(ctx, http.MethodPost, "/review", r, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *Client) DeleteReview(ctx context.Context, reviewID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/review/"+url.PathEscape(reviewID), nil, nil)
}
