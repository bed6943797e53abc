package service

import (
	"context"
	"strings"

	"github.com/fjod/nayra_storefront/internal/api"
	"github.com/fjod/nayra_storefront/internal/domain"
	"github.com/fjod/nayra_storefront/internal/nav"
	"github.com/fjod/nayra_storefront/internal/session"
)

type ReviewClient interface {
	Reviews(ctx context.Context, productID string) ([]domain.Review, error)
	AddReview(ctx context.Context, r api.NewReview) (*api.Message, error)
	DeleteReview(ctx context.Context, reviewID string) error
}

type ReviewService struct {
	guard
	client ReviewClient
}

func NewReviewService(client ReviewClient, store *session.Store, navigator nav.Navigator) *ReviewService {
	return &ReviewService{guard: guard{store: store, navigator: navigator}, client: client}
}

// List is public.
func (s *ReviewService) List(ctx context.Context, productID string) ([]domain.Review, error) {
	return s.client.Reviews(ctx, productID)
}

func (s *ReviewService) Add(ctx context.Context, productID string, rating int, comment string) (string, error) {
	if err := s.require(ErrRoleNotAllowed, domain.RoleShopper); err != nil {
		return "", err
	}
	form := ReviewForm{ProductID: productID, Rating: rating, Comment: strings.TrimSpace(comment)}
	if err := validateForm(form); err != nil {
		return "", err
	}

	msg, err := s.client.AddReview(ctx, api.NewReview{ProductID: form.ProductID, Rating: form.Rating, Comment: form.Comment})
	if err != nil {
		return "", s.handle(err)
	}
	return msg.Message, nil
}

// Delete removes a review. The backend decides whether the caller owns it.
func (s *ReviewService) Delete(ctx context.Context, reviewID string) error {
	if err := s.require(ErrRoleNotAllowed, domain.RoleShopper, domain.RoleAdmin); err != nil {
		return err
	}
	return s.handle(s.client.DeleteReview(ctx, reviewID))
}
