package service

import (
	"context"

	"github.com/fjod/nayra_storefront/internal/domain"
	"github.com/fjod/nayra_storefront/internal/nav"
	"github.com/fjod/nayra_storefront/internal/session"
	"go.uber.org/zap"
)

type CartClient interface {
	GetCart(ctx context.Context) ([]domain.CartLine, error)
	AddToCart(ctx context.Context, productID string, quantity int) error
	UpdateCartLine(ctx context.Context, productID string, quantity int) error
	RemoveCartLine(ctx context.Context, productID string) error
	ClearCart(ctx context.Context) error
}

// CartService mirrors the backend cart into the session store. Every
// mutation is followed by a full refetch; the store never patches lines
// locally.
type CartService struct {
	guard
	client CartClient
	logger *zap.Logger
}

func NewCartService(client CartClient, store *session.Store, navigator nav.Navigator, logger *zap.Logger) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{
		guard:  guard{store: store, navigator: navigator},
		client: client,
		logger: logger,
	}
}

// Load fetches the cart into the store.
func (s *CartService) Load(ctx context.Context) ([]domain.CartLine, error) {
	if err := s.requireShopper(); err != nil {
		return nil, err
	}
	return s.refresh(ctx)
}

func (s *CartService) Add(ctx context.Context, productID string, quantity int) ([]domain.CartLine, error) {
	if err := validateForm(QuantityForm{ProductID: productID, Quantity: quantity}); err != nil {
		return nil, err
	}
	return s.mutate(ctx, "add", func(ctx context.Context) error {
		return s.client.AddToCart(ctx, productID, quantity)
	})
}

func (s *CartService) Update(ctx context.Context, productID string, quantity int) ([]domain.CartLine, error) {
	if err := validateForm(QuantityForm{ProductID: productID, Quantity: quantity}); err != nil {
		return nil, err
	}
	return s.mutate(ctx, "update", func(ctx context.Context) error {
		return s.client.UpdateCartLine(ctx, productID, quantity)
	})
}

func (s *CartService) Remove(ctx context.Context, productID string) ([]domain.CartLine, error) {
	return s.mutate(ctx, "remove", func(ctx context.Context) error {
		return s.client.RemoveCartLine(ctx, productID)
	})
}

func (s *CartService) Clear(ctx context.Context) ([]domain.CartLine, error) {
	return s.mutate(ctx, "clear", s.client.ClearCart)
}

func (s *CartService) mutate(ctx context.Context, op string, call func(context.Context) error) ([]domain.CartLine, error) {
	if err := s.requireShopper(); err != nil {
		return nil, err
	}
	if err := call(ctx); err != nil {
		s.logger.Debug("cart mutation failed", zap.String("op", op), zap.Error(err))
		return nil, s.handle(err)
	}
	return s.refresh(ctx)
}

func (s *CartService) refresh(ctx context.Context) ([]domain.CartLine, error) {
	lines, err := s.client.GetCart(ctx)
	if err != nil {
		return nil, s.handle(err)
	}
	s.store.SetCartLines(lines)
	return s.store.CartLines(), nil
}

func (s *CartService) requireShopper() error {
	return s.require(ErrShopperOnly, domain.RoleShopper)
}
