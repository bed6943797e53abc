package service

import (
	"context"
	"strings"
	"sync"

	"github.com/fjod/nayra_storefront/internal/domain"
	"github.com/fjod/nayra_storefront/internal/nav"
	"github.com/fjod/nayra_storefront/internal/session"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultCheckoutURL is the hosted checkout page; {sessionId} is replaced
// with the id the backend hands out.
const DefaultCheckoutURL = "https://checkout.stripe.com/c/pay/{sessionId}"

type CheckoutClient interface {
	CreateCheckoutSession(ctx context.Context, products []domain.CheckoutProduct) (string, error)
	CreateOrder(ctx context.Context, paymentID string) (*domain.Order, error)
}

type CheckoutService struct {
	guard
	client      CheckoutClient
	cart        CartLoader
	checkoutURL string
	logger      *zap.Logger

	sfg       singleflight.Group // collapses concurrent completions of one payment
	mu        sync.Mutex
	completed map[string]*domain.Order
}

func NewCheckoutService(client CheckoutClient, store *session.Store, cart CartLoader, navigator nav.Navigator, checkoutURL string, logger *zap.Logger) *CheckoutService {
	if checkoutURL == "" {
		checkoutURL = DefaultCheckoutURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutService{
		guard:       guard{store: store, navigator: navigator},
		client:      client,
		cart:        cart,
		checkoutURL: checkoutURL,
		logger:      logger,
		completed:   make(map[string]*domain.Order),
	}
}

// Begin opens a payment session for the cart currently in the store.
func (s *CheckoutService) Begin(ctx context.Context) (*domain.CheckoutSession, error) {
	if err := s.require(ErrShopperOnly, domain.RoleShopper); err != nil {
		return nil, err
	}
	lines := s.store.CartLines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	sessionID, err := s.client.CreateCheckoutSession(ctx, domain.CheckoutProducts(lines))
	if err != nil {
		return nil, s.handle(err)
	}
	s.logger.Info("checkout session created",
		zap.String("session_id", sessionID),
		zap.String("amount", s.store.CartSummary().TotalAmount.StringFixed(2)))

	return &domain.CheckoutSession{
		SessionID:   sessionID,
		RedirectURL: strings.ReplaceAll(s.checkoutURL, "{sessionId}", sessionID),
	}, nil
}

// Complete records the order for a finished payment. A payment id is
// submitted once; repeated calls get the order from the first success.
func (s *CheckoutService) Complete(ctx context.Context, paymentID string) (*domain.Order, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return nil, errors.New("payment id is required")
	}
	if order, ok := s.lookup(paymentID); ok {
		return order, nil
	}

	v, err, _ := s.sfg.Do(paymentID, func() (interface{}, error) {
		if order, ok := s.lookup(paymentID); ok {
			return order, nil
		}
		order, err := s.client.CreateOrder(ctx, paymentID)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.completed[paymentID] = order
		s.mu.Unlock()
		return order, nil
	})
	if err != nil {
		s.logger.Warn("order creation failed", zap.String("payment_id", paymentID), zap.Error(err))
		return nil, s.handle(err)
	}

	// The backend empties the cart once the order exists.
	if s.cart != nil && s.store.Role() == domain.RoleShopper {
		if _, err := s.cart.Load(ctx); err != nil {
			s.logger.Warn("cart reload after order failed", zap.Error(err))
		}
	}
	return v.(*domain.Order), nil
}

func (s *CheckoutService) lookup(paymentID string) (*domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.completed[paymentID]
	return order, ok
}
