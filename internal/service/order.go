package service

import (
	"context"

	"github.com/fjod/nayra_storefront/internal/domain"
	"github.com/fjod/nayra_storefront/internal/nav"
	"github.com/fjod/nayra_storefront/internal/session"
)

type OrderClient interface {
	MyOrders(ctx context.Context) ([]domain.Order, error)
	SellerOrders(ctx context.Context) ([]domain.Order, error)
	ConfirmSellerOrder(ctx context.Context, orderID string) error
	AdminOrders(ctx context.Context) ([]domain.Order, error)
	ConfirmAdminOrder(ctx context.Context, orderID string) error
}

type OrderService struct {
	guard
	client OrderClient
}

func NewOrderService(client OrderClient, store *session.Store, navigator nav.Navigator) *OrderService {
	return &OrderService{guard: guard{store: store, navigator: navigator}, client: client}
}

func (s *OrderService) Mine(ctx context.Context) ([]domain.Order, error) {
	return s.list(ctx, domain.RoleShopper, s.client.MyOrders)
}

func (s *OrderService) SellerOrders(ctx context.Context) ([]domain.Order, error) {
	return s.list(ctx, domain.RoleSeller, s.client.SellerOrders)
}

func (s *OrderService) AdminOrders(ctx context.Context) ([]domain.Order, error) {
	return s.list(ctx, domain.RoleAdmin, s.client.AdminOrders)
}

func (s *OrderService) ConfirmSellerOrder(ctx context.Context, orderID string) error {
	if err := s.require(ErrRoleNotAllowed, domain.RoleSeller); err != nil {
		return err
	}
	return s.handle(s.client.ConfirmSellerOrder(ctx, orderID))
}

func (s *OrderService) ConfirmAdminOrder(ctx context.Context, orderID string) error {
	if err := s.require(ErrRoleNotAllowed, domain.RoleAdmin); err != nil {
		return err
	}
	return s.handle(s.client.ConfirmAdminOrder(ctx, orderID))
}

func (s *OrderService) list(ctx context.Context, role domain.Role, fetch func(context.Context) ([]domain.Order, error)) ([]domain.Order, error) {
	if err := s.require(ErrRoleNotAllowed, role); err != nil {
		return nil, err
	}
	orders, err := fetch(ctx)
	if err != nil {
		return nil, s.handle(err)
	}
	return orders, nil
}
