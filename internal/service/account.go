package service

import (
	"context"
	"strings"

	"github.com/fjod/nayra_storefront/internal/api"
	"github.com/fjod/nayra_storefront/internal/domain"
	"github.com/fjod/nayra_storefront/internal/nav"
	"github.com/fjod/nayra_storefront/internal/session"
)

type AccountClient interface {
	Profile(ctx context.Context, role domain.Role) (*domain.Principal, error)
	UpdateProfile(ctx context.Context, u api.ProfileUpdate) (*domain.Principal, error)
	DeleteAccount(ctx context.Context, role domain.Role) error
}

// AccountService is the shopper's own account.
type AccountService struct {
	guard
	client AccountClient
	orders *OrderService
}

func NewAccountService(client AccountClient, orders *OrderService, store *session.Store, navigator nav.Navigator) *AccountService {
	return &AccountService{guard: guard{store: store, navigator: navigator}, client: client, orders: orders}
}

// Profile refreshes the principal from the backend.
func (s *AccountService) Profile(ctx context.Context) (*domain.Principal, error) {
	if err := s.require(ErrRoleNotAllowed, domain.RoleShopper); err != nil {
		return nil, err
	}
	p, err := s.client.Profile(ctx, domain.RoleShopper)
	if err != nil {
		return nil, s.handle(err)
	}
	s.store.SetPrincipal(p)
	return s.store.Principal(), nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, form ProfileForm) (*domain.Principal, error) {
	if err := s.require(ErrRoleNotAllowed, domain.RoleShopper); err != nil {
		return nil, err
	}
	form.Email = strings.TrimSpace(form.Email)
	if err := validateForm(form); err != nil {
		return nil, err
	}

	p, err := s.client.UpdateProfile(ctx, api.ProfileUpdate{
		Name:       form.Name,
		Email:      form.Email,
		Password:   form.Password,
		ProfilePic: form.ProfilePic,
	})
	if err != nil {
		return nil, s.handle(err)
	}
	s.store.SetPrincipal(p)
	return s.store.Principal(), nil
}

// DeleteAccount removes the account and signs out.
func (s *AccountService) DeleteAccount(ctx context.Context) error {
	if err := s.require(ErrRoleNotAllowed, domain.RoleShopper); err != nil {
		return err
	}
	if err := s.client.DeleteAccount(ctx, domain.RoleShopper); err != nil {
		return s.handle(err)
	}
	s.store.ClearPrincipal()
	return nil
}

func (s *AccountService) Orders(ctx context.Context) ([]domain.Order, error) {
	return s.orders.Mine(ctx)
}
