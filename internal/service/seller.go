package service

import (
	"context"
	"strings"

	"github.com/fjod/nayra_storefront/internal/api"
	"github.com/fjod/nayra_storefront/internal/domain"
	"github.com/fjod/nayra_storefront/internal/nav"
	"github.com/fjod/nayra_storefront/internal/session"
	"github.com/shopspring/decimal"
)

type SellerClient interface {
	SellerProducts(ctx context.Context) ([]domain.Product, error)
	SellerAddProduct(ctx context.Context, p api.NewProduct) (*domain.Product, error)
	SellerUpdateProduct(ctx context.Context, productID string, u api.StockUpdate) (*domain.Product, error)
	SellerDeleteProduct(ctx context.Context, productID string) error
	Profile(ctx context.Context, role domain.Role) (*domain.Principal, error)
	UpdateSellerProfile(ctx context.Context, u api.SellerProfileUpdate) (*api.Message, error)
	DeleteAccount(ctx context.Context, role domain.Role) error
}

// CatalogInvalidator is told when products change so cached listings go.
type CatalogInvalidator interface {
	Invalidate(ctx context.Context)
}

type SellerService struct {
	guard
	client  SellerClient
	catalog CatalogInvalidator
}

func NewSellerService(client SellerClient, catalog CatalogInvalidator, store *session.Store, navigator nav.Navigator) *SellerService {
	return &SellerService{guard: guard{store: store, navigator: navigator}, client: client, catalog: catalog}
}

func (s *SellerService) MyProducts(ctx context.Context) ([]domain.Product, error) {
	if err := s.requireSeller(); err != nil {
		return nil, err
	}
	products, err := s.client.SellerProducts(ctx)
	if err != nil {
		return nil, s.handle(err)
	}
	return products, nil
}

func (s *SellerService) AddProduct(ctx context.Context, form ProductForm, image *api.Upload) (*domain.Product, error) {
	if err := s.requireSeller(); err != nil {
		return nil, err
	}
	np, err := newProduct(form, image)
	if err != nil {
		return nil, err
	}

	p, err := s.client.SellerAddProduct(ctx, np)
	if err != nil {
		return nil, s.handle(err)
	}
	s.invalidate(ctx)
	return p, nil
}

// UpdateProduct changes price and stock, the only fields a seller may edit.
func (s *SellerService) UpdateProduct(ctx context.Context, productID string, price decimal.Decimal, quantity int) (*domain.Product, error) {
	if err := s.requireSeller(); err != nil {
		return nil, err
	}
	if err := validateForm(StockForm{Price: price, Quantity: quantity}); err != nil {
		return nil, err
	}

	p, err := s.client.SellerUpdateProduct(ctx, productID, api.StockUpdate{Price: price, Quantity: quantity})
	if err != nil {
		return nil, s.handle(err)
	}
	s.invalidate(ctx)
	return p, nil
}

func (s *SellerService) DeleteProduct(ctx context.Context, productID string) error {
	if err := s.requireSeller(); err != nil {
		return err
	}
	if err := s.client.SellerDeleteProduct(ctx, productID); err != nil {
		return s.handle(err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *SellerService) Profile(ctx context.Context) (*domain.Principal, error) {
	if err := s.requireSeller(); err != nil {
		return nil, err
	}
	p, err := s.client.Profile(ctx, domain.RoleSeller)
	if err != nil {
		return nil, s.handle(err)
	}
	s.store.SetPrincipal(p)
	return s.store.Principal(), nil
}

func (s *SellerService) UpdateProfile(ctx context.Context, form SellerProfileForm) (string, error) {
	if err := s.requireSeller(); err != nil {
		return "", err
	}
	form.Email = strings.TrimSpace(form.Email)
	if err := validateForm(form); err != nil {
		return "", err
	}

	msg, err := s.client.UpdateSellerProfile(ctx, api.SellerProfileUpdate{
		Name:          form.Name,
		Email:         form.Email,
		ShopName:      form.ShopName,
		ContactNumber: form.ContactNumber,
		ProfilePic:    form.ProfilePic,
	})
	if err != nil {
		return "", s.handle(err)
	}
	if p := s.store.Principal(); p != nil {
		p.Name, p.Email, p.ShopName, p.ContactNumber = form.Name, form.Email, form.ShopName, form.ContactNumber
		if form.ProfilePic != "" {
			p.ProfilePic = form.ProfilePic
		}
		s.store.SetPrincipal(p)
	}
	return msg.Message, nil
}

func (s *SellerService) DeleteAccount(ctx context.Context) error {
	if err := s.requireSeller(); err != nil {
		return err
	}
	if err := s.client.DeleteAccount(ctx, domain.RoleSeller); err != nil {
		return s.handle(err)
	}
	s.store.ClearPrincipal()
	return nil
}

func (s *SellerService) requireSeller() error {
	return s.require(ErrRoleNotAllowed, domain.RoleSeller)
}

func (s *SellerService) invalidate(ctx context.Context) {
	if s.catalog != nil {
		s.catalog.Invalidate(ctx)
	}
}

func newProduct(form ProductForm, image *api.Upload) (api.NewProduct, error) {
	form.Title = strings.TrimSpace(form.Title)
	if err := validateForm(form); err != nil {
		return api.NewProduct{}, err
	}
	category, _ := domain.ParseCategory(form.Category)
	return api.NewProduct{
		Title:       form.Title,
		Description: form.Description,
		Category:    category,
		Price:       form.Price,
		Quantity:    form.Quantity,
		Image:       image,
	}, nil
}
