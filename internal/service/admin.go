package service

import (
	"context"
	"strings"

	"github.com/fjod/nayra_storefront/internal/api"
	"github.com/fjod/nayra_storefront/internal/domain"
	"github.com/fjod/nayra_storefront/internal/nav"
	"github.com/fjod/nayra_storefront/internal/session"
)

type AdminClient interface {
	Profile(ctx context.Context, role domain.Role) (*domain.Principal, error)
	PendingSellers(ctx context.Context) ([]domain.Principal, error)
	ApproveSeller(ctx context.Context, sellerID string) (*api.Message, error)
	AdminGetUser(ctx context.Context, userID string) (*domain.Principal, error)
	AdminUpdateUser(ctx context.Context, userID string, u api.UserUpdate) (*api.Message, error)
	AdminDeleteUser(ctx context.Context, userID string) error
	AdminAddSeller(ctx context.Context, s api.SellerAccount) (*api.Message, error)
	AdminGetProduct(ctx context.Context, productID string) (*domain.Product, error)
	AdminAddProduct(ctx context.Context, p api.NewProduct) (*api.Message, error)
	AdminUpdateProduct(ctx context.Context, productID string, e api.ProductEdit) (*api.Message, error)
	AdminDeleteProduct(ctx context.Context, productID string) error
}

type AdminService struct {
	guard
	client  AdminClient
	catalog CatalogInvalidator
}

func NewAdminService(client AdminClient, catalog CatalogInvalidator, store *session.Store, navigator nav.Navigator) *AdminService {
	return &AdminService{guard: guard{store: store, navigator: navigator}, client: client, catalog: catalog}
}

func (s *AdminService) Profile(ctx context.Context) (*domain.Principal, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	p, err := s.client.Profile(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, s.handle(err)
	}
	s.store.SetPrincipal(p)
	return s.store.Principal(), nil
}

func (s *AdminService) PendingSellers(ctx context.Context) ([]domain.Principal, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	sellers, err := s.client.PendingSellers(ctx)
	if err != nil {
		return nil, s.handle(err)
	}
	return sellers, nil
}

func (s *AdminService) ApproveSeller(ctx context.Context, sellerID string) (string, error) {
	if err := s.requireAdmin(); err != nil {
		return "", err
	}
	return s.message(func() (*api.Message, error) { return s.client.ApproveSeller(ctx, sellerID) })
}

func (s *AdminService) GetUser(ctx context.Context, userID string) (*domain.Principal, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	p, err := s.client.AdminGetUser(ctx, userID)
	if err != nil {
		return nil, s.handle(err)
	}
	return p, nil
}

func (s *AdminService) UpdateUser(ctx context.Context, userID string, u api.UserUpdate) (string, error) {
	if err := s.requireAdmin(); err != nil {
		return "", err
	}
	if u.Role != "" {
		role, err := domain.ParseRole(u.Role)
		if err != nil {
			return "", &FormError{Fields: map[string]string{"Role": "Role must be user, seller or superadmin"}}
		}
		u.Role = role.WireName()
	}
	return s.message(func() (*api.Message, error) { return s.client.AdminUpdateUser(ctx, userID, u) })
}

func (s *AdminService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.requireAdmin(); err != nil {
		return err
	}
	return s.handle(s.client.AdminDeleteUser(ctx, userID))
}

// AddSeller creates a seller account directly, optionally pre-approved.
func (s *AdminService) AddSeller(ctx context.Context, form SellerAccountForm) (string, error) {
	if err := s.requireAdmin(); err != nil {
		return "", err
	}
	form.Email = strings.TrimSpace(form.Email)
	if err := validateForm(form); err != nil {
		return "", err
	}
	return s.message(func() (*api.Message, error) {
		return s.client.AdminAddSeller(ctx, api.SellerAccount{
			Name:          form.Name,
			Email:         form.Email,
			Password:      form.Password,
			ProfilePic:    form.ProfilePic,
			ShopName:      form.ShopName,
			ContactNumber: form.ContactNumber,
			Approved:      form.Approved,
		})
	})
}

func (s *AdminService) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	p, err := s.client.AdminGetProduct(ctx, productID)
	if err != nil {
		return nil, s.handle(err)
	}
	return p, nil
}

func (s *AdminService) AddProduct(ctx context.Context, form ProductForm, image *api.Upload) (string, error) {
	if err := s.requireAdmin(); err != nil {
		return "", err
	}
	np, err := newProduct(form, image)
	if err != nil {
		return "", err
	}
	msg, err := s.message(func() (*api.Message, error) { return s.client.AdminAddProduct(ctx, np) })
	if err == nil {
		s.invalidate(ctx)
	}
	return msg, err
}

func (s *AdminService) UpdateProduct(ctx context.Context, productID string, form ProductEditForm, image *api.Upload) (string, error) {
	if err := s.requireAdmin(); err != nil {
		return "", err
	}
	form.Name = strings.TrimSpace(form.Name)
	if err := validateForm(form); err != nil {
		return "", err
	}
	msg, err := s.message(func() (*api.Message, error) {
		return s.client.AdminUpdateProduct(ctx, productID, api.ProductEdit{
			Name:        form.Name,
			Description: form.Description,
			Price:       form.Price,
			Quantity:    form.Quantity,
			Image:       image,
		})
	})
	if err == nil {
		s.invalidate(ctx)
	}
	return msg, err
}

func (s *AdminService) DeleteProduct(ctx context.Context, productID string) error {
	if err := s.requireAdmin(); err != nil {
		return err
	}
	if err := s.client.AdminDeleteProduct(ctx, productID); err != nil {
		return s.handle(err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *AdminService) requireAdmin() error {
	return s.require(ErrRoleNotAllowed, domain.RoleAdmin)
}

// message runs an admin call that answers with an acknowledgement. Callers
// check the role first.
func (s *AdminService) message(call func() (*api.Message, error)) (string, error) {
	msg, err := call()
	if err != nil {
		return "", s.handle(err)
	}
	return msg.Message, nil
}

func (s *AdminService) invalidate(ctx context.Context) {
	if s.catalog != nil {
		s.catalog.Invalidate(ctx)
	}
}
